package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitJSON(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "generate.json")
	c := &ConfigInit{Command: "generate", Format: "json", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	var root map[string]any
	require.NoError(t, json.Unmarshal(data, &root))
	assert.Equal(t, "./generated", root["output"])
	assert.Equal(t, "Interop", root["namespace"])
	assert.Equal(t, "native", root["library"])
	assert.Equal(t, false, root["strict"])

	// Positional arguments must not leak into config templates.
	_, hasModel := root["model"]
	assert.False(t, hasModel)
}

func TestConfigInitYAML(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "generate.yaml")
	c := &ConfigInit{Command: "generate", Format: "yaml", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	var root map[string]any
	require.NoError(t, yaml.Unmarshal(data, &root))
	assert.Equal(t, "native", root["library"])
}

func TestConfigInitTOML(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "generate.toml")
	c := &ConfigInit{Command: "generate", Format: "toml", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	tree, err := toml.LoadBytes(data)
	require.NoError(t, err)
	root := tree.ToMap()
	assert.Equal(t, "Interop", root["namespace"])
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "generate.json")
	require.NoError(t, os.WriteFile(dest, []byte("{}"), 0o644))

	c := &ConfigInit{Command: "generate", Format: "json", Output: dest}
	err := c.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination exists")

	c.Force = true
	require.NoError(t, c.Run())
}

func TestConfigInitUnknownFormat(t *testing.T) {
	c := &ConfigInit{Command: "generate", Format: "ini"}
	require.Error(t, c.Run())
}

func TestBuildMapSkipsArgsAndKeepsDefaults(t *testing.T) {
	type inner struct {
		Level string `default:"info"`
	}
	type sample struct {
		Model    string   `arg:""`
		Output   string   `default:"./out"`
		Passes   []string `default:"all"`
		Hidden   string   `kong:"-"`
		Settings inner    `embed:"" prefix:"log."`
	}

	root := buildMapFromStruct(reflect.TypeOf(sample{}))
	_, hasModel := root["model"]
	assert.False(t, hasModel)
	_, hasHidden := root["hidden"]
	assert.False(t, hasHidden)
	assert.Equal(t, "./out", root["output"])
	assert.Equal(t, []any{"all"}, root["passes"])

	sub, ok := root["log"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "info", sub["level"])
}
