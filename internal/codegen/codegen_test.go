package codegen

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharpgen/internal/decl"
	"sharpgen/internal/diag"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorderPass records the runner's calls.
type recorderPass struct {
	name    string
	calls   []string
	stopErr error
}

func (p *recorderPass) Name() string { return p.name }
func (p *recorderPass) Start()       { p.calls = append(p.calls, "start") }
func (p *recorderPass) Visit(n decl.Node, ev decl.Event) bool {
	p.calls = append(p.calls, ev.String()+":"+decl.Describe(n))
	return true
}
func (p *recorderPass) Stop() error {
	p.calls = append(p.calls, "stop")
	return p.stopErr
}

func testContext() *Context {
	return &Context{
		Diags:  diag.New(),
		Logger: testLogger(),
		Sink:   NewMemSink(),
	}
}

func singleClassModel() *decl.Model {
	c := &decl.Class{Declaration: decl.Declaration{Name: "Foo", Symbol: "Foo"}}
	c.Members = []decl.Node{
		&decl.Method{Declaration: decl.Declaration{Name: "Bar", CFunc: "Foo_Bar", Parent: c}, Returns: decl.TypeRef{Name: "void"}},
	}
	return &decl.Model{Decls: []decl.Node{c}}
}

func TestRunnerDrivesPassLifecycle(t *testing.T) {
	p := &recorderPass{name: "probe"}
	r := &Runner{ctx: testContext(), passes: []Pass{p}}

	require.NoError(t, r.Run(singleClassModel()))

	want := []string{
		"start",
		`enter:class "Foo"`,
		`enter:method "Bar" (class "Foo")`,
		`exit:class "Foo"`,
		"stop",
	}
	assert.Equal(t, want, p.calls)
}

func TestRunnerStopFailureAborts(t *testing.T) {
	boom := errors.New("disk full")
	first := &recorderPass{name: "first", stopErr: boom}
	second := &recorderPass{name: "second"}
	r := &Runner{ctx: testContext(), passes: []Pass{first, second}}

	err := r.Run(singleClassModel())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pass first")
	assert.Empty(t, second.calls, "second pass must not run after a failed Stop")
}

func TestNewRunnerUnknownPass(t *testing.T) {
	_, err := NewRunner(testContext(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported pass "nonexistent"`)
}

func TestContextRefFunctions(t *testing.T) {
	ctx := &Context{RefCountedRoot: "Urho3D__RefCounted"}
	assert.Equal(t, "Urho3D__RefCounted__AddRef", ctx.RefAdd())
	assert.Equal(t, "Urho3D__RefCounted__ReleaseRef", ctx.RefRelease())

	ctx.RefAddFunc = "MyAddRef"
	ctx.RefReleaseFunc = "MyReleaseRef"
	assert.Equal(t, "MyAddRef", ctx.RefAdd())
	assert.Equal(t, "MyReleaseRef", ctx.RefRelease())
}

func TestDiskSinkWritesAndCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out", "PInvoke.cs")

	sink := DiskSink{Logger: testLogger()}
	require.NoError(t, sink.WriteFile(target, []byte("generated\n")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "generated\n", string(data))
}

func TestMemSinkCopiesData(t *testing.T) {
	sink := NewMemSink()
	buf := []byte("abc")
	require.NoError(t, sink.WriteFile("x.cs", buf))
	buf[0] = 'z'
	assert.Equal(t, []byte("abc"), sink.Files["x.cs"])
}
