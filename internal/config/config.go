// Package config defines the root CLI structure parsed by kong. Values
// come from flags, environment variables and layered config files, in
// that priority order.
package config

import (
	"github.com/alecthomas/kong"

	"sharpgen/internal/cmd"
)

// LogConfig groups the logging flags shared by every command.
type LogConfig struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"SHARPGEN_LOG_LEVEL"`
	File  string `help:"Also write logs to this file" env:"SHARPGEN_LOG_FILE"`
}

// CLI is the sharpgen command tree.
type CLI struct {
	Log     LogConfig        `embed:"" prefix:"log."`
	Config  string           `help:"Path to a config file (json, yaml or toml)" env:"SHARPGEN_CONFIG"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Generate  cmd.Generate      `cmd:"" help:"Generate C# P/Invoke bindings from an API model"`
	Inspect   cmd.Inspect       `cmd:"" help:"Validate an API model and print a summary"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}
