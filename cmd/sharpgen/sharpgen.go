package main

import (
	"os"
	"strings"

	"sharpgen/internal/config"
	"sharpgen/internal/configpaths"
	"sharpgen/internal/log"
	"sharpgen/internal/version"

	_ "sharpgen/internal/registry" // Register all generation passes

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sharpgen"),
		kong.Description("C# P/Invoke binding generator for native API models"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var tracer log.EmitTracer
	if cli.Log.Level == "trace" {
		tracer = log.NewEmitTrace(os.Stdout)
	} else {
		tracer = log.NewEmitTrace(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(tracer, (*log.EmitTracer)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("SHARPGEN_CONFIG"); v != "" {
		return v
	}
	return ""
}
