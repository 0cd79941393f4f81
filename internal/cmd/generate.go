package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"sharpgen/internal/codegen"
	"sharpgen/internal/decl"
	"sharpgen/internal/diag"
	"sharpgen/internal/log"
	"sharpgen/internal/typemap"
)

// Generate runs binding generation passes over an API model.
type Generate struct {
	Model          string            `arg:"" help:"Path to the API declaration model (json or yaml)" type:"existingfile"`
	Output         string            `help:"Output directory for generated bindings" default:"./generated" env:"SHARPGEN_OUTPUT"`
	Namespace      string            `help:"Namespace wrapping the generated declarations" default:"Interop" env:"SHARPGEN_NAMESPACE"`
	Library        string            `help:"Native module identifier used by every extern declaration" default:"native" env:"SHARPGEN_LIBRARY"`
	RefCountedRoot string            `help:"Symbol of the reference-counted root class; empty disables ref counting" env:"SHARPGEN_REFCOUNTED_ROOT"`
	RefAdd         string            `help:"Native entry point adding a reference (default <root>__AddRef)"`
	RefRelease     string            `help:"Native entry point releasing a reference (default <root>__ReleaseRef)"`
	TypeOverride   map[string]string `help:"Extra native-to-C# type mappings (native=cs)"`
	Pass           []string          `help:"Generation passes to run" default:"all" env:"SHARPGEN_PASS"`
	Strict         bool              `help:"Treat generator warnings as errors"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, tracer log.EmitTracer) error {
	model, err := decl.Load(g.Model)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	logger.Info("Loaded API model", "file", g.Model, "declarations", len(model.Decls))

	ctx := &codegen.Context{
		Mapper:         typemap.New(g.TypeOverride),
		OutDir:         g.Output,
		Namespace:      g.Namespace,
		Library:        g.Library,
		RefCountedRoot: g.RefCountedRoot,
		RefAddFunc:     g.RefAdd,
		RefReleaseFunc: g.RefRelease,
		Diags:          diag.New(),
		Logger:         logger,
		Sink:           codegen.DiskSink{Logger: logger},
		Trace:          tracer,
	}

	runner, err := codegen.NewRunner(ctx, g.Pass...)
	if err != nil {
		return err
	}
	if err := runner.Run(model); err != nil {
		return err
	}

	report(logger, ctx.Diags)

	if ctx.Diags.HasErrors() {
		return fmt.Errorf("generation failed: %d error(s)", ctx.Diags.Errors())
	}
	if g.Strict && ctx.Diags.Warnings() > 0 {
		return fmt.Errorf("generation failed in strict mode: %d warning(s)", ctx.Diags.Warnings())
	}

	logger.Info("Generation complete", "output", g.Output)
	return nil
}

// report sends every diagnostic through the structured logger and, on an
// interactive terminal, renders them with colored severity tags as well.
func report(logger *slog.Logger, ds *diag.Diagnostics) {
	for _, it := range ds.Items() {
		switch it.Severity {
		case diag.SeverityError:
			logger.Error("Generator diagnostic", "subject", it.Subject, "detail", it.Message)
		default:
			logger.Warn("Generator diagnostic", "subject", it.Subject, "detail", it.Message)
		}
	}
	if len(ds.Items()) > 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		ds.Display()
	}
}
