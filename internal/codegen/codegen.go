// Package codegen drives binding generation passes over a declaration
// model. Passes register themselves from init and are selected by name;
// everything a pass needs at runtime travels in an explicit Context.
package codegen

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"sharpgen/internal/decl"
	"sharpgen/internal/diag"
	"sharpgen/internal/log"
	"sharpgen/internal/typemap"
)

// Pass is one code generation pass. The runner calls Start once, Visit
// for every traversal event, then Stop, which writes the pass artifacts.
type Pass interface {
	Name() string
	Start()
	Visit(n decl.Node, ev decl.Event) bool
	Stop() error
}

// Context carries the per-run state shared by passes. Fields are set by
// the command layer; passes treat it as read-only apart from Diags.
type Context struct {
	Mapper    *typemap.Mapper
	OutDir    string
	Namespace string
	// Library is the native module identifier every extern declaration
	// imports from.
	Library string
	// RefCountedRoot is the symbol of the intrusively reference-counted
	// root class. Empty disables ref-count calls entirely.
	RefCountedRoot string
	RefAddFunc     string
	RefReleaseFunc string
	Diags          *diag.Diagnostics
	Logger         *slog.Logger
	Sink           Sink
	Trace          log.EmitTracer
}

// RefAdd returns the native entry point that increments an object's
// reference count. Unless overridden it derives from the root symbol.
func (c *Context) RefAdd() string {
	if c.RefAddFunc != "" {
		return c.RefAddFunc
	}
	return c.RefCountedRoot + "__AddRef"
}

// RefRelease returns the native entry point that releases a reference.
func (c *Context) RefRelease() string {
	if c.RefReleaseFunc != "" {
		return c.RefReleaseFunc
	}
	return c.RefCountedRoot + "__ReleaseRef"
}

// Sink receives finished artifacts.
type Sink interface {
	WriteFile(path string, data []byte) error
}

// DiskSink writes artifacts below their target directory, creating it as
// needed, and logs a blake2b digest of each file so runs can be compared
// for byte-identical output.
type DiskSink struct {
	Logger *slog.Logger
}

func (s DiskSink) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	sum := blake2b.Sum256(data)
	s.Logger.Info("Wrote artifact",
		"file", path,
		"bytes", len(data),
		"blake2b", hex.EncodeToString(sum[:]))
	return nil
}

// MemSink collects artifacts in memory. Used by tests.
type MemSink struct {
	Files map[string][]byte
}

func NewMemSink() *MemSink {
	return &MemSink{Files: map[string][]byte{}}
}

func (s *MemSink) WriteFile(path string, data []byte) error {
	s.Files[path] = append([]byte(nil), data...)
	return nil
}

// Factory builds a pass bound to a context.
type Factory func(*Context) Pass

var (
	factories = map[string]Factory{}
	order     []string
)

// Register makes a pass available under name. Passes call it from init;
// the command layer imports them for side effects. Duplicate names panic.
func Register(name string, f Factory) {
	if _, ok := factories[name]; ok {
		panic("codegen: duplicate pass " + name)
	}
	factories[name] = f
	order = append(order, name)
}

// Names returns the registered pass names in registration order.
func Names() []string {
	return append([]string(nil), order...)
}

// Runner executes a sequence of passes over one model.
type Runner struct {
	ctx    *Context
	passes []Pass
}

// NewRunner resolves the named passes. The name "all" (or an empty list)
// selects every registered pass in registration order.
func NewRunner(ctx *Context, names ...string) (*Runner, error) {
	resolved := names
	if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
		resolved = Names()
	}
	r := &Runner{ctx: ctx}
	for _, name := range resolved {
		f, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("unsupported pass %q (available: %v)", name, Names())
		}
		r.passes = append(r.passes, f(ctx))
	}
	return r, nil
}

// Run drives each pass through one full traversal of the model. The
// first pass whose Stop fails aborts the run.
func (r *Runner) Run(m *decl.Model) error {
	for _, p := range r.passes {
		r.ctx.Logger.Info("Running pass", "pass", p.Name())
		p.Start()
		decl.Walk(m, p.Visit)
		if err := p.Stop(); err != nil {
			return fmt.Errorf("pass %s: %w", p.Name(), err)
		}
	}
	return nil
}
