// Package pinvoke emits the C# interop layer for a native API model: one
// partial class per native class with identity caching and thread-safe
// disposal, extern declarations for field access, construction and method
// calls, and a delegate/installer pair for every native virtual so managed
// code can override it.
package pinvoke

import (
	"fmt"
	"path/filepath"
	"strings"

	"sharpgen/internal/codegen"
	"sharpgen/internal/decl"
	"sharpgen/internal/printer"
)

// FileName is the single artifact the pass produces.
const FileName = "PInvoke.cs"

func init() {
	codegen.Register("pinvoke", func(ctx *codegen.Context) codegen.Pass {
		return New(ctx)
	})
}

// Pass accumulates the whole interop file across one traversal and writes
// it in Stop.
type Pass struct {
	ctx *codegen.Context
	p   *printer.Printer
}

func New(ctx *codegen.Context) *Pass {
	p := printer.New()
	if ctx.Trace != nil {
		p.SetTrace(ctx.Trace.Line)
	}
	return &Pass{ctx: ctx, p: p}
}

func (g *Pass) Name() string { return "pinvoke" }

// Start emits the fixed prologue: interop usings and the namespace scope.
// The namespace braces are literal; member indentation starts at the
// class level, matching hand-written interop files.
func (g *Pass) Start() {
	g.p.Line("using System;")
	g.p.Line("using System.Threading;")
	g.p.Line("using System.Collections.Concurrent;")
	g.p.Line("using System.Runtime.InteropServices;")
	g.p.Line("")
	g.p.Linef("namespace %s", g.ctx.Namespace)
	g.p.Line("{")
	g.p.Line("")
}

// Visit dispatches on the node kind. It never aborts the traversal;
// declarations that cannot be bound are recorded as diagnostics and
// skipped.
func (g *Pass) Visit(n decl.Node, ev decl.Event) bool {
	switch d := n.(type) {
	case *decl.Class:
		if ev == decl.EventEnter {
			g.classEnter(d)
		} else {
			g.classExit(d)
		}
	case *decl.Variable:
		g.variable(d)
	case *decl.Constructor:
		g.constructor(d)
	case *decl.Method:
		g.method(d)
	default:
		g.ctx.Diags.Errorf(decl.Describe(n), "no emission rule for declaration kind %s", n.Kind())
	}
	return true
}

// Stop closes the namespace and writes the artifact. A failed write
// aborts the run; no partial output is kept.
func (g *Pass) Stop() error {
	g.p.Line("}")

	path := filepath.Join(g.ctx.OutDir, FileName)
	if err := g.ctx.Sink.WriteFile(path, []byte(g.p.String())); err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	g.ctx.Logger.Debug("Emitted interop declarations", "file", path, "lines", g.p.Lines())
	return nil
}

func (g *Pass) dllImport() {
	g.p.Linef("[DllImport(%q, CallingConvention = CallingConvention.Cdecl)]", g.ctx.Library)
}

func (g *Pass) refCounted(c *decl.Class) bool {
	return g.ctx.RefCountedRoot != "" && c.IsSubclassOf(g.ctx.RefCountedRoot)
}

func (g *Pass) classEnter(c *decl.Class) {
	if len(c.Bases) > 0 {
		g.p.Linef("public partial class %s : %s, IDisposable", c.Name, strings.Join(c.BaseNames(), ", "))
	} else {
		g.p.Linef("public partial class %s : IDisposable", c.Name)
	}
	g.p.Indent()

	// One wrapper per live native pointer. Derived classes shadow the
	// inherited cache so each concrete type maps pointers to its own
	// wrapper type.
	shadow := ""
	if len(c.Bases) > 0 {
		shadow = "new "
	}
	g.p.Linef("internal static %sConcurrentDictionary<IntPtr, %s> cache_ = new ConcurrentDictionary<IntPtr, %s>();",
		shadow, c.Name, c.Name)
	g.p.Line("")

	if len(c.Bases) == 0 {
		g.p.Line("internal IntPtr instance_;")
		g.p.Line("protected volatile int disposed_;")
		g.p.Line("")

		g.p.Linef("internal %s(IntPtr instance)", c.Name)
		g.p.Indent()
		// Managed subclasses may construct with a null pointer and
		// attach the native instance afterwards.
		g.p.Line("if (instance != IntPtr.Zero)")
		g.p.Indent()
		g.p.Line("instance_ = instance;")
		if g.refCounted(c) {
			g.p.Linef("%s(instance);", g.ctx.RefAdd())
		}
		g.p.Dedent()
		g.p.Dedent()
		g.p.Line("")
	} else {
		g.p.Linef("internal %s(IntPtr instance) : base(instance) { }", c.Name)
		g.p.Line("")
	}

	disposeKeyword := "public"
	if len(c.Bases) > 0 {
		disposeKeyword = "public new"
	}
	g.p.Linef("%s void Dispose()", disposeKeyword)
	g.p.Indent()
	// First disposer wins; finalizer and explicit calls share this path.
	g.p.Line("if (Interlocked.Increment(ref disposed_) == 1)")
	g.p.Indent()
	g.p.Line("var self = this;")
	g.p.Line("cache_.TryRemove(instance_, out self);")
	if g.refCounted(c) {
		g.p.Linef("%s(instance_);", g.ctx.RefRelease())
	} else {
		g.p.Linef("%s_destructor(instance_);", c.Symbol)
	}
	g.p.Dedent()
	g.p.Line("instance_ = IntPtr.Zero;")
	g.p.Dedent()
	g.p.Line("")

	g.p.Linef("~%s()", c.Name)
	g.p.Indent()
	g.p.Line("Dispose();")
	g.p.Dedent()
	g.p.Line("")

	// Every class gets a destructor entry point, whether or not the
	// native side declares a destructor.
	g.dllImport()
	g.p.Linef("internal static extern void %s_destructor(IntPtr instance);", c.Symbol)
	g.p.Line("")
}

func (g *Pass) classExit(c *decl.Class) {
	g.p.Dedent()
	g.p.Line("")
}

func (g *Pass) variable(v *decl.Variable) {
	if v.Parent == nil {
		g.ctx.Diags.Warnf(decl.Describe(v), "unsupported declaration: variable outside a class is not bound")
		return
	}
	if v.Static {
		g.ctx.Diags.Warnf(decl.Describe(v), "unsupported declaration: static fields are not bound")
		return
	}

	ret := g.ctx.Mapper.Return(v.Type, false)
	g.dllImport()
	if g.ctx.Mapper.IsTextual(ret) {
		g.p.Line("[return: MarshalAs(UnmanagedType.LPUTF8Str)]")
	}
	g.p.Linef("internal static extern %s get_%s(IntPtr cls);", ret, v.CFunc)
	g.p.Line("")

	g.dllImport()
	g.p.Linef("internal static extern void set_%s(IntPtr cls, %s value);", v.CFunc, g.ctx.Mapper.Param(v.Type))
	g.p.Line("")
}

func (g *Pass) constructor(c *decl.Constructor) {
	g.dllImport()
	g.p.Linef("internal static extern IntPtr %s(%s);", c.CFunc, g.paramList(c.Params))
	g.p.Line("")
}

func (g *Pass) method(m *decl.Method) {
	params := g.paramList(m.Params)
	ret := g.ctx.Mapper.Return(m.Returns, true)

	g.dllImport()
	if g.ctx.Mapper.IsTextual(ret) {
		g.p.Line("[return: MarshalAs(UnmanagedType.LPUTF8Str)]")
	}
	if params == "" {
		g.p.Linef("internal static extern %s %s(IntPtr instance);", ret, m.CFunc)
	} else {
		g.p.Linef("internal static extern %s %s(IntPtr instance, %s);", ret, m.CFunc, params)
	}
	g.p.Line("")

	if !m.Virtual {
		return
	}

	// Virtual bridge: a delegate shaped like the method plus an installer
	// the managed side calls to hook its override into the native vtable
	// shim.
	g.p.Line("[UnmanagedFunctionPointer(CallingConvention.Cdecl)]")
	if params == "" {
		g.p.Linef("internal delegate %s %sDelegate(IntPtr instance);", ret, m.Name)
	} else {
		g.p.Linef("internal delegate %s %sDelegate(IntPtr instance, %s);", ret, m.Name, params)
	}
	g.p.Line("")

	g.dllImport()
	g.p.Linef("internal static extern void set_%s_fn%s(IntPtr instance, %sDelegate cb);",
		m.Parent.Name, m.Name, m.Name)
	g.p.Line("")
}

// paramList renders the formal parameters of an extern or delegate.
// Unnamed parameters get positional placeholders.
func (g *Pass) paramList(params []decl.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		parts[i] = g.ctx.Mapper.Param(p.Type) + " " + name
	}
	return strings.Join(parts, ", ")
}
