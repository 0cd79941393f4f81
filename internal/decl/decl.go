// Package decl defines the native API declaration model consumed by
// generation passes: a closed set of node kinds (classes, variables,
// constructors, methods) carrying the attributes binding emission needs.
//
// Names, symbols and cfunc values are opaque strings produced upstream;
// the loader validates their shape but never rewrites them.
package decl

import "fmt"

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindClass Kind = iota
	KindVariable
	KindConstructor
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindVariable:
		return "variable"
	case KindConstructor:
		return "constructor"
	case KindMethod:
		return "method"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is implemented by every declaration. The implementation set is
// closed; passes dispatch with a type switch.
type Node interface {
	Kind() Kind
	decl() *Declaration
}

// Declaration holds the attributes shared by all node kinds.
//
// Symbol is the sanitized mangled name of the native entity (for a class,
// the name its destructor entry point is derived from). CFunc is the name
// of the flat C function generated for the entity; it is empty for
// classes.
type Declaration struct {
	Name   string
	Symbol string
	CFunc  string
	Parent *Class
}

func (d *Declaration) decl() *Declaration { return d }

// TypeRef names a native type as the upstream model spelled it.
type TypeRef struct {
	Name string
}

// Param is one formal parameter of a constructor or method. Name may be
// empty; emission substitutes a positional placeholder.
type Param struct {
	Name string
	Type TypeRef
}

// Class is a composite node whose Members appear in declaration order.
type Class struct {
	Declaration
	Bases   []*Class
	Members []Node
}

func (*Class) Kind() Kind { return KindClass }

// IsRoot reports whether the class has no bases.
func (c *Class) IsRoot() bool { return len(c.Bases) == 0 }

// IsSubclassOf reports whether the class is, or transitively derives
// from, the class whose Symbol is symbol.
func (c *Class) IsSubclassOf(symbol string) bool {
	if c.Symbol == symbol {
		return true
	}
	for _, b := range c.Bases {
		if b.IsSubclassOf(symbol) {
			return true
		}
	}
	return false
}

// BaseNames returns the display names of the direct bases, in order.
func (c *Class) BaseNames() []string {
	names := make([]string, len(c.Bases))
	for i, b := range c.Bases {
		names[i] = b.Name
	}
	return names
}

// Variable is a field of a class, or a free variable at the top level.
type Variable struct {
	Declaration
	Type   TypeRef
	Static bool
}

func (*Variable) Kind() Kind { return KindVariable }

// Constructor always has a non-nil Parent.
type Constructor struct {
	Declaration
	Params []Param
}

func (*Constructor) Kind() Kind { return KindConstructor }

// Method always has a non-nil Parent. Returns holds the native return
// type; loading substitutes void when the model omits it.
type Method struct {
	Declaration
	Params  []Param
	Returns TypeRef
	Virtual bool
}

func (*Method) Kind() Kind { return KindMethod }

// Model is one loaded API surface. Decls holds the top-level declarations
// in document order.
type Model struct {
	Decls []Node
}

// Describe renders a short designation for diagnostics, such as
// `method "Bar" (class "Foo")`.
func Describe(n Node) string {
	d := n.decl()
	name := d.Name
	if name == "" {
		name = d.CFunc
	}
	if name == "" {
		name = d.Symbol
	}
	s := fmt.Sprintf("%s %q", n.Kind(), name)
	if d.Parent != nil {
		s += fmt.Sprintf(" (class %q)", d.Parent.Name)
	}
	return s
}
