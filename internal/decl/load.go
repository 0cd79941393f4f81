package decl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the wire encoding of a model document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Wire shape of a model document:
//
//	{
//	  "declarations": [
//	    {
//	      "kind": "class",
//	      "name": "Foo",
//	      "symbol": "Urho3D__Foo",
//	      "bases": ["Base"],
//	      "members": [
//	        {"kind": "variable", "name": "count", "cfunc": "Foo_count", "type": "int"},
//	        {"kind": "constructor", "cfunc": "Foo_Foo", "params": [{"name": "n", "type": "int"}]},
//	        {"kind": "method", "name": "Bar", "cfunc": "Foo_Bar", "returns": "float",
//	         "virtual": true, "params": [{"type": "int"}]}
//	      ]
//	    }
//	  ]
//	}
//
// Bases reference classes declared earlier in the document, by display
// name or by symbol.
type fileModel struct {
	Declarations []fileNode `json:"declarations" yaml:"declarations"`
}

type fileNode struct {
	Kind    string      `json:"kind" yaml:"kind"`
	Name    string      `json:"name,omitempty" yaml:"name,omitempty"`
	Symbol  string      `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	CFunc   string      `json:"cfunc,omitempty" yaml:"cfunc,omitempty"`
	Type    string      `json:"type,omitempty" yaml:"type,omitempty"`
	Returns string      `json:"returns,omitempty" yaml:"returns,omitempty"`
	Static  bool        `json:"static,omitempty" yaml:"static,omitempty"`
	Virtual bool        `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	Bases   []string    `json:"bases,omitempty" yaml:"bases,omitempty"`
	Params  []fileParam `json:"params,omitempty" yaml:"params,omitempty"`
	Members []fileNode  `json:"members,omitempty" yaml:"members,omitempty"`
}

type fileParam struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type" yaml:"type"`
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads and validates an API model from path. The format is chosen
// by extension: .json, .yaml or .yml.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return Parse(data, FormatJSON)
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	default:
		return nil, fmt.Errorf("unsupported model format %q (expected .json, .yaml or .yml)", ext)
	}
}

// Parse decodes and validates a model document. Every declaration is
// checked before any of them is handed to a pass: unknown kinds, malformed
// symbol or cfunc identifiers, unresolved bases and misplaced members are
// reported as errors here rather than surfacing mid-generation.
func Parse(data []byte, f Format) (*Model, error) {
	var doc fileModel
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode model: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode model: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown model format %q", f)
	}

	b := &builder{classes: map[string]*Class{}}
	m := &Model{}
	for i := range doc.Declarations {
		n, err := b.node(&doc.Declarations[i], nil)
		if err != nil {
			return nil, err
		}
		m.Decls = append(m.Decls, n)
	}
	return m, nil
}

// builder resolves base references while constructing nodes. Classes are
// indexed under both their display name and their symbol.
type builder struct {
	classes map[string]*Class
}

func (b *builder) node(fn *fileNode, parent *Class) (Node, error) {
	switch fn.Kind {
	case "class":
		return b.class(fn, parent)
	case "variable":
		return b.variable(fn, parent)
	case "constructor":
		return b.constructor(fn, parent)
	case "method":
		return b.method(fn, parent)
	case "":
		return nil, fmt.Errorf("declaration %q: missing kind", fn.Name)
	default:
		return nil, fmt.Errorf("declaration %q: unknown kind %q", fn.Name, fn.Kind)
	}
}

func (b *builder) class(fn *fileNode, parent *Class) (*Class, error) {
	if fn.Name == "" {
		return nil, fmt.Errorf("class with symbol %q: missing name", fn.Symbol)
	}
	if err := validIdent("symbol", fn.Symbol); err != nil {
		return nil, fmt.Errorf("class %q: %w", fn.Name, err)
	}
	if _, ok := b.classes[fn.Name]; ok {
		return nil, fmt.Errorf("class %q: duplicate class name", fn.Name)
	}
	if _, ok := b.classes[fn.Symbol]; ok {
		return nil, fmt.Errorf("class %q: duplicate symbol %q", fn.Name, fn.Symbol)
	}

	c := &Class{Declaration: Declaration{
		Name:   fn.Name,
		Symbol: fn.Symbol,
		CFunc:  fn.CFunc,
		Parent: parent,
	}}
	for _, base := range fn.Bases {
		bc, ok := b.classes[base]
		if !ok {
			return nil, fmt.Errorf("class %q: unknown base class %q", fn.Name, base)
		}
		c.Bases = append(c.Bases, bc)
	}
	b.classes[fn.Name] = c
	b.classes[fn.Symbol] = c

	for i := range fn.Members {
		n, err := b.node(&fn.Members[i], c)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", fn.Name, err)
		}
		c.Members = append(c.Members, n)
	}
	return c, nil
}

func (b *builder) variable(fn *fileNode, parent *Class) (*Variable, error) {
	if fn.Name == "" {
		return nil, fmt.Errorf("variable with cfunc %q: missing name", fn.CFunc)
	}
	if err := validIdent("cfunc", fn.CFunc); err != nil {
		return nil, fmt.Errorf("variable %q: %w", fn.Name, err)
	}
	if fn.Type == "" {
		return nil, fmt.Errorf("variable %q: missing type", fn.Name)
	}
	return &Variable{
		Declaration: Declaration{Name: fn.Name, Symbol: fn.Symbol, CFunc: fn.CFunc, Parent: parent},
		Type:        TypeRef{Name: fn.Type},
		Static:      fn.Static,
	}, nil
}

func (b *builder) constructor(fn *fileNode, parent *Class) (*Constructor, error) {
	if parent == nil {
		return nil, fmt.Errorf("constructor %q: not inside a class", fn.CFunc)
	}
	if err := validIdent("cfunc", fn.CFunc); err != nil {
		return nil, fmt.Errorf("constructor in class %q: %w", parent.Name, err)
	}
	params, err := b.params("constructor "+fn.CFunc, fn.Params)
	if err != nil {
		return nil, err
	}
	return &Constructor{
		Declaration: Declaration{Name: fn.Name, Symbol: fn.Symbol, CFunc: fn.CFunc, Parent: parent},
		Params:      params,
	}, nil
}

func (b *builder) method(fn *fileNode, parent *Class) (*Method, error) {
	if parent == nil {
		return nil, fmt.Errorf("method %q: not inside a class", fn.Name)
	}
	if fn.Name == "" {
		return nil, fmt.Errorf("method with cfunc %q in class %q: missing name", fn.CFunc, parent.Name)
	}
	if err := validIdent("cfunc", fn.CFunc); err != nil {
		return nil, fmt.Errorf("method %q: %w", fn.Name, err)
	}
	params, err := b.params("method "+fn.Name, fn.Params)
	if err != nil {
		return nil, err
	}
	returns := fn.Returns
	if returns == "" {
		returns = "void"
	}
	return &Method{
		Declaration: Declaration{Name: fn.Name, Symbol: fn.Symbol, CFunc: fn.CFunc, Parent: parent},
		Params:      params,
		Returns:     TypeRef{Name: returns},
		Virtual:     fn.Virtual,
	}, nil
}

func (b *builder) params(owner string, fps []fileParam) ([]Param, error) {
	params := make([]Param, 0, len(fps))
	for i, fp := range fps {
		if fp.Type == "" {
			return nil, fmt.Errorf("%s: parameter %d: missing type", owner, i)
		}
		params = append(params, Param{Name: fp.Name, Type: TypeRef{Name: fp.Type}})
	}
	return params, nil
}

func validIdent(field, v string) error {
	if v == "" {
		return fmt.Errorf("missing %s", field)
	}
	if !identRe.MatchString(v) {
		return fmt.Errorf("invalid %s %q", field, v)
	}
	return nil
}
