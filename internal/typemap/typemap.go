// Package typemap resolves native type descriptors to the C# types used
// in P/Invoke declarations.
package typemap

import (
	"strings"

	"sharpgen/internal/decl"
)

// Builtin scalar mappings. Descriptors are matched after normalization
// (const and reference qualifiers stripped, spacing collapsed).
var builtins = map[string]string{
	"void":               "void",
	"bool":               "bool",
	"char":               "sbyte",
	"signed char":        "sbyte",
	"int8_t":             "sbyte",
	"unsigned char":      "byte",
	"uint8_t":            "byte",
	"short":              "short",
	"short int":          "short",
	"int16_t":            "short",
	"unsigned short":     "ushort",
	"uint16_t":           "ushort",
	"int":                "int",
	"int32_t":            "int",
	"long":               "int",
	"unsigned":           "uint",
	"unsigned int":       "uint",
	"unsigned long":      "uint",
	"uint32_t":           "uint",
	"long long":          "long",
	"int64_t":            "long",
	"unsigned long long": "ulong",
	"uint64_t":           "ulong",
	"size_t":             "ulong",
	"float":              "float",
	"double":             "double",
}

// Owned string types marshal as C# string in every position.
var stringTypes = map[string]bool{
	"std::string": true,
	"String":      true,
}

// Borrowed C strings marshal as string going in, but a method returning
// char* hands back memory of unknown ownership, so those stay IntPtr.
var rawStringTypes = map[string]bool{
	"char*": true,
}

// Mapper resolves native types for one generation run. Overrides win over
// every builtin rule.
type Mapper struct {
	overrides map[string]string
}

// New builds a Mapper with the given override table. Override keys are
// matched both verbatim and after normalization.
func New(overrides map[string]string) *Mapper {
	m := &Mapper{overrides: make(map[string]string, len(overrides))}
	for k, v := range overrides {
		m.overrides[k] = v
	}
	return m
}

// Param maps a native type for use as a parameter.
func (m *Mapper) Param(t decl.TypeRef) string {
	return m.resolve(t.Name, false)
}

// Return maps a native type for use as a return value. isMethodReturn
// distinguishes method returns from field getter returns; the two differ
// for borrowed C strings.
func (m *Mapper) Return(t decl.TypeRef, isMethodReturn bool) string {
	return m.resolve(t.Name, isMethodReturn)
}

// IsTextual reports whether a mapped C# type needs an explicit string
// marshaling directive on return values.
func (m *Mapper) IsTextual(cs string) bool {
	return cs == "string"
}

func (m *Mapper) resolve(name string, isMethodReturn bool) string {
	if v, ok := m.overrides[name]; ok {
		return v
	}
	n := normalize(name)
	if v, ok := m.overrides[n]; ok {
		return v
	}
	if rawStringTypes[n] {
		if isMethodReturn {
			return "IntPtr"
		}
		return "string"
	}
	if stringTypes[n] {
		return "string"
	}
	if v, ok := builtins[n]; ok {
		return v
	}
	return "IntPtr"
}

// normalize canonicalizes a descriptor: const and reference qualifiers
// dropped, whitespace collapsed, pointer stars attached to the base type.
func normalize(name string) string {
	n := strings.TrimSpace(name)
	n = strings.TrimPrefix(n, "const ")
	n = strings.TrimSuffix(n, "&")
	n = strings.Join(strings.Fields(n), " ")
	n = strings.ReplaceAll(n, " *", "*")
	return strings.TrimSpace(n)
}
