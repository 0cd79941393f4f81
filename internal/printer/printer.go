// Package printer implements the line-oriented buffer generation passes
// emit source code into. It tracks brace nesting so emitted C# stays
// properly indented without passes managing whitespace themselves.
package printer

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// TraceFunc observes every emitted line: its ordinal, the nesting depth it
// was emitted at, and its text before indentation.
type TraceFunc func(n, depth int, text string)

// Printer accumulates generated source line by line. The zero value is
// ready to use; New is a convenience.
type Printer struct {
	buf   strings.Builder
	depth int
	lines int
	trace TraceFunc
}

func New() *Printer {
	return &Printer{}
}

// SetTrace installs a callback invoked for each emitted line. A nil value
// disables tracing.
func (p *Printer) SetTrace(fn TraceFunc) {
	p.trace = fn
}

// Line emits one line at the current nesting depth. An empty string
// produces a bare newline with no trailing whitespace.
func (p *Printer) Line(text string) {
	if text != "" {
		for i := 0; i < p.depth; i++ {
			p.buf.WriteString(indentUnit)
		}
		p.buf.WriteString(text)
	}
	p.buf.WriteByte('\n')
	if p.trace != nil {
		p.trace(p.lines, p.depth, text)
	}
	p.lines++
}

// Linef emits a formatted line.
func (p *Printer) Linef(format string, args ...any) {
	p.Line(fmt.Sprintf(format, args...))
}

// Indent opens a brace scope: it emits "{" at the current depth, then
// increases the depth for subsequent lines.
func (p *Printer) Indent() {
	p.Line("{")
	p.depth++
}

// Dedent closes the innermost brace scope: it decreases the depth, then
// emits the matching "}". Calling it with no open scope emits "}" at
// column zero.
func (p *Printer) Dedent() {
	if p.depth > 0 {
		p.depth--
	}
	p.Line("}")
}

// Depth returns the current brace nesting depth.
func (p *Printer) Depth() int {
	return p.depth
}

// Lines returns the number of lines emitted so far.
func (p *Printer) Lines() int {
	return p.lines
}

// String returns everything emitted so far.
func (p *Printer) String() string {
	return p.buf.String()
}
