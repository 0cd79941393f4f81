// Package diag collects generator diagnostics. Passes record warnings and
// errors against the declaration that caused them; the command layer
// decides at the end of a run whether the collection is fatal.
package diag

import "fmt"

// Severity of a single diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one recorded finding. Subject designates the declaration
// the message is about.
type Diagnostic struct {
	Severity Severity
	Subject  string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Subject, d.Message)
}

// Diagnostics accumulates findings in the order they were recorded.
type Diagnostics struct {
	items    []Diagnostic
	warnings int
	errors   int
}

func New() *Diagnostics {
	return &Diagnostics{}
}

// Warnf records a warning against subject.
func (d *Diagnostics) Warnf(subject, format string, args ...any) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityWarning,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
	d.warnings++
}

// Errorf records an error against subject.
func (d *Diagnostics) Errorf(subject, format string, args ...any) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityError,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
	d.errors++
}

// Items returns the recorded diagnostics in order.
func (d *Diagnostics) Items() []Diagnostic {
	return d.items
}

// Warnings returns the number of recorded warnings.
func (d *Diagnostics) Warnings() int {
	return d.warnings
}

// Errors returns the number of recorded errors.
func (d *Diagnostics) Errors() int {
	return d.errors
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return d.errors > 0
}
