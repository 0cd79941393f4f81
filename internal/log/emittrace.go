package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EmitTracer receives every line a generation pass emits, before
// indentation is applied.
type EmitTracer interface {
	Line(n, depth int, text string)
}

// NewEmitTrace creates a new EmitTracer writing one record per emitted
// line. If writer is nil, returns a no-op tracer.
func NewEmitTrace(w io.Writer) EmitTracer {
	return &emitTrace{w: w}
}

// emitTrace implements EmitTracer with thread-safe output.
type emitTrace struct {
	w  io.Writer
	mu sync.Mutex
}

// Line writes one trace record: the line ordinal, a depth marker and the
// raw text.
func (t *emitTrace) Line(n, depth int, text string) {
	if t.w == nil {
		return
	}

	record := fmt.Sprintf("%4d| %s%s\n", n, strings.Repeat("  ", depth), text)

	t.mu.Lock()
	_, _ = t.w.Write([]byte(record))
	t.mu.Unlock()
}
