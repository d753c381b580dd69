// Package codewriter provides an append-only, indentation-aware buffer for
// emitting source code.
package codewriter

import (
	"bytes"
	"fmt"
	"strings"
)

// Writer accumulates generated source text. Indentation is applied at the
// start of every non-empty line; blank lines stay empty.
//
// A Writer is not safe for concurrent use. Each generation pass owns one.
type Writer struct {
	buf         bytes.Buffer
	unit        string
	depth       int
	atLineStart bool
}

// New returns a Writer that indents with unit (for example two spaces).
func New(unit string) *Writer {
	return &Writer{unit: unit, atLineStart: true}
}

// Write formats according to format and appends the result. Without
// arguments format is written verbatim.
func (w *Writer) Write(format string, args ...any) {
	if len(args) == 0 {
		w.WriteString(format)
		return
	}
	w.WriteString(fmt.Sprintf(format, args...))
}

// WriteString appends s, indenting each line that begins inside it.
func (w *Writer) WriteString(s string) {
	for s != "" {
		line, rest, nl := strings.Cut(s, "\n")
		if line != "" {
			if w.atLineStart {
				w.buf.WriteString(strings.Repeat(w.unit, w.depth))
			}
			w.buf.WriteString(line)
			w.atLineStart = false
		}
		if nl {
			w.buf.WriteByte('\n')
			w.atLineStart = true
		}
		s = rest
	}
}

// Indent increases the indentation depth by one unit.
func (w *Writer) Indent() { w.depth++ }

// Dedent decreases the indentation depth by one unit. It never goes below zero.
func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Block writes open, indents the lines produced by body, then writes close.
func (w *Writer) Block(open, close string, body func()) {
	w.WriteString(open)
	w.Indent()
	body()
	w.Dedent()
	w.WriteString(close)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// String returns the accumulated text.
func (w *Writer) String() string { return w.buf.String() }

// Bytes returns a copy of the accumulated text.
func (w *Writer) Bytes() []byte {
	return bytes.Clone(w.buf.Bytes())
}
