// Package ir defines the resolved type AST that the front end hands to the
// Java backend. Everything in this package is produced by the parser and the
// type checker; the backend only reads it.
package ir

import "fmt"

// Source represents a location in an IDL source file.
type Source struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column, omitting unknown parts.
func (s Source) String() string {
	switch {
	case s.IsZero():
		return ""
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
}

// Documentation holds the doc comment attached to a declaration.
type Documentation struct {
	// Summary is the first sentence, suitable for one-line comments.
	Summary string `json:"summary,omitempty"`

	// Body is the complete comment text, including the summary.
	Body string `json:"body,omitempty"`

	// Deprecated is non-nil if the declaration is marked @deprecated.
	// The value is the deprecation note (may be empty).
	Deprecated *string `json:"deprecated,omitempty"`
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && d.Deprecated == nil
}

// Warning represents a non-fatal issue encountered while loading or generating.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if applicable.
	Source *Source

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}
