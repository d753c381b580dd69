package java

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broady/aidlgen/ir"
)

// ErrorCode is a machine-readable diagnostic code.
type ErrorCode string

const (
	// CodeUnresolvedType: a type or one of its generic arguments is not in
	// the registry.
	CodeUnresolvedType ErrorCode = "unresolved_type"
	// CodeUnsupportedCategory: the type has no marshalling strategy in the
	// requested position.
	CodeUnsupportedCategory ErrorCode = "unsupported_category"
	// CodeMalformedConstant: a raw literal cannot be rendered for its type.
	CodeMalformedConstant ErrorCode = "malformed_constant"
	// CodeOrderingViolation: a read into existing storage was requested
	// before that storage was sized.
	CodeOrderingViolation ErrorCode = "ordering_violation"
	// CodeInvalidContext: a CodeGeneratorContext is missing its writer,
	// registry, type or method scope.
	CodeInvalidContext ErrorCode = "invalid_context"
)

// Diagnostic reports a failed operation. Every exported operation in this
// package returns either nil or a *Diagnostic.
type Diagnostic struct {
	Code ErrorCode

	// Op is the operation that failed, for example "WriteToParcel".
	Op string

	// Type is the IDL spelling of the offending type.
	Type string

	// Filename is the file being generated, when known.
	Filename string

	// Source is the location of the offending type in IDL source, when known.
	Source ir.Source

	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Filename != "" {
		b.WriteString(d.Filename)
		b.WriteString(": ")
	} else if !d.Source.IsZero() {
		b.WriteString(d.Source.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s %s: %s (%s)", d.Op, d.Type, d.Message, d.Code)
	return b.String()
}

func (d *Diagnostic) Unwrap() error { return d.Err }

func diagf(code ErrorCode, op string, t *ir.TypeSpecifier, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Code:    code,
		Op:      op,
		Type:    t.String(),
		Message: fmt.Sprintf(format, args...),
	}
	if t != nil {
		d.Source = t.Source
	}
	return d
}

// CodeOf returns the diagnostic code carried by err, or "" if err does not
// wrap a *Diagnostic.
func CodeOf(err error) ErrorCode {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Code
	}
	return ""
}

// inFile stamps a filename on a diagnostic produced below a context-based
// operation.
func inFile(err error, filename string) error {
	var d *Diagnostic
	if errors.As(err, &d) && d.Filename == "" {
		d.Filename = filename
	}
	return err
}
