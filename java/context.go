package java

import (
	"strings"

	"github.com/broady/aidlgen/codewriter"
	"github.com/broady/aidlgen/ir"
)

// MethodScope is the state shared by every marshal and unmarshal call while
// generating one method body. Create a new scope per method; never share one
// across methods.
type MethodScope struct {
	classloader bool
	sized       map[string]bool
}

// NewMethodScope returns a scope with no classloader emitted and no sized
// variables.
func NewMethodScope() *MethodScope {
	return &MethodScope{sized: make(map[string]bool)}
}

// ClassloaderEmitted reports whether the classloader bootstrap statement has
// been written in this scope.
func (s *MethodScope) ClassloaderEmitted() bool { return s.classloader }

// MarkSized records that the storage of v has a known length: either its
// length was written to or read from the parcel, or it was allocated.
func (s *MethodScope) MarkSized(v string) { s.sized[v] = true }

// IsSized reports whether MarkSized was called for v.
func (s *MethodScope) IsSized(v string) bool { return s.sized[v] }

// ensureClassloader writes the bootstrap statement the first time it is
// called. The flag only ever moves from false to true.
func (s *MethodScope) ensureClassloader(w *codewriter.Writer) {
	if s.classloader {
		return
	}
	w.Write(classloaderStmt)
	s.classloader = true
}

// CodeGeneratorContext carries the inputs of one marshal or unmarshal call.
// Construct one per call site and discard it afterwards; only Scope outlives
// the call.
type CodeGeneratorContext struct {
	// Writer receives the generated statements.
	Writer *codewriter.Writer

	// Typenames is the read-only type registry.
	Typenames *ir.Typenames

	// Type is the type of Var.
	Type *ir.TypeSpecifier

	// Parcel is the name of the parcel variable.
	Parcel string

	// Var is the name of the value variable.
	Var string

	// IsReturnValue tells parcelables they may release resources after
	// being written.
	IsReturnValue bool

	// Scope is the enclosing method's scope. Required.
	Scope *MethodScope

	// Filename is reported in diagnostics.
	Filename string
}

func (c *CodeGeneratorContext) flags() string {
	if c.IsReturnValue {
		return flagsReturnValue
	}
	return "0"
}

// validate rejects a context with a missing field. Scope is never created
// here; it must be the one scope shared by the whole method.
func (c *CodeGeneratorContext) validate(op string) error {
	var missing []string
	if c.Writer == nil {
		missing = append(missing, "Writer")
	}
	if c.Typenames == nil {
		missing = append(missing, "Typenames")
	}
	if c.Type == nil {
		missing = append(missing, "Type")
	}
	if c.Scope == nil {
		missing = append(missing, "Scope")
	}
	if len(missing) == 0 {
		return nil
	}
	d := diagf(CodeInvalidContext, op, c.Type, "context has no %s", strings.Join(missing, ", "))
	d.Filename = c.Filename
	return d
}

func (c *CodeGeneratorContext) unsupported(op string, r *resolved) error {
	d := diagf(CodeUnsupportedCategory, op, c.Type, "%s is not supported in %s", r.cat, op)
	d.Filename = c.Filename
	return d
}
