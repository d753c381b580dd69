package ir

import (
	"fmt"
	"sort"
)

// builtinTypes lists the type names that are not declared in IDL source.
// The value is the maximum number of generic arguments the builtin accepts.
var builtinTypes = map[string]int{
	"void":                 0,
	"boolean":              0,
	"byte":                 0,
	"char":                 0,
	"int":                  0,
	"long":                 0,
	"float":                0,
	"double":               0,
	"String":               0,
	"CharSequence":         0,
	"List":                 1,
	"Map":                  2,
	"IBinder":              0,
	"FileDescriptor":       0,
	"ParcelFileDescriptor": 0,
}

// valueTypes are builtins that cannot hold null.
var valueTypes = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
}

// IsBuiltin reports whether name is a builtin type name.
func IsBuiltin(name string) bool {
	_, ok := builtinTypes[name]
	return ok
}

// UnresolvedError is returned when a type name is not known to the registry.
type UnresolvedError struct {
	// Name is the type name that failed to resolve.
	Name string

	// Reason explains the failure.
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved type %s: %s", e.Name, e.Reason)
}

// ValidationError represents a registry validation error.
type ValidationError struct {
	Code    string
	Message string
	Source  Source
}

func (e *ValidationError) Error() string {
	if !e.Source.IsZero() {
		return e.Source.String() + ": " + e.Message
	}
	return e.Message
}

// Typenames is the registry of defined types for one compilation.
// It is populated once and is read-only during code generation.
type Typenames struct {
	defs  map[string]Definition
	order []Definition
}

// NewTypenames creates an empty registry.
func NewTypenames() *Typenames {
	return &Typenames{defs: make(map[string]Definition)}
}

// Add registers a definition. It fails if the name is already taken or
// shadows a builtin.
func (tn *Typenames) Add(d Definition) error {
	name := d.QualifiedName()
	if IsBuiltin(name) {
		return &ValidationError{
			Code:    "reserved_name",
			Message: "type name shadows a builtin: " + name,
			Source:  d.Src(),
		}
	}
	if _, ok := tn.defs[name]; ok {
		return &ValidationError{
			Code:    "duplicate_type",
			Message: "duplicate type name: " + name,
			Source:  d.Src(),
		}
	}
	tn.defs[name] = d
	tn.order = append(tn.order, d)
	return nil
}

// Lookup returns the definition for a qualified name, or nil.
func (tn *Typenames) Lookup(name string) Definition {
	return tn.defs[name]
}

// Definitions returns all definitions in registration order.
func (tn *Typenames) Definitions() []Definition {
	out := make([]Definition, len(tn.order))
	copy(out, tn.order)
	return out
}

// Resolve follows aliases until it reaches a builtin or a non-alias
// definition, then resolves every generic argument the same way.
// The returned specifier keeps t's source location.
func (tn *Typenames) Resolve(t *TypeSpecifier) (*TypeSpecifier, error) {
	cur := t
	seen := make(map[string]bool)
	for !IsBuiltin(cur.Name) {
		d := tn.defs[cur.Name]
		if d == nil {
			return nil, &UnresolvedError{Name: cur.Name, Reason: "not declared"}
		}
		a, ok := d.(*AliasDefinition)
		if !ok {
			break
		}
		if seen[a.Name] {
			return nil, &UnresolvedError{Name: t.Name, Reason: "alias cycle through " + a.Name}
		}
		seen[a.Name] = true

		next := *a.Target
		if cur.IsGeneric() {
			if next.IsGeneric() {
				return nil, &UnresolvedError{Name: cur.Name, Reason: "alias target already has type arguments"}
			}
			next.TypeParameters = cur.TypeParameters
		}
		if cur.IsArray && next.IsArray {
			return nil, &UnresolvedError{Name: cur.Name, Reason: "array of array alias"}
		}
		next.IsArray = next.IsArray || cur.IsArray
		next.Nullable = next.Nullable || cur.Nullable
		next.Source = t.Source
		cur = &next
	}

	if !cur.IsGeneric() {
		return cur, nil
	}
	params := make([]*TypeSpecifier, len(cur.TypeParameters))
	for i, p := range cur.TypeParameters {
		rp, err := tn.Resolve(p)
		if err != nil {
			return nil, err
		}
		params[i] = rp
	}
	out := *cur
	out.TypeParameters = params
	return &out, nil
}

// CheckConstraints checks nullability and generic-argument rules on a
// resolved specifier. Nested generic arguments are checked recursively.
func (tn *Typenames) CheckConstraints(t *TypeSpecifier) error {
	if max, ok := builtinTypes[t.Name]; ok {
		n := len(t.TypeParameters)
		if n > max || (t.Name == "Map" && n == 1) {
			return &ValidationError{
				Code:    "invalid_type_arguments",
				Message: fmt.Sprintf("%s takes %d type arguments, got %d", t.Name, max, n),
				Source:  t.Source,
			}
		}
		if t.Nullable && valueTypes[t.Name] && !t.IsArray {
			return &ValidationError{
				Code:    "invalid_nullable",
				Message: "primitive type cannot be nullable: " + t.String(),
				Source:  t.Source,
			}
		}
		if t.Name == "Map" && n == 2 && t.TypeParameters[0].Name != "String" {
			return &ValidationError{
				Code:    "invalid_type_arguments",
				Message: "Map keys must be String: " + t.String(),
				Source:  t.Source,
			}
		}
	} else if t.IsGeneric() {
		return &ValidationError{
			Code:    "invalid_type_arguments",
			Message: "type does not take type arguments: " + t.String(),
			Source:  t.Source,
		}
	}
	for _, p := range t.TypeParameters {
		if p.Name == "void" {
			return &ValidationError{
				Code:    "invalid_void",
				Message: "void cannot be a type argument: " + t.String(),
				Source:  t.Source,
			}
		}
		if err := tn.CheckConstraints(p); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every type referenced by the registered definitions.
// Returns all errors found (not just the first), sorted by source location.
func (tn *Typenames) Validate() []error {
	var errs []*ValidationError

	var src Source
	check := func(t *TypeSpecifier, where string, allowVoid bool) {
		at := t.Source
		if at.IsZero() {
			at = src
		}
		resolved, err := tn.Resolve(t)
		if err != nil {
			errs = append(errs, &ValidationError{
				Code:    "unresolved_type",
				Message: where + ": " + err.Error(),
				Source:  at,
			})
			return
		}
		if resolved.Name == "void" && (!allowVoid || resolved.IsArray) {
			errs = append(errs, &ValidationError{
				Code:    "invalid_void",
				Message: where + ": void is only valid as a return type",
				Source:  at,
			})
			return
		}
		if err := tn.CheckConstraints(resolved); err != nil {
			ve := err.(*ValidationError)
			ve.Message = where + ": " + ve.Message
			if ve.Source.IsZero() {
				ve.Source = at
			}
			errs = append(errs, ve)
		}
	}

	for _, d := range tn.order {
		name := d.QualifiedName()
		src = d.Src()
		switch d := d.(type) {
		case *ParcelableDefinition:
			for _, f := range d.Fields {
				check(f.Type, name+"."+f.Name, false)
			}
			for _, c := range d.Constants {
				check(c.Type, name+"."+c.Name, false)
			}
		case *UnionDefinition:
			for _, f := range d.Members {
				check(f.Type, name+"."+f.Name, false)
			}
			for _, c := range d.Constants {
				check(c.Type, name+"."+c.Name, false)
			}
		case *InterfaceDefinition:
			for _, m := range d.Methods {
				check(m.ReturnType, name+"."+m.Name, true)
				for _, a := range m.Arguments {
					check(a.Type, name+"."+m.Name+"("+a.Name+")", false)
				}
			}
			for _, c := range d.Constants {
				check(c.Type, name+"."+c.Name, false)
			}
		case *EnumDefinition:
			b := d.Backing()
			if b.IsArray || b.IsGeneric() || (b.Name != "byte" && b.Name != "int" && b.Name != "long") {
				errs = append(errs, &ValidationError{
					Code:    "invalid_backing_type",
					Message: name + ": enum backing type must be byte, int or long, got " + b.String(),
					Source:  d.Source,
				})
			}
		case *AliasDefinition:
			check(d.Target, name, false)
		}
	}

	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i].Source, errs[j].Source
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}
