package ir

import "strings"

// TypeSpecifier is a reference to a type as written in IDL source:
// a base name, optional generic arguments, an array flag and a nullable flag.
//
// TypeSpecifier values are treated as immutable. Helpers that derive a new
// specifier (ArrayBase, WithArray) return copies.
type TypeSpecifier struct {
	// Name is a builtin name ("int", "List", "String") or the fully
	// qualified name of a defined type ("com.example.Point").
	Name string `json:"name" validate:"required"`

	// TypeParameters holds the generic arguments, in declaration order.
	TypeParameters []*TypeSpecifier `json:"typeParameters,omitempty" validate:"omitempty,dive,required"`

	// IsArray is set for T[].
	IsArray bool `json:"isArray,omitempty"`

	// Nullable is set for @nullable T.
	Nullable bool `json:"nullable,omitempty"`

	Source Source `json:"source,omitempty"`
}

// Type returns a TypeSpecifier for name with the given generic arguments.
func Type(name string, params ...*TypeSpecifier) *TypeSpecifier {
	return &TypeSpecifier{Name: name, TypeParameters: params}
}

// ArrayOf returns a TypeSpecifier for name[].
func ArrayOf(name string) *TypeSpecifier {
	return &TypeSpecifier{Name: name, IsArray: true}
}

// IsGeneric reports whether the specifier carries generic arguments.
func (t *TypeSpecifier) IsGeneric() bool {
	return len(t.TypeParameters) > 0
}

// ArrayBase returns the element type of an array specifier.
// For non-array specifiers it returns a copy of t.
func (t *TypeSpecifier) ArrayBase() *TypeSpecifier {
	c := *t
	c.IsArray = false
	c.Nullable = false
	return &c
}

// WithArray returns a copy of t with IsArray set to isArray.
func (t *TypeSpecifier) WithArray(isArray bool) *TypeSpecifier {
	c := *t
	c.IsArray = isArray
	return &c
}

// String renders the specifier the way it is spelled in IDL source,
// e.g. "List<Map<String,int>>" or "@nullable int[]".
func (t *TypeSpecifier) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	if t.Nullable {
		b.WriteString("@nullable ")
	}
	t.writeTo(&b)
	return b.String()
}

func (t *TypeSpecifier) writeTo(b *strings.Builder) {
	b.WriteString(t.Name)
	if len(t.TypeParameters) > 0 {
		b.WriteByte('<')
		for i, p := range t.TypeParameters {
			if i > 0 {
				b.WriteByte(',')
			}
			p.writeTo(b)
		}
		b.WriteByte('>')
	}
	if t.IsArray {
		b.WriteString("[]")
	}
}
