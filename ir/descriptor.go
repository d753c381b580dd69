package ir

import "strings"

// DefinitionKind identifies the category of a defined type.
type DefinitionKind int

const (
	KindParcelable DefinitionKind = iota // parcelable Foo { ... } or parcelable Foo;
	KindInterface                        // interface IFoo { ... }
	KindEnum                             // enum Foo { ... }
	KindUnion                            // union Foo { ... }
	KindAlias                            // typedef-style alias for another TypeSpecifier
)

// String returns the string representation of the definition kind.
func (k DefinitionKind) String() string {
	switch k {
	case KindParcelable:
		return "Parcelable"
	case KindInterface:
		return "Interface"
	case KindEnum:
		return "Enum"
	case KindUnion:
		return "Union"
	case KindAlias:
		return "Alias"
	default:
		return "Unknown"
	}
}

// Definition is the base interface for all defined types.
type Definition interface {
	// Kind returns the definition kind for type switching.
	Kind() DefinitionKind

	// QualifiedName returns the fully qualified name, e.g. "com.example.Point".
	QualifiedName() string

	// Doc returns associated documentation comments.
	Doc() Documentation

	// Src returns the IDL source location of the declaration.
	Src() Source

	// Ensure only types in this package can implement Definition.
	sealed()
}

// SplitName splits a qualified name into its package and simple name.
// "com.example.Point" yields ("com.example", "Point").
func SplitName(qualified string) (pkg, name string) {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return "", qualified
	}
	return qualified[:i], qualified[i+1:]
}

// Field is a member of a parcelable or union.
type Field struct {
	Name string         `json:"name" validate:"required"`
	Type *TypeSpecifier `json:"type" validate:"required"`

	// DefaultValue is the raw constant token from source, empty if absent.
	DefaultValue string `json:"defaultValue,omitempty"`

	Documentation Documentation `json:"doc,omitempty"`
}

// Constant is a named constant declared inside a parcelable or interface.
type Constant struct {
	Name  string         `json:"name" validate:"required"`
	Type  *TypeSpecifier `json:"type" validate:"required"`
	Value string         `json:"value" validate:"required"`

	Documentation Documentation `json:"doc,omitempty"`
}
