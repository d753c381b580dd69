package ir

// EnumDefinition represents an enumeration backed by an integral type.
type EnumDefinition struct {
	Name string `json:"name" validate:"required"`

	// BackingType is one of byte, int or long. Defaults to byte when nil,
	// matching the front end.
	BackingType *TypeSpecifier `json:"backingType,omitempty"`

	Enumerators []Enumerator `json:"enumerators" validate:"required,min=1,dive"`

	Documentation Documentation `json:"doc,omitempty"`
	Source        Source        `json:"source,omitempty"`
}

// Kind returns KindEnum.
func (d *EnumDefinition) Kind() DefinitionKind { return KindEnum }

// QualifiedName returns the enum's name.
func (d *EnumDefinition) QualifiedName() string { return d.Name }

// Doc returns the enum's documentation.
func (d *EnumDefinition) Doc() Documentation { return d.Documentation }

// Src returns the enum's source location.
func (d *EnumDefinition) Src() Source { return d.Source }

func (*EnumDefinition) sealed() {}

// Backing returns the backing type, defaulting to byte.
func (d *EnumDefinition) Backing() *TypeSpecifier {
	if d.BackingType == nil {
		return Type("byte")
	}
	return d.BackingType
}

// Enumerator returns the enumerator with the given name.
func (d *EnumDefinition) Enumerator(name string) (Enumerator, bool) {
	for _, e := range d.Enumerators {
		if e.Name == name {
			return e, true
		}
	}
	return Enumerator{}, false
}

// Enumerator is a single enum member.
type Enumerator struct {
	Name string `json:"name" validate:"required"`

	// Value is the raw constant token. Empty means previous value plus one
	// (zero for the first enumerator).
	Value string `json:"value,omitempty"`

	Documentation Documentation `json:"doc,omitempty"`
}

// AliasDefinition names another type specifier.
type AliasDefinition struct {
	Name   string         `json:"name" validate:"required"`
	Target *TypeSpecifier `json:"target" validate:"required"`

	Documentation Documentation `json:"doc,omitempty"`
	Source        Source        `json:"source,omitempty"`
}

// Kind returns KindAlias.
func (d *AliasDefinition) Kind() DefinitionKind { return KindAlias }

// QualifiedName returns the alias's name.
func (d *AliasDefinition) QualifiedName() string { return d.Name }

// Doc returns the alias's documentation.
func (d *AliasDefinition) Doc() Documentation { return d.Documentation }

// Src returns the alias's source location.
func (d *AliasDefinition) Src() Source { return d.Source }

func (*AliasDefinition) sealed() {}
