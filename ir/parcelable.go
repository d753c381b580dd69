package ir

// ParcelableDefinition represents a parcelable declaration.
//
// A structured parcelable lists its fields and gets a generated class.
// An unstructured parcelable (parcelable Foo;) is implemented by hand in the
// target language; the backend only references it.
type ParcelableDefinition struct {
	// Name is the fully qualified name.
	Name string `json:"name" validate:"required"`

	// Structured is false for forward-declared parcelables.
	Structured bool `json:"structured,omitempty"`

	Fields    []Field    `json:"fields,omitempty" validate:"dive"`
	Constants []Constant `json:"constants,omitempty" validate:"dive"`

	Documentation Documentation `json:"doc,omitempty"`
	Source        Source        `json:"source,omitempty"`
}

// Kind returns KindParcelable.
func (d *ParcelableDefinition) Kind() DefinitionKind { return KindParcelable }

// QualifiedName returns the parcelable's name.
func (d *ParcelableDefinition) QualifiedName() string { return d.Name }

// Doc returns the parcelable's documentation.
func (d *ParcelableDefinition) Doc() Documentation { return d.Documentation }

// Src returns the parcelable's source location.
func (d *ParcelableDefinition) Src() Source { return d.Source }

func (*ParcelableDefinition) sealed() {}

// UnionDefinition represents a tagged union. Exactly one member is set at a time.
type UnionDefinition struct {
	Name string `json:"name" validate:"required"`

	// Members must contain at least one field; the first member is the default.
	Members   []Field    `json:"members" validate:"required,min=1,dive"`
	Constants []Constant `json:"constants,omitempty" validate:"dive"`

	Documentation Documentation `json:"doc,omitempty"`
	Source        Source        `json:"source,omitempty"`
}

// Kind returns KindUnion.
func (d *UnionDefinition) Kind() DefinitionKind { return KindUnion }

// QualifiedName returns the union's name.
func (d *UnionDefinition) QualifiedName() string { return d.Name }

// Doc returns the union's documentation.
func (d *UnionDefinition) Doc() Documentation { return d.Documentation }

// Src returns the union's source location.
func (d *UnionDefinition) Src() Source { return d.Source }

func (*UnionDefinition) sealed() {}
