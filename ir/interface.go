package ir

// Direction is the data-flow direction of a method argument.
type Direction string

const (
	DirectionIn    Direction = "in"
	DirectionOut   Direction = "out"
	DirectionInOut Direction = "inout"
)

// IsIn reports whether the argument travels from caller to callee.
func (d Direction) IsIn() bool { return d == "" || d == DirectionIn || d == DirectionInOut }

// IsOut reports whether the argument travels back from callee to caller.
func (d Direction) IsOut() bool { return d == DirectionOut || d == DirectionInOut }

// InterfaceDefinition represents a binder interface.
type InterfaceDefinition struct {
	Name string `json:"name" validate:"required"`

	// Oneway marks every method of the interface as oneway.
	Oneway bool `json:"oneway,omitempty"`

	Methods   []Method   `json:"methods,omitempty" validate:"dive"`
	Constants []Constant `json:"constants,omitempty" validate:"dive"`

	Documentation Documentation `json:"doc,omitempty"`
	Source        Source        `json:"source,omitempty"`
}

// Kind returns KindInterface.
func (d *InterfaceDefinition) Kind() DefinitionKind { return KindInterface }

// QualifiedName returns the interface's name.
func (d *InterfaceDefinition) QualifiedName() string { return d.Name }

// Doc returns the interface's documentation.
func (d *InterfaceDefinition) Doc() Documentation { return d.Documentation }

// Src returns the interface's source location.
func (d *InterfaceDefinition) Src() Source { return d.Source }

func (*InterfaceDefinition) sealed() {}

// Method is a single interface method.
type Method struct {
	Name string `json:"name" validate:"required"`

	// ReturnType is "void" for methods without a result.
	ReturnType *TypeSpecifier `json:"returnType" validate:"required"`

	Arguments []Argument `json:"arguments,omitempty" validate:"dive"`

	Oneway bool `json:"oneway,omitempty"`

	// ID is the explicit transaction id offset, or nil for declaration order.
	ID *int `json:"id,omitempty" validate:"omitempty,min=0"`

	Documentation Documentation `json:"doc,omitempty"`
	Source        Source        `json:"source,omitempty"`
}

// Argument is a method argument.
type Argument struct {
	Name      string         `json:"name" validate:"required"`
	Type      *TypeSpecifier `json:"type" validate:"required"`
	Direction Direction      `json:"direction,omitempty" validate:"omitempty,oneof=in out inout"`
}
