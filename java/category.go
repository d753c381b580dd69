package java

import (
	"errors"

	"github.com/broady/aidlgen/ir"
)

// Category is the resolved kind of a type. It selects the marshalling
// strategy.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryArray
	CategoryParcelable
	CategoryInterface
	CategoryCollection
	CategoryEnum
	CategoryUnion
	CategoryOther

	numCategories
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "Primitive"
	case CategoryArray:
		return "Array"
	case CategoryParcelable:
		return "Parcelable"
	case CategoryInterface:
		return "InterfaceBinder"
	case CategoryCollection:
		return "GenericCollection"
	case CategoryEnum:
		return "Enum"
	case CategoryUnion:
		return "Union"
	case CategoryOther:
		return "Other"
	default:
		return "Unknown"
	}
}

var builtinCategories = map[string]Category{
	"boolean":              CategoryPrimitive,
	"byte":                 CategoryPrimitive,
	"char":                 CategoryPrimitive,
	"int":                  CategoryPrimitive,
	"long":                 CategoryPrimitive,
	"float":                CategoryPrimitive,
	"double":               CategoryPrimitive,
	"String":               CategoryPrimitive,
	"FileDescriptor":       CategoryPrimitive,
	"ParcelFileDescriptor": CategoryParcelable,
	"IBinder":              CategoryInterface,
	"List":                 CategoryCollection,
	"Map":                  CategoryCollection,
	"CharSequence":         CategoryOther,
}

// resolved is a type after alias resolution, with its category and, for
// defined types, its definition.
type resolved struct {
	t   *ir.TypeSpecifier
	cat Category
	def ir.Definition
}

// resolve follows aliases and converts registry failures to diagnostics.
func resolve(types *ir.Typenames, op string, t *ir.TypeSpecifier) (*ir.TypeSpecifier, error) {
	if t == nil {
		return nil, diagf(CodeUnresolvedType, op, t, "missing type")
	}
	rt, err := types.Resolve(t)
	if err == nil {
		if err := checkBacking(types, op, t, rt); err != nil {
			return nil, err
		}
		return rt, nil
	}
	var ue *ir.UnresolvedError
	if errors.As(err, &ue) {
		d := diagf(CodeUnresolvedType, op, t, "%s: %s", ue.Name, ue.Reason)
		d.Err = err
		return nil, d
	}
	return nil, err
}

// categoryOf classifies a resolved type by registry lookup.
func categoryOf(types *ir.Typenames, rt *ir.TypeSpecifier) (Category, ir.Definition, bool) {
	if rt.IsArray {
		return CategoryArray, types.Lookup(rt.Name), true
	}
	if c, ok := builtinCategories[rt.Name]; ok {
		return c, nil, true
	}
	switch d := types.Lookup(rt.Name).(type) {
	case *ir.ParcelableDefinition:
		return CategoryParcelable, d, true
	case *ir.InterfaceDefinition:
		return CategoryInterface, d, true
	case *ir.EnumDefinition:
		return CategoryEnum, d, true
	case *ir.UnionDefinition:
		return CategoryUnion, d, true
	}
	return 0, nil, false
}

// classify resolves t, checks its constraints, and determines its category.
func classify(types *ir.Typenames, op string, t *ir.TypeSpecifier) (*resolved, error) {
	rt, err := resolve(types, op, t)
	if err != nil {
		return nil, err
	}
	if err := types.CheckConstraints(rt); err != nil {
		d := diagf(CodeUnsupportedCategory, op, t, "%v", err)
		d.Err = err
		return nil, d
	}
	cat, def, ok := categoryOf(types, rt)
	if !ok {
		return nil, diagf(CodeUnsupportedCategory, op, t, "%s has no marshalling category", rt.Name)
	}
	return &resolved{t: rt, cat: cat, def: def}, nil
}

// element classifies the element type of a resolved array.
func (r *resolved) element(types *ir.Typenames) *resolved {
	et := r.t.ArrayBase()
	cat, def, ok := categoryOf(types, et)
	if !ok {
		return nil
	}
	return &resolved{t: et, cat: cat, def: def}
}

// backing returns the primitive an enum is marshalled as. resolve has
// already rejected enums without one.
func (r *resolved) backing() primitive {
	p, _ := enumBacking(r.def.(*ir.EnumDefinition))
	return p
}

// enumBacking returns the primitive an enum crosses a parcel as. Only byte,
// int and long backings have one.
func enumBacking(e *ir.EnumDefinition) (primitive, bool) {
	b := e.Backing()
	if b.IsArray || b.IsGeneric() {
		return primitive{}, false
	}
	switch b.Name {
	case "byte", "int", "long":
		return primitives[b.Name], true
	}
	return primitive{}, false
}

// EnumBacking returns the backing type of e, or an UnsupportedCategory
// diagnostic when it is not byte, int or long.
func EnumBacking(e *ir.EnumDefinition) (*ir.TypeSpecifier, error) {
	if _, ok := enumBacking(e); !ok {
		return nil, backingError("EnumBacking", &ir.TypeSpecifier{Name: e.Name, Source: e.Source}, e)
	}
	return e.Backing(), nil
}

func backingError(op string, t *ir.TypeSpecifier, e *ir.EnumDefinition) error {
	return diagf(CodeUnsupportedCategory, op, t,
		"enum %s: backing type %s must be byte, int or long", e.Name, e.Backing())
}

// checkBacking fails when the resolved rt or one of its type arguments is
// an enum without a usable backing type.
func checkBacking(types *ir.Typenames, op string, t, rt *ir.TypeSpecifier) error {
	if e, ok := types.Lookup(rt.Name).(*ir.EnumDefinition); ok {
		if _, ok := enumBacking(e); !ok {
			return backingError(op, t, e)
		}
	}
	for _, p := range rt.TypeParameters {
		if err := checkBacking(types, op, t, p); err != nil {
			return err
		}
	}
	return nil
}

// CategoryOf returns the category of t after alias resolution.
func CategoryOf(types *ir.Typenames, t *ir.TypeSpecifier) (Category, error) {
	r, err := classify(types, "CategoryOf", t)
	if err != nil {
		return 0, err
	}
	return r.cat, nil
}
