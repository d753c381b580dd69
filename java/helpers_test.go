package java

import (
	"testing"

	"github.com/broady/aidlgen/codewriter"
	"github.com/broady/aidlgen/ir"
)

// testTypes returns a registry with one definition of every kind.
func testTypes(t *testing.T) *ir.Typenames {
	t.Helper()
	tn := ir.NewTypenames()
	defs := []ir.Definition{
		&ir.ParcelableDefinition{Name: "a.Point", Structured: true, Fields: []ir.Field{{Name: "x", Type: ir.Type("int")}}},
		&ir.ParcelableDefinition{Name: "a.Raw"},
		&ir.InterfaceDefinition{Name: "a.IFoo"},
		&ir.EnumDefinition{Name: "a.Color", BackingType: ir.Type("int"), Enumerators: []ir.Enumerator{{Name: "RED"}, {Name: "GREEN"}}},
		&ir.EnumDefinition{Name: "a.Small", Enumerators: []ir.Enumerator{{Name: "ONE"}}},
		&ir.UnionDefinition{Name: "a.Shape", Members: []ir.Field{{Name: "p", Type: ir.Type("a.Point")}}},
		&ir.AliasDefinition{Name: "a.Id", Target: ir.Type("long")},
		&ir.AliasDefinition{Name: "a.Names", Target: ir.Type("List", ir.Type("String"))},
	}
	for _, d := range defs {
		if err := tn.Add(d); err != nil {
			t.Fatalf("Add(%s): %v", d.QualifiedName(), err)
		}
	}
	return tn
}

// newContext returns a context writing to a fresh two-space writer.
func newContext(types *ir.Typenames, typ *ir.TypeSpecifier, v string, scope *MethodScope) *CodeGeneratorContext {
	return &CodeGeneratorContext{
		Writer:    codewriter.New("  "),
		Typenames: types,
		Type:      typ,
		Parcel:    "p",
		Var:       v,
		Scope:     scope,
		Filename:  "a/IFoo.java",
	}
}

func arr(name string) *ir.TypeSpecifier { return ir.ArrayOf(name) }
