package java

import (
	"strings"

	"github.com/broady/aidlgen/ir"
)

// NameOf returns the Java name of t without type arguments or array
// brackets. Enums are named by their backing primitive.
func NameOf(types *ir.Typenames, t *ir.TypeSpecifier) (string, error) {
	rt, err := resolve(types, "NameOf", t)
	if err != nil {
		return "", err
	}
	return nameOf(types, rt), nil
}

// nameOf names a resolved type.
func nameOf(types *ir.Typenames, rt *ir.TypeSpecifier) string {
	if n, ok := javaNames[rt.Name]; ok {
		return n
	}
	if e, ok := types.Lookup(rt.Name).(*ir.EnumDefinition); ok {
		return javaNames[e.Backing().Name]
	}
	return rt.Name
}

// InstantiableNameOf is NameOf, except that List and Map name the concrete
// classes used to allocate them.
func InstantiableNameOf(types *ir.Typenames, t *ir.TypeSpecifier) (string, error) {
	rt, err := resolve(types, "InstantiableNameOf", t)
	if err != nil {
		return "", err
	}
	if n, ok := instantiableNames[rt.Name]; ok && !rt.IsArray {
		return n, nil
	}
	return nameOf(types, rt), nil
}

// SignatureOf returns the full Java declaration type of t: type arguments
// are rendered recursively and boxed, and arrays get trailing brackets.
func SignatureOf(types *ir.Typenames, t *ir.TypeSpecifier) (string, error) {
	rt, err := resolve(types, "SignatureOf", t)
	if err != nil {
		return "", err
	}
	return signatureOf(types, rt), nil
}

func signatureOf(types *ir.Typenames, rt *ir.TypeSpecifier) string {
	var b strings.Builder
	writeSignature(&b, types, rt, nameOf(types, rt), false)
	return b.String()
}

// instantiableSignatureOf renders the allocation type of a resolved List
// or Map, for example java.util.ArrayList<java.lang.String>.
func instantiableSignatureOf(types *ir.Typenames, rt *ir.TypeSpecifier) string {
	name := nameOf(types, rt)
	if n, ok := instantiableNames[rt.Name]; ok {
		name = n
	}
	var b strings.Builder
	writeSignature(&b, types, rt, name, false)
	return b.String()
}

func writeSignature(b *strings.Builder, types *ir.Typenames, rt *ir.TypeSpecifier, name string, boxed bool) {
	if boxed && !rt.IsArray {
		if n, ok := boxedNames[name]; ok {
			name = n
		}
	}
	b.WriteString(name)
	if rt.IsGeneric() {
		b.WriteByte('<')
		for i, p := range rt.TypeParameters {
			if i > 0 {
				b.WriteByte(',')
			}
			writeSignature(b, types, p, nameOf(types, p), true)
		}
		b.WriteByte('>')
	}
	if rt.IsArray {
		b.WriteString("[]")
	}
}
