package javagen

import (
	"fmt"

	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
)

// union writes a tagged union class. Each member gets a tag constant, a
// static factory, a getter that checks the tag and a setter. The default
// value holds the first member at its default.
func (e *emitter) union(d *ir.UnionDefinition) {
	_, name := ir.SplitName(d.Name)
	if len(d.Members) == 0 {
		e.check(&ir.ValidationError{
			Code:    "empty_union",
			Message: fmt.Sprintf("%s: %s: a union needs at least one member", e.file, d.Name),
			Source:  d.Source,
		})
		return
	}

	types := make([]*ir.TypeSpecifier, len(d.Members))
	for i, m := range d.Members {
		types[i] = m.Type
	}
	sigs, ok := e.signatures(types...)
	if !ok {
		return
	}

	w := e.w
	e.doc(d.Documentation)
	w.Block("public final class "+name+" implements android.os.Parcelable\n{\n", "}\n", func() {
		for i, m := range d.Members {
			w.Write("public final static int %s = %d;\n", escapeIdentifier(m.Name), i)
		}
		w.WriteString("private int _tag;\n")
		w.WriteString("private Object _value;\n")

		first := d.Members[0]
		def, err := java.DefaultValueOf(e.types, first.Type)
		if e.check(err) {
			w.Block("public "+name+"()\n{\n", "}\n", func() {
				w.Write("%s _value = %s;\n", sigs[0], def)
				w.Write("this._tag = %s;\n", escapeIdentifier(first.Name))
				w.WriteString("this._value = _value;\n")
			})
		}
		w.Block("private "+name+"(int _tag, Object _value)\n{\n", "}\n", func() {
			w.WriteString("this._tag = _tag;\n")
			w.WriteString("this._value = _value;\n")
		})
		w.Block("public int getTag()\n{\n", "}\n", func() {
			w.WriteString("return _tag;\n")
		})

		for i, m := range d.Members {
			e.unionMember(name, m, sigs[i])
		}
		e.constants(d.Constants)

		e.creator(name, func() {
			w.Write("%s _aidl_out = new %s();\n", name, name)
			w.Write("_aidl_out.readFromParcel(%s);\n", sourceVar)
			w.WriteString("return _aidl_out;\n")
		})
		e.unionWrite(d)
		e.unionRead(d)
		e.describeContents()
		e.unionHelpers(d)
	})
}

func (e *emitter) unionMember(class string, m ir.Field, sig string) {
	w := e.w
	tag := escapeIdentifier(m.Name)
	accessor := capitalize(m.Name)

	e.doc(m.Documentation)
	w.Block("public static "+class+" "+tag+"("+sig+" _value)\n{\n", "}\n", func() {
		w.Write("return new %s(%s, _value);\n", class, tag)
	})
	w.Block("public "+sig+" get"+accessor+"()\n{\n", "}\n", func() {
		w.Write("_assertTag(%s);\n", tag)
		w.Write("return (%s) _value;\n", sig)
	})
	w.Block("public void set"+accessor+"("+sig+" _value)\n{\n", "}\n", func() {
		w.Write("_set(%s, _value);\n", tag)
	})
}

func (e *emitter) unionWrite(d *ir.UnionDefinition) {
	w := e.w
	w.Block("@Override public final void writeToParcel(android.os.Parcel "+parcelVar+", int _aidl_flag)\n{\n", "}\n", func() {
		w.Write("%s.writeInt(_tag);\n", parcelVar)
		w.Block("switch (_tag) {\n", "}\n", func() {
			for _, m := range d.Members {
				w.Write("case %s:\n", escapeIdentifier(m.Name))
				w.Indent()
				e.writeTo(m.Type, parcelVar, "get"+capitalize(m.Name)+"()", java.NewMethodScope(), false)
				w.WriteString("break;\n")
				w.Dedent()
			}
		})
	})
}

func (e *emitter) unionRead(d *ir.UnionDefinition) {
	w := e.w
	w.Block("public void readFromParcel(android.os.Parcel "+parcelVar+")\n{\n", "}\n", func() {
		w.Write("int _aidl_tag = %s.readInt();\n", parcelVar)
		w.Block("switch (_aidl_tag) {\n", "}\n", func() {
			for _, m := range d.Members {
				w.Block("case "+escapeIdentifier(m.Name)+": {\n", "}\n", func() {
					// Each case is its own block, so its locals get a fresh scope.
					e.createFrom(m.Type, parcelVar, "_aidl_value", java.NewMethodScope())
					w.WriteString("_set(_aidl_tag, _aidl_value);\n")
					w.WriteString("return;\n")
				})
			}
		})
		w.WriteString("throw new IllegalArgumentException(\"union: unknown tag: \" + _aidl_tag);\n")
	})
}

func (e *emitter) unionHelpers(d *ir.UnionDefinition) {
	w := e.w
	w.Block("private void _assertTag(int tag)\n{\n", "}\n", func() {
		w.Block("if (getTag() != tag) {\n", "}\n", func() {
			w.WriteString("throw new IllegalStateException(\"bad access: \" + _tagString(tag) + \", \" + _tagString(getTag()) + \" is available.\");\n")
		})
	})
	w.Block("private String _tagString(int _tag)\n{\n", "}\n", func() {
		w.Block("switch (_tag) {\n", "}\n", func() {
			for _, m := range d.Members {
				w.Write("case %s: return %q;\n", escapeIdentifier(m.Name), m.Name)
			}
		})
		w.WriteString("throw new IllegalStateException(\"unknown field: \" + _tag);\n")
	})
	w.Block("private void _set(int _tag, Object _value)\n{\n", "}\n", func() {
		w.WriteString("this._tag = _tag;\n")
		w.WriteString("this._value = _value;\n")
	})
}
