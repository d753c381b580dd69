package javagen

import (
	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
)

const (
	parcelVar = "_aidl_parcel"
	sourceVar = "_aidl_source"
)

// parcelable writes a structured parcelable class. The payload is prefixed
// with its size so readers built against an older field list can skip
// fields they do not know.
func (e *emitter) parcelable(d *ir.ParcelableDefinition) {
	_, name := ir.SplitName(d.Name)

	e.doc(d.Documentation)
	e.w.Block("public class "+name+" implements android.os.Parcelable\n{\n", "}\n", func() {
		for _, f := range d.Fields {
			e.field(f)
		}
		e.constants(d.Constants)
		e.creator(name, func() {
			e.w.Write("%s _aidl_out = new %s();\n", name, name)
			e.w.Write("_aidl_out.readFromParcel(%s);\n", sourceVar)
			e.w.WriteString("return _aidl_out;\n")
		})
		e.parcelableWrite(d)
		e.parcelableRead(d)
		e.describeContents()
	})
}

func (e *emitter) field(f ir.Field) {
	sig, ok := e.signature(f.Type)
	if !ok {
		return
	}
	e.doc(f.Documentation)
	if f.DefaultValue == "" {
		e.w.Write("public %s %s;\n", sig, escapeIdentifier(f.Name))
		return
	}
	v, err := java.ConstantValueDecorator(e.types, f.Type, f.DefaultValue)
	if !e.check(err) {
		return
	}
	e.w.Write("public %s %s = %s;\n", sig, escapeIdentifier(f.Name), v)
}

// creator writes the CREATOR field; body builds _aidl_out from _aidl_source.
func (e *emitter) creator(name string, body func()) {
	w := e.w
	w.Write("public static final android.os.Parcelable.Creator<%s> CREATOR = new android.os.Parcelable.Creator<%s>() {\n", name, name)
	w.Indent()
	w.WriteString("@Override\n")
	w.Block("public "+name+" createFromParcel(android.os.Parcel "+sourceVar+") {\n", "}\n", body)
	w.WriteString("@Override\n")
	w.Block("public "+name+"[] newArray(int _aidl_size) {\n", "}\n", func() {
		w.Write("return new %s[_aidl_size];\n", name)
	})
	w.Dedent()
	w.WriteString("};\n")
}

func (e *emitter) describeContents() {
	e.w.WriteString("@Override\n")
	e.w.Block("public int describeContents() {\n", "}\n", func() {
		e.w.WriteString("return 0;\n")
	})
}

func (e *emitter) parcelableWrite(d *ir.ParcelableDefinition) {
	w := e.w
	w.Block("@Override public final void writeToParcel(android.os.Parcel "+parcelVar+", int _aidl_flag)\n{\n", "}\n", func() {
		scope := java.NewMethodScope()
		w.Write("int _aidl_start_pos = %s.dataPosition();\n", parcelVar)
		w.Write("%s.writeInt(0);\n", parcelVar)
		for _, f := range d.Fields {
			e.writeTo(f.Type, parcelVar, escapeIdentifier(f.Name), scope, false)
		}
		w.Write("int _aidl_end_pos = %s.dataPosition();\n", parcelVar)
		w.Write("%s.setDataPosition(_aidl_start_pos);\n", parcelVar)
		w.Write("%s.writeInt(_aidl_end_pos - _aidl_start_pos);\n", parcelVar)
		w.Write("%s.setDataPosition(_aidl_end_pos);\n", parcelVar)
	})
}

func (e *emitter) parcelableRead(d *ir.ParcelableDefinition) {
	w := e.w
	w.Block("public final void readFromParcel(android.os.Parcel "+parcelVar+")\n{\n", "}\n", func() {
		scope := java.NewMethodScope()
		w.Write("int _aidl_start_pos = %s.dataPosition();\n", parcelVar)
		w.Write("int _aidl_parcelable_size = %s.readInt();\n", parcelVar)
		w.Block("try {\n", "}\n", func() {
			w.WriteString("if (_aidl_parcelable_size < 4) throw new android.os.BadParcelableException(\"Parcelable too small\");\n")
			for _, f := range d.Fields {
				w.Write("if (%s.dataPosition() - _aidl_start_pos >= _aidl_parcelable_size) return;\n", parcelVar)
				tmp := "_aidl_value_" + f.Name
				e.createFrom(f.Type, parcelVar, tmp, scope)
				w.Write("%s = %s;\n", escapeIdentifier(f.Name), tmp)
			}
		})
		w.Block("finally {\n", "}\n", func() {
			w.Block("if (_aidl_start_pos > (Integer.MAX_VALUE - _aidl_parcelable_size)) {\n", "}\n", func() {
				w.WriteString("throw new android.os.BadParcelableException(\"Overflow in the size of parcelable\");\n")
			})
			w.Write("%s.setDataPosition(_aidl_start_pos + _aidl_parcelable_size);\n", parcelVar)
		})
	})
}
