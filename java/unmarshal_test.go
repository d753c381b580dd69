package java

import (
	"strings"
	"testing"

	"github.com/broady/aidlgen/codewriter"
	"github.com/broady/aidlgen/ir"
)

func TestCreateFromParcelFor(t *testing.T) {
	types := testTypes(t)
	tests := []struct {
		name string
		typ  *ir.TypeSpecifier
		want string
	}{
		{"int", ir.Type("int"), "int x = p.readInt();\n"},
		{"boolean", ir.Type("boolean"), "boolean x = (0!=p.readInt());\n"},
		{"char", ir.Type("char"), "char x = (char)p.readInt();\n"},
		{"double", ir.Type("double"), "double x = p.readDouble();\n"},
		{"String", ir.Type("String"), "java.lang.String x = p.readString();\n"},
		{"enum", ir.Type("a.Color"), "int x = p.readInt();\n"},
		{"int array", arr("int"), "int[] x = p.createIntArray();\n"},
		{"enum array", arr("a.Small"), "byte[] x = p.createByteArray();\n"},
		{"binder array", arr("IBinder"), "android.os.IBinder[] x = p.createBinderArray();\n"},
		{"parcelable array", arr("a.Point"), "a.Point[] x = p.createTypedArray(a.Point.CREATOR);\n"},
		{"parcelable", ir.Type("a.Point"), createdPoint},
		{"interface", ir.Type("a.IFoo"), "a.IFoo x = a.IFoo.Stub.asInterface(p.readStrongBinder());\n"},
		{"binder", ir.Type("IBinder"), "android.os.IBinder x = p.readStrongBinder();\n"},
		{
			"char sequence", ir.Type("CharSequence"),
			"java.lang.CharSequence x;\nif ((0!=p.readInt())) {\n  x = android.text.TextUtils.CHAR_SEQUENCE_CREATOR.createFromParcel(p);\n}\nelse {\n  x = null;\n}\n",
		},
		{
			"map", ir.Type("Map", ir.Type("String"), ir.Type("int")),
			classloaderStmt + "java.util.Map<java.lang.String,java.lang.Integer> x = p.readHashMap(cl);\n",
		},
		{
			"generic alias", ir.Type("a.Names"),
			classloaderStmt + "java.util.List<java.lang.String> x = p.readArrayList(cl);\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(types, tt.typ, "x", NewMethodScope())
			if err := CreateFromParcelFor(c); err != nil {
				t.Fatalf("CreateFromParcelFor() error = %v", err)
			}
			if got := c.Writer.String(); got != tt.want {
				t.Errorf("CreateFromParcelFor() wrote\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestScenario_IntArray(t *testing.T) {
	types := testTypes(t)
	scope := NewMethodScope()

	w := newContext(types, arr("int"), "x", scope)
	if err := WriteToParcelFor(w); err != nil {
		t.Fatal(err)
	}
	if got := w.Writer.String(); got != "p.writeIntArray(x);\n" {
		t.Errorf("write = %q", got)
	}

	c := newContext(types, arr("int"), "x", NewMethodScope())
	if err := CreateFromParcelFor(c); err != nil {
		t.Fatal(err)
	}
	if got := c.Writer.String(); got != "int[] x = p.createIntArray();\n" {
		t.Errorf("create = %q", got)
	}
	if !c.Scope.IsSized("x") {
		t.Error("created array must be marked sized")
	}
}

func TestScenario_ListOfParcelables(t *testing.T) {
	types := testTypes(t)
	typ := ir.Type("List", ir.Type("a.Point"))

	scope := NewMethodScope()
	w := newContext(types, typ, "x", scope)
	if err := WriteToParcelFor(w); err != nil {
		t.Fatal(err)
	}
	if got := w.Writer.String(); got != "p.writeList(x);\n" {
		t.Errorf("write = %q", got)
	}

	scope = NewMethodScope()
	c := newContext(types, typ, "x", scope)
	if err := CreateFromParcelFor(c); err != nil {
		t.Fatal(err)
	}
	want := classloaderStmt + "java.util.List<a.Point> x = p.readArrayList(cl);\n"
	if got := c.Writer.String(); got != want {
		t.Errorf("create = %q, want %q", got, want)
	}
	if !scope.ClassloaderEmitted() {
		t.Error("ClassloaderEmitted() = false after an untyped read")
	}
}

func TestClassloader_OncePerScope(t *testing.T) {
	types := testTypes(t)
	scope := NewMethodScope()
	c := newContext(types, nil, "", scope)

	// Primitive reads never need the classloader.
	c.Type, c.Var = ir.Type("int"), "a"
	if err := CreateFromParcelFor(c); err != nil {
		t.Fatal(err)
	}
	if scope.ClassloaderEmitted() {
		t.Fatal("classloader emitted before any untyped read")
	}

	c.Type, c.Var = ir.Type("List", ir.Type("String")), "b"
	if err := CreateFromParcelFor(c); err != nil {
		t.Fatal(err)
	}
	c.Type, c.Var = ir.Type("Map"), "d"
	if err := CreateFromParcelFor(c); err != nil {
		t.Fatal(err)
	}
	c.Type, c.Var = ir.Type("List"), "b"
	if err := ReadFromParcelFor(c); err != nil {
		t.Fatal(err)
	}

	out := c.Writer.String()
	if n := strings.Count(out, "java.lang.ClassLoader cl"); n != 1 {
		t.Fatalf("classloader emitted %d times:\n%s", n, out)
	}
	first := strings.Index(out, "readArrayList")
	if strings.Index(out, "java.lang.ClassLoader cl") > first {
		t.Errorf("classloader emitted after the first untyped read:\n%s", out)
	}

	// A new method gets a new scope.
	other := newContext(types, ir.Type("Map"), "e", NewMethodScope())
	if err := CreateFromParcelFor(other); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(other.Writer.String(), classloaderStmt) {
		t.Errorf("fresh scope did not emit the classloader: %q", other.Writer.String())
	}
}

func TestReadFromParcelFor(t *testing.T) {
	types := testTypes(t)
	tests := []struct {
		name string
		typ  *ir.TypeSpecifier
		want string
	}{
		{"int array", arr("int"), "p.readIntArray(x);\n"},
		{"String array", arr("String"), "p.readStringArray(x);\n"},
		{"char array", arr("char"), "p.readCharArray(x);\n"},
		{"enum array", arr("a.Color"), "p.readIntArray(x);\n"},
		{"parcelable array", arr("a.Shape"), "p.readTypedArray(x, a.Shape.CREATOR);\n"},
		{"list", ir.Type("List", ir.Type("String")), classloaderStmt + "p.readList(x, cl);\n"},
		{"map", ir.Type("Map"), classloaderStmt + "p.readMap(x, cl);\n"},
		{"parcelable", ir.Type("a.Point"), "if ((0!=p.readInt())) {\n  x.readFromParcel(p);\n}\n"},
		{"union", ir.Type("a.Shape"), "if ((0!=p.readInt())) {\n  x.readFromParcel(p);\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := NewMethodScope()
			scope.MarkSized("x")
			c := newContext(types, tt.typ, "x", scope)
			if err := ReadFromParcelFor(c); err != nil {
				t.Fatalf("ReadFromParcelFor() error = %v", err)
			}
			got := c.Writer.String()
			if got != tt.want {
				t.Errorf("ReadFromParcelFor() wrote\n%s\nwant\n%s", got, tt.want)
			}
			body := strings.TrimPrefix(got, classloaderStmt)
			if strings.Contains(body, "new ") || strings.Contains(body, "create") || strings.Contains(body, " = ") {
				t.Errorf("ReadFromParcelFor() must not allocate or rebind: %q", body)
			}
		})
	}
}

func TestReadFromParcelFor_Errors(t *testing.T) {
	types := testTypes(t)
	tests := []struct {
		name  string
		typ   *ir.TypeSpecifier
		sized bool
		code  ErrorCode
	}{
		{"unsized array", arr("int"), false, CodeOrderingViolation},
		{"unsized list", ir.Type("List"), false, CodeOrderingViolation},
		{"unsized map", ir.Type("Map"), false, CodeOrderingViolation},
		{"primitive", ir.Type("int"), true, CodeUnsupportedCategory},
		{"interface", ir.Type("a.IFoo"), true, CodeUnsupportedCategory},
		{"enum", ir.Type("a.Color"), true, CodeUnsupportedCategory},
		{"char sequence", ir.Type("CharSequence"), true, CodeUnsupportedCategory},
		{"builtin parcelable", ir.Type("ParcelFileDescriptor"), true, CodeUnsupportedCategory},
		{"interface array", arr("a.IFoo"), true, CodeUnsupportedCategory},
		{"unresolved", ir.Type("a.Missing"), true, CodeUnresolvedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := NewMethodScope()
			if tt.sized {
				scope.MarkSized("x")
			}
			c := newContext(types, tt.typ, "x", scope)
			err := ReadFromParcelFor(c)
			if CodeOf(err) != tt.code {
				t.Fatalf("ReadFromParcelFor() error = %v, want %s", err, tt.code)
			}
			if c.Writer.Len() != 0 {
				t.Errorf("failed call wrote %q", c.Writer.String())
			}
			if scope.ClassloaderEmitted() {
				t.Error("failed call set the classloader flag")
			}
		})
	}
}

func TestInOutSequence(t *testing.T) {
	// Proxy side of an inout array: the write sizes the storage for the
	// read of the reply.
	types := testTypes(t)
	scope := NewMethodScope()
	c := newContext(types, arr("long"), "x", scope)
	if err := WriteToParcelFor(c); err != nil {
		t.Fatal(err)
	}
	c.Parcel = "reply"
	if err := ReadFromParcelFor(c); err != nil {
		t.Fatalf("ReadFromParcelFor() after write error = %v", err)
	}
	want := "p.writeLongArray(x);\nreply.readLongArray(x);\n"
	if got := c.Writer.String(); got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}

func TestAllocateOutFor(t *testing.T) {
	types := testTypes(t)
	tests := []struct {
		name string
		typ  *ir.TypeSpecifier
		want string
	}{
		{
			"int array", arr("int"),
			"int _x_length = p.readInt();\nint[] x;\nif ((_x_length<0)) {\n  x = null;\n}\nelse {\n  x = new int[_x_length];\n}\n",
		},
		{
			"parcelable array", arr("a.Point"),
			"int _x_length = p.readInt();\na.Point[] x;\nif ((_x_length<0)) {\n  x = null;\n}\nelse {\n  x = new a.Point[_x_length];\n}\n",
		},
		{
			"list", ir.Type("List", ir.Type("String")),
			"java.util.List<java.lang.String> x = new java.util.ArrayList<java.lang.String>();\n",
		},
		{"map", ir.Type("Map"), "java.util.Map x = new java.util.HashMap();\n"},
		{"parcelable", ir.Type("a.Point"), "a.Point x = new a.Point();\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := NewMethodScope()
			c := newContext(types, tt.typ, "x", scope)
			if err := AllocateOutFor(c); err != nil {
				t.Fatalf("AllocateOutFor() error = %v", err)
			}
			if got := c.Writer.String(); got != tt.want {
				t.Errorf("AllocateOutFor() wrote\n%s\nwant\n%s", got, tt.want)
			}
			if !scope.IsSized("x") {
				t.Error("AllocateOutFor() must mark the variable sized")
			}
		})
	}

	for _, typ := range []*ir.TypeSpecifier{ir.Type("int"), ir.Type("a.IFoo"), ir.Type("ParcelFileDescriptor"), arr("CharSequence")} {
		c := newContext(types, typ, "x", NewMethodScope())
		if err := AllocateOutFor(c); CodeOf(err) != CodeUnsupportedCategory {
			t.Errorf("AllocateOutFor(%s) error = %v, want %s", typ, err, CodeUnsupportedCategory)
		}
	}
}

func TestWriteOutLengthFor(t *testing.T) {
	types := testTypes(t)
	scope := NewMethodScope()
	c := newContext(types, arr("String"), "x", scope)
	if err := WriteOutLengthFor(c); err != nil {
		t.Fatalf("WriteOutLengthFor() error = %v", err)
	}
	want := "if ((x==null)) {\n  p.writeInt(-1);\n}\nelse {\n  p.writeInt(x.length);\n}\n"
	if got := c.Writer.String(); got != want {
		t.Errorf("WriteOutLengthFor() wrote\n%s\nwant\n%s", got, want)
	}
	if !scope.IsSized("x") {
		t.Error("WriteOutLengthFor() must mark the variable sized")
	}

	c = newContext(types, ir.Type("List"), "y", NewMethodScope())
	if err := WriteOutLengthFor(c); CodeOf(err) != CodeUnsupportedCategory {
		t.Errorf("WriteOutLengthFor(List) error = %v, want %s", err, CodeUnsupportedCategory)
	}
}

func TestMissingScope(t *testing.T) {
	types := testTypes(t)
	w := codewriter.New("  ")
	ops := map[string]func(*CodeGeneratorContext) error{
		"WriteToParcelFor":    WriteToParcelFor,
		"CreateFromParcelFor": CreateFromParcelFor,
		"ReadFromParcelFor":   ReadFromParcelFor,
		"AllocateOutFor":      AllocateOutFor,
		"WriteOutLengthFor":   WriteOutLengthFor,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			c := newContext(types, ir.Type("List", ir.Type("a.Point")), "x", nil)
			c.Writer = w
			err := op(c)
			if CodeOf(err) != CodeInvalidContext || !strings.Contains(err.Error(), "Scope") {
				t.Errorf("error = %v, want %s naming Scope", err, CodeInvalidContext)
			}
			if c.Scope != nil {
				t.Error("a scope was created")
			}
		})
	}
	if w.Len() != 0 {
		t.Errorf("wrote %q without a scope", w.String())
	}

	c := &CodeGeneratorContext{Scope: NewMethodScope()}
	err := WriteToParcelFor(c)
	if CodeOf(err) != CodeInvalidContext || !strings.Contains(err.Error(), "Writer, Typenames, Type") {
		t.Errorf("WriteToParcelFor(empty) error = %v", err)
	}
}
