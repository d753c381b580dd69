package javagen

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
	"golang.org/x/tools/txtar"

	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
	"github.com/broady/aidlgen/sink"
)

var update = flag.Bool("update", false, "rewrite golden archives in testdata")

// Each archive in testdata holds an input.json document, an optional
// options section with one key=value per line, and the expected files.
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no golden archives")
	}
	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var input []byte
			var pairs []string
			want := make(map[string]string)
			for _, f := range ar.Files {
				switch f.Name {
				case "input.json":
					input = f.Data
				case "options":
					for _, line := range strings.Split(strings.TrimSpace(string(f.Data)), "\n") {
						if line != "" {
							pairs = append(pairs, line)
						}
					}
				default:
					want[f.Name] = string(f.Data)
				}
			}

			opts, err := ParseOptions(pairs)
			if err != nil {
				t.Fatalf("ParseOptions() error = %v", err)
			}
			types := decodeTypes(t, string(input))
			mem := sink.NewMemorySink()
			if _, err := Generate(context.Background(), types, GenerateOptions{Sink: mem, Options: opts}); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			got := make(map[string]string)
			for _, p := range mem.Paths() {
				got[p] = string(mem.Get(p))
			}

			if *update {
				rewriteArchive(t, path, ar, got)
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("generated files mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func rewriteArchive(t *testing.T, path string, ar *txtar.Archive, got map[string]string) {
	t.Helper()
	var files []txtar.File
	for _, f := range ar.Files {
		if f.Name == "input.json" || f.Name == "options" {
			files = append(files, f)
		}
	}
	names := make([]string, 0, len(got))
	for name := range got {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		files = append(files, txtar.File{Name: name, Data: []byte(got[name])})
	}
	ar.Files = files
	if err := os.WriteFile(path, txtar.Format(ar), 0o644); err != nil {
		t.Fatal(err)
	}
}

func decodeTypes(t *testing.T, doc string) *ir.Typenames {
	t.Helper()
	d, err := ir.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	types, err := d.Typenames()
	if err != nil {
		t.Fatalf("Typenames() error = %v", err)
	}
	return types
}

func emitOne(t *testing.T, doc, name string, opts Options) (string, error) {
	t.Helper()
	types := decodeTypes(t, doc)
	d := types.Lookup(name)
	if d == nil {
		t.Fatalf("no definition %s", name)
	}
	out, err := Emit(types, d, opts)
	return string(out), err
}

func TestFilePath(t *testing.T) {
	tests := []struct {
		def  ir.Definition
		want string
	}{
		{&ir.InterfaceDefinition{Name: "android.os.IFoo"}, "android/os/IFoo.java"},
		{&ir.EnumDefinition{Name: "a.Color"}, "a/Color.java"},
		{&ir.ParcelableDefinition{Name: "Top"}, "Top.java"},
	}
	for _, tt := range tests {
		if got := FilePath(tt.def); got != tt.want {
			t.Errorf("FilePath(%s) = %q, want %q", tt.def.QualifiedName(), got, tt.want)
		}
	}
}

func TestGenerate_SkipsNonGenerating(t *testing.T) {
	types := decodeTypes(t, `{"definitions": [
		{"kind": "parcelable", "name": "a.Raw"},
		{"kind": "alias", "name": "a.Id", "target": {"name": "long"}},
		{"kind": "enum", "name": "a.E", "enumerators": [{"name": "A"}]}
	]}`)
	mem := sink.NewMemorySink()
	res, err := Generate(context.Background(), types, GenerateOptions{Sink: mem})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a/E.java"}, mem.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
	if res.TypesGenerated != 1 || len(res.Files) != 1 {
		t.Fatalf("result = %+v", res)
	}
	f := res.Files[0]
	if f.Path != "a/E.java" || f.Type != "a.E" || f.Size != int64(len(mem.Get("a/E.java"))) {
		t.Errorf("Files[0] = %+v", f)
	}
}

func TestGenerate_AccumulatesDiagnostics(t *testing.T) {
	types := decodeTypes(t, `{"definitions": [
		{"kind": "parcelable", "name": "a.Bad", "structured": true, "fields": [
			{"name": "x", "type": {"name": "int"}, "defaultValue": "\"abc\""},
			{"name": "y", "type": {"name": "a.Missing"}},
			{"name": "z", "type": {"name": "long"}}
		]},
		{"kind": "parcelable", "name": "a.Good", "structured": true, "fields": [
			{"name": "v", "type": {"name": "long"}}
		]},
		{"kind": "interface", "name": "a.IBad", "methods": [
			{"name": "get", "returnType": {"name": "void"}, "arguments": [
				{"name": "n", "type": {"name": "int"}, "direction": "out"}
			]}
		]}
	]}`)
	mem := sink.NewMemorySink()
	res, err := Generate(context.Background(), types, GenerateOptions{Sink: mem})
	if err == nil {
		t.Fatal("Generate() error = nil, want diagnostics")
	}

	if diff := cmp.Diff([]string{"a/Good.java"}, mem.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.Bad", "a.IBad"}, res.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}

	codes := make(map[java.ErrorCode]int)
	for _, e := range multierr.Errors(err) {
		codes[java.CodeOf(e)]++
		var d *java.Diagnostic
		if errors.As(e, &d) && d.Filename == "" {
			t.Errorf("diagnostic without filename: %v", e)
		}
	}
	for _, code := range []java.ErrorCode{java.CodeMalformedConstant, java.CodeUnresolvedType, java.CodeUnsupportedCategory} {
		if codes[code] == 0 {
			t.Errorf("no %s diagnostic in %v", code, err)
		}
	}
	if !strings.Contains(err.Error(), "a/Bad.java") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestGenerate_Canceled(t *testing.T) {
	types := decodeTypes(t, `{"definitions": [{"kind": "enum", "name": "a.E", "enumerators": [{"name": "A"}]}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mem := sink.NewMemorySink()
	_, err := Generate(ctx, types, GenerateOptions{Sink: mem})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
	if len(mem.Paths()) != 0 {
		t.Error("files written after cancel")
	}
}

func TestGenerate_NoSink(t *testing.T) {
	if _, err := Generate(context.Background(), ir.NewTypenames(), GenerateOptions{}); err == nil {
		t.Error("Generate() without sink should fail")
	}
}

type failingSink struct{}

func (failingSink) WriteFile(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestGenerate_SinkError(t *testing.T) {
	types := decodeTypes(t, `{"definitions": [{"kind": "enum", "name": "a.E", "enumerators": [{"name": "A"}]}]}`)
	res, err := Generate(context.Background(), types, GenerateOptions{Sink: failingSink{}})
	if err == nil || !strings.Contains(err.Error(), "write a/E.java: disk full") {
		t.Errorf("Generate() error = %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("Files = %v, want none", res.Files)
	}
}

func TestEmit_Indent(t *testing.T) {
	out, err := emitOne(t, `{"definitions": [{"kind": "enum", "name": "E", "backingType": {"name": "long"},
		"enumerators": [{"name": "A", "value": "0x10"}, {"name": "B"}]}]}`, "E", Options{Indent: 4})
	if err != nil {
		t.Fatal(err)
	}
	want := "/*\n * This file is auto-generated.  DO NOT MODIFY.\n */\n" +
		"public @interface E\n{\n" +
		"    public static final long A = 0x10L;\n" +
		"    public static final long B = 17L;\n" +
		"}\n"
	if out != want {
		t.Errorf("Emit() =\n%s\nwant\n%s", out, want)
	}
}

func TestEmit_Documentation(t *testing.T) {
	out, err := emitOne(t, `{"definitions": [{"kind": "parcelable", "name": "a.P", "structured": true,
		"doc": {"body": "First line.\n\nSecond */ line.", "deprecated": "use Q"},
		"fields": [{"name": "old", "type": {"name": "int"}, "doc": {"body": "Legacy.", "deprecated": ""}}]}]}`, "a.P", Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"/**\n * First line.\n *\n * Second *&#47; line.\n * @deprecated use Q\n */\n@Deprecated\npublic class P",
		"  /**\n   * Legacy.\n   * @deprecated\n   */\n  @Deprecated\n  public int old;\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmit_ReservedIdentifiers(t *testing.T) {
	out, err := emitOne(t, `{"definitions": [{"kind": "parcelable", "name": "a.P", "structured": true,
		"fields": [{"name": "class", "type": {"name": "int"}}]}]}`, "a.P", Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"public int class_;",
		"_aidl_parcel.writeInt(class_);",
		"int _aidl_value_class = _aidl_parcel.readInt();",
		"class_ = _aidl_value_class;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestEmit_ParcelableFields(t *testing.T) {
	doc := `{"definitions": [
		{"kind": "parcelable", "name": "a.Inner", "structured": true},
		{"kind": "parcelable", "name": "a.P", "structured": true, "fields": [
			{"name": "tags", "type": {"name": "List", "typeParameters": [{"name": "String"}]}},
			{"name": "attrs", "type": {"name": "Map", "typeParameters": [{"name": "String"}, {"name": "int"}]}},
			{"name": "inner", "type": {"name": "a.Inner"}},
			{"name": "flags", "type": {"name": "boolean", "isArray": true}, "defaultValue": "{true, false}"}
		]}
	]}`
	out, err := emitOne(t, doc, "a.P", Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"public boolean[] flags = {true, false};",
		"_aidl_parcel.writeList(tags);",
		"_aidl_parcel.writeMap(attrs);",
		"if ((inner!=null)) {\n      _aidl_parcel.writeInt(1);\n      inner.writeToParcel(_aidl_parcel, 0);\n",
		"_aidl_parcel.writeBooleanArray(flags);",
		"java.util.Map<java.lang.String,java.lang.Integer> _aidl_value_attrs = _aidl_parcel.readHashMap(cl);",
		"a.Inner _aidl_value_inner;\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "java.lang.ClassLoader cl ="); n != 1 {
		t.Errorf("classloader emitted %d times, want 1", n)
	}
}

func TestEmit_InterfaceArguments(t *testing.T) {
	doc := `{"definitions": [
		{"kind": "parcelable", "name": "a.Point", "structured": true},
		{"kind": "interface", "name": "a.IFoo", "methods": [
			{"name": "fill", "returnType": {"name": "a.Point"}, "arguments": [
				{"name": "p", "type": {"name": "a.Point"}, "direction": "out"},
				{"name": "cb", "type": {"name": "a.IFoo"}},
				{"name": "b", "type": {"name": "IBinder"}}
			]},
			{"name": "default", "returnType": {"name": "char"}}
		]}
	]}`
	out, err := emitOne(t, doc, "a.IFoo", Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		// Stub allocates the out parcelable and writes it back as a return value.
		"a.Point _arg0 = new a.Point();",
		"a.IFoo _arg1 = a.IFoo.Stub.asInterface(data.readStrongBinder());",
		"android.os.IBinder _arg2 = data.readStrongBinder();",
		"_result.writeToParcel(reply, android.os.Parcelable.PARCELABLE_WRITE_RETURN_VALUE);",
		"_arg0.writeToParcel(reply, android.os.Parcelable.PARCELABLE_WRITE_RETURN_VALUE);",
		// Proxy writes nothing for the out parcelable and reads it back in place.
		"_data.writeStrongBinder((((cb!=null))?(cb.asBinder()):(null)));",
		"_data.writeStrongBinder(b);",
		"if ((0!=_reply.readInt())) {\n            p.readFromParcel(_reply);\n          }\n",
		// Reserved method names are escaped, and Default returns the zero value.
		"public char default_() throws android.os.RemoteException;",
		"return '\\0';",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "_data.writeInt(1);\n          p.writeToParcel") {
		t.Error("proxy wrote an out parcelable")
	}
}

func TestEmit_OnewayViolations(t *testing.T) {
	doc := `{"definitions": [{"kind": "interface", "name": "a.IFoo", "oneway": true, "methods": [
		{"name": "get", "returnType": {"name": "int"}},
		{"name": "put", "returnType": {"name": "void"}, "arguments": [
			{"name": "xs", "type": {"name": "int", "isArray": true}, "direction": "out"}
		]},
		{"name": "ok", "returnType": {"name": "void"}}
	]}]}`
	_, err := emitOne(t, doc, "a.IFoo", Options{})
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
	for _, e := range errs {
		var ve *ir.ValidationError
		if !errors.As(e, &ve) || ve.Code != "invalid_oneway" {
			t.Errorf("error %v, want invalid_oneway", e)
		}
	}
}

func TestEmit_EnumErrors(t *testing.T) {
	tests := []struct {
		name  string
		enums string
		want  string
	}{
		{"byte overflow", `[{"name": "A", "value": "127"}, {"name": "B"}]`, "out of range"},
		{"forward reference", `[{"name": "A", "value": "B"}, {"name": "B"}]`, "does not name an earlier enumerator"},
		{"unknown after error", `[{"name": "A", "value": "x y"}, {"name": "B"}]`, "cannot follow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"definitions": [{"kind": "enum", "name": "a.E", "enumerators": ` + tt.enums + `}]}`
			_, err := emitOne(t, doc, "a.E", Options{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Emit() error = %v, want %q", err, tt.want)
			}
			if java.CodeOf(err) != java.CodeMalformedConstant {
				t.Errorf("code = %q, want %q", java.CodeOf(err), java.CodeMalformedConstant)
			}
		})
	}
}

func TestEmit_EmptyUnion(t *testing.T) {
	types := ir.NewTypenames()
	u := &ir.UnionDefinition{Name: "a.U"}
	if err := types.Add(u); err != nil {
		t.Fatal(err)
	}
	out, err := Emit(types, u, Options{})
	if out != nil {
		t.Errorf("Emit() wrote %q for an empty union", out)
	}
	var ve *ir.ValidationError
	if !errors.As(err, &ve) || ve.Code != "empty_union" {
		t.Fatalf("Emit() error = %v, want empty_union", err)
	}

	res, err := Generate(context.Background(), types, GenerateOptions{Sink: sink.NewMemorySink()})
	if err == nil || len(res.Skipped) != 1 || res.Skipped[0] != "a.U" {
		t.Errorf("Generate() = %+v, %v; want a.U skipped", res, err)
	}
}

func TestEmit_InvalidEnumBacking(t *testing.T) {
	doc := `{"definitions": [
		{"kind": "enum", "name": "a.E", "backingType": {"name": "String"}, "enumerators": [{"name": "A"}]},
		{"kind": "enum", "name": "a.Wide", "backingType": {"name": "int", "isArray": true}, "enumerators": [{"name": "A"}]},
		{"kind": "parcelable", "name": "a.P", "structured": true, "fields": [{"name": "e", "type": {"name": "a.E"}}]},
		{"kind": "union", "name": "a.U", "members": [{"name": "es", "type": {"name": "a.E", "isArray": true}}]},
		{"kind": "interface", "name": "a.IFoo", "methods": [
			{"name": "get", "returnType": {"name": "List", "typeParameters": [{"name": "a.Wide"}]}}
		]}
	]}`
	for _, name := range []string{"a.E", "a.Wide", "a.P", "a.U", "a.IFoo"} {
		t.Run(name, func(t *testing.T) {
			out, err := emitOne(t, doc, name, Options{})
			if out != "" {
				t.Errorf("Emit() wrote output:\n%s", out)
			}
			if java.CodeOf(err) != java.CodeUnsupportedCategory || !strings.Contains(err.Error(), "must be byte, int or long") {
				t.Errorf("Emit() error = %v, want unsupported backing type", err)
			}
		})
	}
}

func TestEmit_EnumByteHex(t *testing.T) {
	out, err := emitOne(t, `{"definitions": [{"kind": "enum", "name": "a.E",
		"enumerators": [{"name": "HI", "value": "0xFE"}, {"name": "TOP"}]}]}`, "a.E", Options{})
	if err != nil {
		t.Fatal(err)
	}
	// 0xFE is -2 as a byte, so the next value is -1.
	for _, want := range []string{"public static final byte HI = (byte)0xFE;", "public static final byte TOP = -1;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmit_Output(t *testing.T) {
	out, err := emitOne(t, `{"definitions": [{"kind": "enum", "name": "a.E", "enumerators": [{"name": "A"}]}]}`, "a.E", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix([]byte(out), []byte("}\n")) {
		t.Errorf("output does not end with a closing brace and newline: %q", out)
	}
}
