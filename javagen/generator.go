// Package javagen generates Java source files for the definitions in a type
// registry. It drives the java package once per field, constant and method
// argument, and collects every diagnostic rather than stopping at the first.
package javagen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/broady/aidlgen/codewriter"
	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
	"github.com/broady/aidlgen/sink"
)

// GenerateOptions configures a generation run.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	Options Options
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// TypesGenerated is the number of definitions that produced a file.
	TypesGenerated int

	// Skipped lists the qualified names of definitions whose file was not
	// written because of diagnostics.
	Skipped []string
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Type is the qualified name of the definition the file declares.
	Type string

	// Size is the number of bytes written.
	Size int64
}

// Generate writes one Java file per generating definition to opts.Sink, in
// registration order. Aliases and unstructured parcelables produce no file.
//
// A definition with diagnostics is skipped and the others are still
// generated. The returned error combines every diagnostic; use
// multierr.Errors to list them. The result is valid even when err is not nil.
func Generate(ctx context.Context, types *ir.Typenames, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Sink == nil {
		return nil, errors.New("javagen: no sink")
	}
	o := opts.Options.withDefaults()

	result := &GenerateResult{}
	var errs error
	for _, d := range types.Definitions() {
		if err := ctx.Err(); err != nil {
			return result, multierr.Append(errs, err)
		}
		content, err := emit(types, d, o)
		if err != nil {
			errs = multierr.Append(errs, err)
			result.Skipped = append(result.Skipped, d.QualifiedName())
			continue
		}
		if content == nil {
			continue
		}
		p := FilePath(d)
		if err := opts.Sink.WriteFile(ctx, p, content); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("write %s: %w", p, err))
			continue
		}
		result.Files = append(result.Files, OutputFile{Path: p, Type: d.QualifiedName(), Size: int64(len(content))})
		result.TypesGenerated++
	}
	return result, errs
}

// Emit returns the Java source for a single definition, or nil if the
// definition produces no file.
func Emit(types *ir.Typenames, d ir.Definition, opts Options) ([]byte, error) {
	return emit(types, d, opts.withDefaults())
}

// FilePath returns the slash-separated path of the file declaring d:
// the package as directories, then the simple name.
func FilePath(d ir.Definition) string {
	pkg, name := ir.SplitName(d.QualifiedName())
	if pkg == "" {
		return name + ".java"
	}
	return strings.ReplaceAll(pkg, ".", "/") + "/" + name + ".java"
}

// generates reports whether d gets a file of its own.
func generates(d ir.Definition) bool {
	switch d := d.(type) {
	case *ir.AliasDefinition:
		return false
	case *ir.ParcelableDefinition:
		return d.Structured
	}
	return true
}

func emit(types *ir.Typenames, d ir.Definition, o Options) ([]byte, error) {
	if !generates(d) {
		return nil, nil
	}
	e := &emitter{
		types: types,
		opts:  o,
		w:     codewriter.New(strings.Repeat(" ", o.Indent)),
		file:  FilePath(d),
	}
	e.header(d)
	switch d := d.(type) {
	case *ir.EnumDefinition:
		e.enum(d)
	case *ir.ParcelableDefinition:
		e.parcelable(d)
	case *ir.UnionDefinition:
		e.union(d)
	case *ir.InterfaceDefinition:
		e.iface(d)
	default:
		return nil, fmt.Errorf("%s: unsupported definition kind %s", d.QualifiedName(), d.Kind())
	}
	if e.errs != nil {
		return nil, e.errs
	}
	return e.w.Bytes(), nil
}

// emitter holds the state of one file pass.
type emitter struct {
	types *ir.Typenames
	opts  Options
	w     *codewriter.Writer
	file  string
	errs  error
}

// check records err, stamped with the file name, and reports whether the
// caller may proceed.
func (e *emitter) check(err error) bool {
	if err == nil {
		return true
	}
	var d *java.Diagnostic
	if errors.As(err, &d) && d.Filename == "" {
		d.Filename = e.file
	}
	e.errs = multierr.Append(e.errs, err)
	return false
}

func (e *emitter) context(t *ir.TypeSpecifier, parcel, v string, scope *java.MethodScope) *java.CodeGeneratorContext {
	return &java.CodeGeneratorContext{
		Writer:    e.w,
		Typenames: e.types,
		Type:      t,
		Parcel:    parcel,
		Var:       v,
		Scope:     scope,
		Filename:  e.file,
	}
}

func (e *emitter) writeTo(t *ir.TypeSpecifier, parcel, v string, scope *java.MethodScope, isReturn bool) {
	c := e.context(t, parcel, v, scope)
	c.IsReturnValue = isReturn
	e.check(java.WriteToParcelFor(c))
}

func (e *emitter) createFrom(t *ir.TypeSpecifier, parcel, v string, scope *java.MethodScope) {
	e.check(java.CreateFromParcelFor(e.context(t, parcel, v, scope)))
}

func (e *emitter) readFrom(t *ir.TypeSpecifier, parcel, v string, scope *java.MethodScope) {
	e.check(java.ReadFromParcelFor(e.context(t, parcel, v, scope)))
}

// signatures returns the Java signature of every type, or false after
// recording the failures.
func (e *emitter) signatures(ts ...*ir.TypeSpecifier) ([]string, bool) {
	out := make([]string, len(ts))
	ok := true
	for i, t := range ts {
		s, err := java.SignatureOf(e.types, t)
		if !e.check(err) {
			ok = false
			continue
		}
		out[i] = s
	}
	return out, ok
}

func (e *emitter) signature(t *ir.TypeSpecifier) (string, bool) {
	s, ok := e.signatures(t)
	return s[0], ok
}

func (e *emitter) header(d ir.Definition) {
	e.w.WriteString("/*\n * This file is auto-generated.  DO NOT MODIFY.\n")
	if e.opts.Header != "" {
		for line := range strings.SplitSeq(e.opts.Header, "\n") {
			e.w.WriteString(commentLine(" * ", line))
		}
	}
	e.w.WriteString(" */\n")
	if pkg, _ := ir.SplitName(d.QualifiedName()); pkg != "" {
		e.w.Write("package %s;\n", pkg)
	}
}

// doc writes a Javadoc comment, followed by @Deprecated when the
// declaration is deprecated.
func (e *emitter) doc(d ir.Documentation) {
	if d.IsZero() {
		return
	}
	body := strings.TrimSpace(d.Body)
	if body == "" {
		body = strings.TrimSpace(d.Summary)
	}
	lines := strings.Split(body, "\n")
	switch {
	case body == "" && d.Deprecated == nil:
	case len(lines) == 1 && d.Deprecated == nil:
		e.w.Write("/** %s */\n", sanitizeComment(strings.TrimSpace(lines[0])))
	default:
		e.w.WriteString("/**\n")
		if body != "" {
			for _, line := range lines {
				e.w.WriteString(commentLine(" * ", line))
			}
		}
		if d.Deprecated != nil {
			e.w.WriteString(commentLine(" * ", strings.TrimSpace("@deprecated "+*d.Deprecated)))
		}
		e.w.WriteString(" */\n")
	}
	if d.Deprecated != nil {
		e.w.WriteString("@Deprecated\n")
	}
}

func commentLine(prefix, line string) string {
	line = sanitizeComment(strings.TrimSpace(line))
	if line == "" {
		return strings.TrimRight(prefix, " ") + "\n"
	}
	return prefix + line + "\n"
}

// sanitizeComment keeps comment text from closing the comment early.
func sanitizeComment(s string) string {
	return strings.ReplaceAll(s, "*/", "*&#47;")
}

// constants writes public static final declarations rendered through the
// constant decorator.
func (e *emitter) constants(cs []ir.Constant) {
	for _, c := range cs {
		sig, ok := e.signature(c.Type)
		if !ok {
			continue
		}
		v, err := java.ConstantValueDecorator(e.types, c.Type, c.Value)
		if !e.check(err) {
			continue
		}
		e.doc(c.Documentation)
		e.w.Write("public static final %s %s = %s;\n", sig, escapeIdentifier(c.Name), v)
	}
}
