package javagen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
)

// enum writes an enum as an annotation interface of constants of the
// backing type. Enums have no Java class at runtime; values travel as the
// backing primitive.
func (e *emitter) enum(d *ir.EnumDefinition) {
	backing, err := java.EnumBacking(d)
	if !e.check(err) {
		return
	}
	sig, ok := e.signature(backing)
	if !ok {
		return
	}
	_, name := ir.SplitName(d.Name)

	e.doc(d.Documentation)
	e.w.Block("public @interface "+name+"\n{\n", "}\n", func() {
		values := make(map[string]int64, len(d.Enumerators))
		var next int64
		nextKnown := true
		for _, en := range d.Enumerators {
			lit, val, known, err := e.enumValue(backing, en, next, nextKnown, values)
			if !e.check(err) {
				nextKnown = false
				continue
			}
			if known {
				values[en.Name] = val
			}
			next, nextKnown = val+1, known

			e.doc(en.Documentation)
			e.w.Write("public static final %s %s = %s;\n", sig, escapeIdentifier(en.Name), lit)
		}
	})
}

// enumValue returns the Java literal for en, and its numeric value when
// it can be computed. An empty value is the previous value plus one. A
// value naming an earlier enumerator is emitted as a reference to it.
func (e *emitter) enumValue(backing *ir.TypeSpecifier, en ir.Enumerator, next int64, nextKnown bool, values map[string]int64) (string, int64, bool, error) {
	raw := strings.TrimSpace(en.Value)
	switch {
	case raw == "":
		if !nextKnown {
			return "", 0, false, e.malformed(backing, en, "cannot follow an enumerator whose value is unknown")
		}
		raw = strconv.FormatInt(next, 10)
	case isIdentifier(raw) && raw != "true" && raw != "false":
		v, ok := values[raw]
		if !ok {
			return "", 0, false, e.malformed(backing, en, fmt.Sprintf("%q does not name an earlier enumerator", raw))
		}
		return escapeIdentifier(raw), v, true, nil
	}

	lit, err := java.ConstantValueDecorator(e.types, backing, raw)
	if err != nil {
		return "", 0, false, err
	}
	v, err := strconv.ParseInt(strings.TrimRight(raw, "lL"), 0, 64)
	if err != nil {
		// Unsigned hex such as 0xFFFFFFFFFFFFFFFF for long.
		u, uerr := strconv.ParseUint(strings.TrimRight(raw, "lL"), 0, 64)
		if uerr != nil {
			return lit, 0, false, nil
		}
		v = int64(u)
	}
	switch backing.Name {
	case "byte":
		v = int64(int8(v))
	case "int":
		v = int64(int32(v))
	}
	return lit, v, true, nil
}

func (e *emitter) malformed(backing *ir.TypeSpecifier, en ir.Enumerator, msg string) error {
	return &java.Diagnostic{
		Code:     java.CodeMalformedConstant,
		Op:       "EnumValue",
		Type:     backing.String(),
		Filename: e.file,
		Message:  en.Name + " " + msg,
	}
}
