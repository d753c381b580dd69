package java

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/broady/aidlgen/ir"
)

// ConstantValueDecorator renders a raw IDL constant as a Java literal of
// type t. It never coerces: text that is not a valid literal for t fails
// with CodeMalformedConstant.
func ConstantValueDecorator(types *ir.Typenames, t *ir.TypeSpecifier, raw string) (string, error) {
	const op = "ConstantValueDecorator"
	rt, err := resolve(types, op, t)
	if err != nil {
		return "", err
	}
	return decorate(types, op, t, rt, strings.TrimSpace(raw))
}

func decorate(types *ir.Typenames, op string, t, rt *ir.TypeSpecifier, raw string) (string, error) {
	malformed := func(format string, args ...any) error {
		return diagf(CodeMalformedConstant, op, t, "%q: "+format, append([]any{raw}, args...)...)
	}

	if rt.IsArray {
		if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
			return "", malformed("array constant must be a {...} list")
		}
		elems, err := splitList(raw[1 : len(raw)-1])
		if err != nil {
			return "", malformed("%v", err)
		}
		base := rt.ArrayBase()
		out := make([]string, len(elems))
		for i, e := range elems {
			if out[i], err = decorate(types, op, t, base, e); err != nil {
				return "", err
			}
		}
		return "{" + strings.Join(out, ", ") + "}", nil
	}

	if e, ok := types.Lookup(rt.Name).(*ir.EnumDefinition); ok {
		qualifier, name := "", raw
		if i := strings.LastIndexByte(raw, '.'); i >= 0 {
			qualifier, name = raw[:i], raw[i+1:]
		}
		if _, simple := ir.SplitName(e.Name); qualifier != "" && qualifier != simple && qualifier != e.Name {
			return "", malformed("%s does not name enum %s", qualifier, e.Name)
		}
		if _, ok := e.Enumerator(name); !ok {
			return "", malformed("%s has no enumerator %s", e.Name, name)
		}
		return e.Name + "." + name, nil
	}

	switch rt.Name {
	case "boolean":
		if raw != "true" && raw != "false" {
			return "", malformed("not a boolean")
		}
		return raw, nil
	case "byte":
		v, err := integerLiteral(raw, 8)
		if err != nil {
			return "", malformed("%v", err)
		}
		// Java has no byte literal; a negative two's complement value
		// written in hex, octal or binary needs a narrowing cast.
		if v < 0 && !strings.HasPrefix(raw, "-") {
			return "(byte)" + raw, nil
		}
		return raw, nil
	case "int":
		if _, err := integerLiteral(raw, 32); err != nil {
			return "", malformed("%v", err)
		}
		return raw, nil
	case "long":
		digits := raw
		if strings.HasSuffix(digits, "l") || strings.HasSuffix(digits, "L") {
			digits = digits[:len(digits)-1]
		}
		if _, err := integerLiteral(digits, 64); err != nil {
			return "", malformed("%v", err)
		}
		return digits + "L", nil
	case "float":
		digits, err := floatLiteral(raw, "fF")
		if err != nil {
			return "", malformed("%v", err)
		}
		return digits + "f", nil
	case "double":
		digits, err := floatLiteral(raw, "dD")
		if err != nil {
			return "", malformed("%v", err)
		}
		return digits + "d", nil
	case "char":
		r, err := charValue(raw)
		if err != nil {
			return "", malformed("%v", err)
		}
		return quoteChar(r), nil
	case "String", "CharSequence":
		s := raw
		if strings.HasPrefix(raw, `"`) {
			var err error
			if s, err = strconv.Unquote(raw); err != nil {
				return "", malformed("bad string literal")
			}
		}
		return quoteString(s), nil
	}
	return "", diagf(CodeUnsupportedCategory, op, t, "constants of type %s are not supported", rt.Name)
}

// integerLiteral parses a Java integer literal of a type that is bits wide.
// Decimal literals must fit the signed range. Hex, octal and binary
// literals may set every bit and are read as two's complement, so 0xFF is
// -1 when bits is 8.
func integerLiteral(s string, bits int) (int64, error) {
	body, neg := strings.CutPrefix(s, "-")
	if !neg {
		body = strings.TrimPrefix(body, "+")
	}
	base, digits := 10, body
	switch {
	case len(body) > 1 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		base, digits = 16, body[2:]
	case len(body) > 1 && body[0] == '0' && (body[1] == 'b' || body[1] == 'B'):
		base, digits = 2, body[2:]
	case len(body) > 1 && body[0] == '0':
		base, digits = 8, body[1:]
	}
	if digits == "" {
		return 0, fmt.Errorf("not an integer")
	}
	u, err := strconv.ParseUint(digits, base, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("out of range for a %d-bit integer", bits)
		}
		return 0, fmt.Errorf("not an integer")
	}
	limit := uint64(1) << (bits - 1)
	switch {
	case neg && u > limit:
		return 0, fmt.Errorf("out of range for a %d-bit integer", bits)
	case neg:
		return -int64(u), nil
	case base == 10 && u >= limit:
		return 0, fmt.Errorf("out of range for a %d-bit integer", bits)
	}
	shift := 64 - bits
	return int64(u<<shift) >> shift, nil
}

func isHex(s string) bool {
	return len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// floatLiteral strips one of the given suffixes and checks the remainder is
// a finite decimal or hex floating-point literal.
func floatLiteral(raw, suffixes string) (string, error) {
	digits := raw
	if n := len(digits); n > 0 && strings.ContainsRune(suffixes, rune(digits[n-1])) && !isHex(digits) {
		digits = digits[:n-1]
	}
	body := strings.TrimLeft(digits, "+-")
	if body == "" || !(body[0] >= '0' && body[0] <= '9' || body[0] == '.') {
		return "", fmt.Errorf("not a number")
	}
	if _, err := strconv.ParseFloat(digits, 64); err != nil {
		return "", fmt.Errorf("not a number")
	}
	return digits, nil
}

func charValue(raw string) (rune, error) {
	if strings.HasPrefix(raw, "'") {
		s, _, tail, err := strconv.UnquoteChar(strings.TrimSuffix(raw[1:], "'"), '\'')
		if err != nil || tail != "" || !strings.HasSuffix(raw, "'") || len(raw) < 3 {
			return 0, fmt.Errorf("bad char literal")
		}
		return s, nil
	}
	r, size := utf8.DecodeRuneInString(raw)
	if r == utf8.RuneError || size != len(raw) {
		return 0, fmt.Errorf("not a single character")
	}
	return r, nil
}

func quoteChar(r rune) string {
	if r == '\'' {
		return `'\''`
	}
	return "'" + escapeRune(r) + "'"
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteString(`\"`)
			continue
		}
		b.WriteString(escapeRune(r))
	}
	b.WriteByte('"')
	return b.String()
}

// escapeRune renders r for a Java string or char literal. Non-printable
// and non-BMP characters become \u escapes.
func escapeRune(r rune) string {
	switch r {
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case 0:
		return `\0`
	}
	if r >= 0x20 && r < 0x7f {
		return string(r)
	}
	if r > 0xffff {
		r -= 0x10000
		return fmt.Sprintf(`\u%04x\u%04x`, 0xd800+(r>>10), 0xdc00+(r&0x3ff))
	}
	return fmt.Sprintf(`\u%04x`, r)
}

// splitList splits a comma-separated constant list at the top level,
// respecting quotes and nested braces.
func splitList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == ',' && depth == 0:
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("unbalanced list")
	}
	return append(out, strings.TrimSpace(s[start:])), nil
}
