package java

import "github.com/broady/aidlgen/ir"

// DefaultValueOf returns the Java literal an uninitialized value of t holds.
// The choice follows the resolved category, so an alias of int defaults to
// 0 and an enum defaults to its backing type's zero.
func DefaultValueOf(types *ir.Typenames, t *ir.TypeSpecifier) (string, error) {
	r, err := classify(types, "DefaultValueOf", t)
	if err != nil {
		return "", err
	}
	switch r.cat {
	case CategoryPrimitive:
		return primitives[r.t.Name].zero, nil
	case CategoryEnum:
		return r.backing().zero, nil
	}
	return "null", nil
}
