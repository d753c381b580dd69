package java

import (
	"fmt"

	"github.com/broady/aidlgen/ir"
)

type handlerFunc func(c *CodeGeneratorContext, r *resolved) error

// handler is the marshalling strategy for one category.
type handler struct {
	write  handlerFunc
	create handlerFunc
	read   handlerFunc
}

// handlers has exactly one entry per category.
var handlers = [numCategories]handler{
	CategoryPrimitive:  {write: writePrimitive, create: createPrimitive, read: readUnsupported},
	CategoryArray:      {write: writeArray, create: createArray, read: readArray},
	CategoryParcelable: {write: writeParcelable, create: createParcelable, read: readParcelable},
	CategoryInterface:  {write: writeInterface, create: createInterface, read: readUnsupported},
	CategoryCollection: {write: writeCollection, create: createCollection, read: readCollection},
	CategoryEnum:       {write: writeEnum, create: createEnum, read: readUnsupported},
	CategoryUnion:      {write: writeParcelable, create: createParcelable, read: readParcelable},
	CategoryOther:      {write: writeOther, create: createOther, read: readUnsupported},
}

func dispatch(c *CodeGeneratorContext, op string, pick func(handler) handlerFunc) error {
	if err := c.validate(op); err != nil {
		return err
	}
	r, err := classify(c.Typenames, op, c.Type)
	if err != nil {
		return inFile(err, c.Filename)
	}
	return pick(handlers[r.cat])(c, r)
}

// WriteToParcelFor appends statements that write c.Var into c.Parcel.
// Arrays and collections are marked sized in c.Scope, since their length
// goes on the wire ahead of the elements.
func WriteToParcelFor(c *CodeGeneratorContext) error {
	return dispatch(c, "WriteToParcel", func(h handler) handlerFunc { return h.write })
}

func writePrimitive(c *CodeGeneratorContext, r *resolved) error {
	c.Writer.Write(primitives[r.t.Name].write+"\n", c.Parcel, c.Var)
	return nil
}

func writeEnum(c *CodeGeneratorContext, r *resolved) error {
	c.Writer.Write(r.backing().write+"\n", c.Parcel, c.Var)
	return nil
}

func writeArray(c *CodeGeneratorContext, r *resolved) error {
	s, ok := arrayStrategyFor(c.Typenames, r)
	if !ok {
		return c.unsupported("WriteToParcel", r)
	}
	c.Writer.WriteString(s.write(c.Parcel, c.Var, c.flags()))
	c.Scope.MarkSized(c.Var)
	return nil
}

func writeParcelable(c *CodeGeneratorContext, r *resolved) error {
	c.writeNullMarked(fmt.Sprintf("%s.writeToParcel(%s, %s);\n", c.Var, c.Parcel, c.flags()))
	return nil
}

func writeInterface(c *CodeGeneratorContext, r *resolved) error {
	if r.t.Name == "IBinder" {
		c.Writer.Write("%s.writeStrongBinder(%s);\n", c.Parcel, c.Var)
		return nil
	}
	c.Writer.Write("%s.writeStrongBinder((((%s!=null))?(%s.asBinder()):(null)));\n", c.Parcel, c.Var, c.Var)
	return nil
}

func writeCollection(c *CodeGeneratorContext, r *resolved) error {
	if r.t.Name == "Map" {
		c.Writer.Write("%s.writeMap(%s);\n", c.Parcel, c.Var)
	} else {
		c.Writer.Write("%s.writeList(%s);\n", c.Parcel, c.Var)
	}
	c.Scope.MarkSized(c.Var)
	return nil
}

func writeOther(c *CodeGeneratorContext, r *resolved) error {
	c.writeNullMarked(fmt.Sprintf("android.text.TextUtils.writeToParcel(%s, %s, %s);\n", c.Var, c.Parcel, c.flags()))
	return nil
}

// writeNullMarked writes 1 and stmt when c.Var is non-null, else 0.
func (c *CodeGeneratorContext) writeNullMarked(stmt string) {
	w := c.Writer
	w.Write("if ((%s!=null)) {\n", c.Var)
	w.Indent()
	w.Write("%s.writeInt(1);\n", c.Parcel)
	w.WriteString(stmt)
	w.Dedent()
	w.WriteString("}\nelse {\n")
	w.Indent()
	w.Write("%s.writeInt(0);\n", c.Parcel)
	w.Dedent()
	w.WriteString("}\n")
}

// arrayStrategy is how arrays of one element type cross a parcel. Element
// types with a dedicated parcel method use stem; parcelables and unions go
// through the typed-array methods and their CREATOR.
type arrayStrategy struct {
	stem  string
	typed string

	// elem is the Java element type, for allocation.
	elem string
}

func arrayStrategyFor(types *ir.Typenames, r *resolved) (arrayStrategy, bool) {
	e := r.element(types)
	if e == nil {
		return arrayStrategy{}, false
	}
	elem := nameOf(types, e.t)
	switch e.cat {
	case CategoryPrimitive:
		return arrayStrategy{stem: primitives[e.t.Name].stem, elem: elem}, true
	case CategoryEnum:
		return arrayStrategy{stem: e.backing().stem, elem: elem}, true
	case CategoryInterface:
		if e.t.Name == "IBinder" {
			return arrayStrategy{stem: "Binder", elem: elem}, true
		}
	case CategoryParcelable, CategoryUnion:
		return arrayStrategy{typed: elem, elem: elem}, true
	}
	return arrayStrategy{}, false
}

func (s arrayStrategy) write(parcel, v, flags string) string {
	if s.typed != "" {
		return fmt.Sprintf("%s.writeTypedArray(%s, %s);\n", parcel, v, flags)
	}
	return fmt.Sprintf("%s.write%sArray(%s);\n", parcel, s.stem, v)
}

func (s arrayStrategy) create(parcel string) string {
	if s.typed != "" {
		return fmt.Sprintf("%s.createTypedArray(%s.CREATOR)", parcel, s.typed)
	}
	return fmt.Sprintf("%s.create%sArray()", parcel, s.stem)
}

func (s arrayStrategy) read(parcel, v string) string {
	if s.typed != "" {
		return fmt.Sprintf("%s.readTypedArray(%s, %s.CREATOR);\n", parcel, v, s.typed)
	}
	return fmt.Sprintf("%s.read%sArray(%s);\n", parcel, s.stem, v)
}
