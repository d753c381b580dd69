package java

import "fmt"

// CreateFromParcelFor appends statements that declare c.Var with the Java
// signature of c.Type and initialize it from c.Parcel. Storage is always
// fresh: arrays use the self-delimiting create calls, which read the length
// before allocating.
//
// The first List or Map read in a scope is preceded by the classloader
// bootstrap statement.
func CreateFromParcelFor(c *CodeGeneratorContext) error {
	return dispatch(c, "CreateFromParcel", func(h handler) handlerFunc { return h.create })
}

// ReadFromParcelFor appends statements that read c.Parcel into the existing
// storage of c.Var without reallocating it. Arrays, Lists and Maps must
// already be sized in c.Scope, otherwise the call fails with
// CodeOrderingViolation.
func ReadFromParcelFor(c *CodeGeneratorContext) error {
	return dispatch(c, "ReadFromParcel", func(h handler) handlerFunc { return h.read })
}

func createPrimitive(c *CodeGeneratorContext, r *resolved) error {
	p := primitives[r.t.Name]
	c.Writer.Write("%s %s = %s;\n", nameOf(c.Typenames, r.t), c.Var, fmt.Sprintf(p.read, c.Parcel))
	return nil
}

func createEnum(c *CodeGeneratorContext, r *resolved) error {
	p := r.backing()
	c.Writer.Write("%s %s = %s;\n", nameOf(c.Typenames, r.t), c.Var, fmt.Sprintf(p.read, c.Parcel))
	return nil
}

func createArray(c *CodeGeneratorContext, r *resolved) error {
	s, ok := arrayStrategyFor(c.Typenames, r)
	if !ok {
		return c.unsupported("CreateFromParcel", r)
	}
	c.Writer.Write("%s %s = %s;\n", signatureOf(c.Typenames, r.t), c.Var, s.create(c.Parcel))
	c.Scope.MarkSized(c.Var)
	return nil
}

func createParcelable(c *CodeGeneratorContext, r *resolved) error {
	name := nameOf(c.Typenames, r.t)
	c.createNullMarked(name, name+".CREATOR.createFromParcel("+c.Parcel+")")
	return nil
}

func createInterface(c *CodeGeneratorContext, r *resolved) error {
	name := nameOf(c.Typenames, r.t)
	if r.t.Name == "IBinder" {
		c.Writer.Write("%s %s = %s.readStrongBinder();\n", name, c.Var, c.Parcel)
		return nil
	}
	c.Writer.Write("%s %s = %s.Stub.asInterface(%s.readStrongBinder());\n", name, c.Var, name, c.Parcel)
	return nil
}

func createCollection(c *CodeGeneratorContext, r *resolved) error {
	c.Scope.ensureClassloader(c.Writer)
	read := "readArrayList"
	if r.t.Name == "Map" {
		read = "readHashMap"
	}
	c.Writer.Write("%s %s = %s.%s(%s);\n", signatureOf(c.Typenames, r.t), c.Var, c.Parcel, read, classloaderVar)
	c.Scope.MarkSized(c.Var)
	return nil
}

func createOther(c *CodeGeneratorContext, r *resolved) error {
	c.createNullMarked(nameOf(c.Typenames, r.t),
		"android.text.TextUtils.CHAR_SEQUENCE_CREATOR.createFromParcel("+c.Parcel+")")
	return nil
}

// createNullMarked declares c.Var and assigns expr when the null marker
// is set.
func (c *CodeGeneratorContext) createNullMarked(decl, expr string) {
	w := c.Writer
	w.Write("%s %s;\n", decl, c.Var)
	w.Write("if ((0!=%s.readInt())) {\n", c.Parcel)
	w.Indent()
	w.Write("%s = %s;\n", c.Var, expr)
	w.Dedent()
	w.WriteString("}\nelse {\n")
	w.Indent()
	w.Write("%s = null;\n", c.Var)
	w.Dedent()
	w.WriteString("}\n")
}

func readUnsupported(c *CodeGeneratorContext, r *resolved) error {
	return c.unsupported("ReadFromParcel", r)
}

func readArray(c *CodeGeneratorContext, r *resolved) error {
	s, ok := arrayStrategyFor(c.Typenames, r)
	if !ok {
		return c.unsupported("ReadFromParcel", r)
	}
	if err := c.requireSized("ReadFromParcel"); err != nil {
		return err
	}
	c.Writer.WriteString(s.read(c.Parcel, c.Var))
	return nil
}

func readParcelable(c *CodeGeneratorContext, r *resolved) error {
	if r.def == nil {
		// Builtin parcelables have no readFromParcel.
		return c.unsupported("ReadFromParcel", r)
	}
	w := c.Writer
	w.Write("if ((0!=%s.readInt())) {\n", c.Parcel)
	w.Indent()
	w.Write("%s.readFromParcel(%s);\n", c.Var, c.Parcel)
	w.Dedent()
	w.WriteString("}\n")
	return nil
}

func readCollection(c *CodeGeneratorContext, r *resolved) error {
	if err := c.requireSized("ReadFromParcel"); err != nil {
		return err
	}
	c.Scope.ensureClassloader(c.Writer)
	read := "readList"
	if r.t.Name == "Map" {
		read = "readMap"
	}
	c.Writer.Write("%s.%s(%s, %s);\n", c.Parcel, read, c.Var, classloaderVar)
	return nil
}

func (c *CodeGeneratorContext) requireSized(op string) error {
	if c.Scope.IsSized(c.Var) {
		return nil
	}
	d := diagf(CodeOrderingViolation, op, c.Type, "%s is read into before its length was written, read or allocated", c.Var)
	d.Filename = c.Filename
	return d
}

// AllocateOutFor appends statements that declare and allocate storage for
// an out parameter on the receiving side. Arrays are sized from a length
// read from c.Parcel; a negative length yields null.
func AllocateOutFor(c *CodeGeneratorContext) error {
	const op = "AllocateOut"
	if err := c.validate(op); err != nil {
		return err
	}
	r, err := classify(c.Typenames, op, c.Type)
	if err != nil {
		return inFile(err, c.Filename)
	}
	w := c.Writer
	switch r.cat {
	case CategoryArray:
		s, ok := arrayStrategyFor(c.Typenames, r)
		if !ok {
			return c.unsupported(op, r)
		}
		length := "_" + c.Var + "_length"
		w.Write("int %s = %s.readInt();\n", length, c.Parcel)
		w.Write("%s %s;\n", signatureOf(c.Typenames, r.t), c.Var)
		w.Write("if ((%s<0)) {\n", length)
		w.Indent()
		w.Write("%s = null;\n", c.Var)
		w.Dedent()
		w.WriteString("}\nelse {\n")
		w.Indent()
		w.Write("%s = new %s[%s];\n", c.Var, s.elem, length)
		w.Dedent()
		w.WriteString("}\n")
	case CategoryCollection:
		w.Write("%s %s = new %s();\n", signatureOf(c.Typenames, r.t), c.Var, instantiableSignatureOf(c.Typenames, r.t))
	case CategoryParcelable, CategoryUnion:
		if r.def == nil {
			return c.unsupported(op, r)
		}
		name := nameOf(c.Typenames, r.t)
		w.Write("%s %s = new %s();\n", name, c.Var, name)
	default:
		return c.unsupported(op, r)
	}
	c.Scope.MarkSized(c.Var)
	return nil
}

// WriteOutLengthFor appends statements that write the length of the out
// array c.Var, or -1 when it is null, so the receiver can allocate it.
func WriteOutLengthFor(c *CodeGeneratorContext) error {
	const op = "WriteOutLength"
	if err := c.validate(op); err != nil {
		return err
	}
	r, err := classify(c.Typenames, op, c.Type)
	if err != nil {
		return inFile(err, c.Filename)
	}
	if r.cat != CategoryArray {
		return c.unsupported(op, r)
	}
	if _, ok := arrayStrategyFor(c.Typenames, r); !ok {
		return c.unsupported(op, r)
	}
	w := c.Writer
	w.Write("if ((%s==null)) {\n", c.Var)
	w.Indent()
	w.Write("%s.writeInt(-1);\n", c.Parcel)
	w.Dedent()
	w.WriteString("}\nelse {\n")
	w.Indent()
	w.Write("%s.writeInt(%s.length);\n", c.Parcel, c.Var)
	w.Dedent()
	w.WriteString("}\n")
	c.Scope.MarkSized(c.Var)
	return nil
}
