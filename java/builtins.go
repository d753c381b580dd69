package java

// javaNames maps IDL builtin names to Java type names.
var javaNames = map[string]string{
	"void":                 "void",
	"boolean":              "boolean",
	"byte":                 "byte",
	"char":                 "char",
	"int":                  "int",
	"long":                 "long",
	"float":                "float",
	"double":               "double",
	"String":               "java.lang.String",
	"CharSequence":         "java.lang.CharSequence",
	"List":                 "java.util.List",
	"Map":                  "java.util.Map",
	"IBinder":              "android.os.IBinder",
	"FileDescriptor":       "java.io.FileDescriptor",
	"ParcelFileDescriptor": "android.os.ParcelFileDescriptor",
}

// instantiableNames are concrete classes for builtins whose Java type is an
// interface.
var instantiableNames = map[string]string{
	"List": "java.util.ArrayList",
	"Map":  "java.util.HashMap",
}

// boxedNames maps Java primitive types to their wrapper classes, for use in
// generic type arguments.
var boxedNames = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// primitive describes how a Primitive-category builtin crosses a parcel.
// Format verbs: %[1]s is the parcel, %[2]s the value.
type primitive struct {
	zero string

	// write is a complete statement without the trailing newline.
	write string

	// read is an expression.
	read string

	// stem names the array methods: write<stem>Array, create<stem>Array,
	// read<stem>Array. Empty when arrays of the type are not supported.
	stem string
}

var primitives = map[string]primitive{
	"boolean": {
		zero:  "false",
		write: "%[1]s.writeInt(((%[2]s)?(1):(0)));",
		read:  "(0!=%[1]s.readInt())",
		stem:  "Boolean",
	},
	"byte": {
		zero:  "0",
		write: "%[1]s.writeByte(%[2]s);",
		read:  "%[1]s.readByte()",
		stem:  "Byte",
	},
	"char": {
		zero:  `'\0'`,
		write: "%[1]s.writeInt(((int)%[2]s));",
		read:  "(char)%[1]s.readInt()",
		stem:  "Char",
	},
	"int": {
		zero:  "0",
		write: "%[1]s.writeInt(%[2]s);",
		read:  "%[1]s.readInt()",
		stem:  "Int",
	},
	"long": {
		zero:  "0L",
		write: "%[1]s.writeLong(%[2]s);",
		read:  "%[1]s.readLong()",
		stem:  "Long",
	},
	"float": {
		zero:  "0.0f",
		write: "%[1]s.writeFloat(%[2]s);",
		read:  "%[1]s.readFloat()",
		stem:  "Float",
	},
	"double": {
		zero:  "0.0d",
		write: "%[1]s.writeDouble(%[2]s);",
		read:  "%[1]s.readDouble()",
		stem:  "Double",
	},
	"String": {
		zero:  "null",
		write: "%[1]s.writeString(%[2]s);",
		read:  "%[1]s.readString()",
		stem:  "String",
	},
	"FileDescriptor": {
		zero:  "null",
		write: "%[1]s.writeRawFileDescriptor(%[2]s);",
		read:  "%[1]s.readRawFileDescriptor()",
		stem:  "RawFileDescriptor",
	},
}

const (
	// flagsReturnValue lets a parcelable release resources once written.
	flagsReturnValue = "android.os.Parcelable.PARCELABLE_WRITE_RETURN_VALUE"

	classloaderVar  = "cl"
	classloaderStmt = "java.lang.ClassLoader cl = (java.lang.ClassLoader)this.getClass().getClassLoader();\n"
)
