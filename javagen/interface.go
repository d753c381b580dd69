package javagen

import (
	"fmt"
	"strings"

	"github.com/broady/aidlgen/ir"
	"github.com/broady/aidlgen/java"
)

// method is an interface method with everything the Stub, Proxy and
// Default emitters share precomputed.
type method struct {
	ir.Method
	oneway   bool
	code     int
	ret      string
	args     []string
	argNames []string
}

func (m *method) transaction() string { return "TRANSACTION_" + m.Name }

// declaration is the Java method header without modifiers.
func (m *method) declaration() string {
	params := make([]string, len(m.Arguments))
	for i := range m.Arguments {
		params[i] = m.args[i] + " " + m.argNames[i]
	}
	return fmt.Sprintf("%s %s(%s) throws android.os.RemoteException", m.ret, escapeIdentifier(m.Name), strings.Join(params, ", "))
}

func (m *method) isVoid() bool { return m.ReturnType.Name == "void" && !m.ReturnType.IsArray }

// methods resolves every method signature and checks oneway rules. Methods
// that fail are left out; their diagnostics are recorded.
func (e *emitter) methods(d *ir.InterfaceDefinition) []*method {
	var out []*method
	for i, m := range d.Methods {
		mm := &method{Method: m, oneway: m.Oneway || d.Oneway, code: i}
		if m.ID != nil {
			mm.code = *m.ID
		}
		ok := true
		if mm.isVoid() {
			mm.ret = "void"
		} else if mm.ret, ok = e.signature(m.ReturnType); !ok {
			continue
		}
		types := make([]*ir.TypeSpecifier, len(m.Arguments))
		mm.argNames = make([]string, len(m.Arguments))
		for j, a := range m.Arguments {
			types[j] = a.Type
			mm.argNames[j] = escapeIdentifier(a.Name)
		}
		if mm.args, ok = e.signatures(types...); !ok {
			continue
		}
		if mm.oneway && !e.checkOneway(d, mm) {
			continue
		}
		out = append(out, mm)
	}
	return out
}

func (e *emitter) checkOneway(d *ir.InterfaceDefinition, m *method) bool {
	fail := func(msg string) bool {
		src := m.Source
		if src.IsZero() {
			src = d.Source
		}
		e.check(&ir.ValidationError{
			Code:    "invalid_oneway",
			Message: fmt.Sprintf("%s: %s.%s: %s", e.file, d.Name, m.Name, msg),
			Source:  src,
		})
		return false
	}
	if !m.isVoid() {
		return fail("oneway methods must return void")
	}
	for _, a := range m.Arguments {
		if a.Direction.IsOut() {
			return fail("oneway methods cannot have out arguments: " + a.Name)
		}
	}
	return true
}

// iface writes a binder interface: the Java interface with its Default
// implementation, the Stub that dispatches incoming transactions and the
// Proxy that issues them.
func (e *emitter) iface(d *ir.InterfaceDefinition) {
	_, name := ir.SplitName(d.Name)
	methods := e.methods(d)

	e.doc(d.Documentation)
	e.w.Block("public interface "+name+" extends android.os.IInterface\n{\n", "}\n", func() {
		if !e.opts.SkipDefault {
			e.defaultImpl(d, methods)
		}
		e.stub(d, methods)
		e.constants(d.Constants)
		for _, m := range methods {
			e.doc(m.Documentation)
			e.w.Write("public %s;\n", m.declaration())
		}
	})
}

func (e *emitter) defaultImpl(d *ir.InterfaceDefinition, methods []*method) {
	w := e.w
	_, name := ir.SplitName(d.Name)
	w.Write("/** Default implementation for %s. */\n", name)
	w.Block("public static class Default implements "+d.Name+"\n{\n", "}\n", func() {
		for _, m := range methods {
			w.Block("@Override public "+m.declaration()+"\n{\n", "}\n", func() {
				if m.isVoid() {
					return
				}
				v, err := java.DefaultValueOf(e.types, m.ReturnType)
				if e.check(err) {
					w.Write("return %s;\n", v)
				}
			})
		}
		w.WriteString("@Override\n")
		w.Block("public android.os.IBinder asBinder() {\n", "}\n", func() {
			w.WriteString("return null;\n")
		})
	})
}

func (e *emitter) stub(d *ir.InterfaceDefinition, methods []*method) {
	w := e.w
	w.WriteString("/** Local-side IPC implementation stub class. */\n")
	w.Block("public static abstract class Stub extends android.os.Binder implements "+d.Name+"\n{\n", "}\n", func() {
		w.Write("private static final java.lang.String DESCRIPTOR = %q;\n", d.Name)
		w.WriteString("/** Construct the stub and attach it to the interface. */\n")
		w.Block("public Stub()\n{\n", "}\n", func() {
			w.WriteString("this.attachInterface(this, DESCRIPTOR);\n")
		})
		w.WriteString("/**\n")
		w.Write(" * Cast an IBinder object into an %s interface,\n", d.Name)
		w.WriteString(" * generating a proxy if needed.\n */\n")
		w.Block("public static "+d.Name+" asInterface(android.os.IBinder obj)\n{\n", "}\n", func() {
			w.Block("if ((obj==null)) {\n", "}\n", func() {
				w.WriteString("return null;\n")
			})
			w.WriteString("android.os.IInterface iin = obj.queryLocalInterface(DESCRIPTOR);\n")
			w.Block("if (((iin!=null)&&(iin instanceof "+d.Name+"))) {\n", "}\n", func() {
				w.Write("return ((%s)iin);\n", d.Name)
			})
			w.Write("return new %s.Stub.Proxy(obj);\n", d.Name)
		})
		w.Block("@Override public android.os.IBinder asBinder()\n{\n", "}\n", func() {
			w.WriteString("return this;\n")
		})
		if e.opts.TransactionNames {
			e.transactionNames(methods)
		}
		e.onTransact(methods)
		e.proxy(d, methods)
		for _, m := range methods {
			w.Write("static final int %s = (android.os.IBinder.FIRST_CALL_TRANSACTION + %d);\n", m.transaction(), m.code)
		}
	})
}

func (e *emitter) transactionNames(methods []*method) {
	w := e.w
	w.WriteString("/** @hide */\n")
	w.Block("public static java.lang.String getDefaultTransactionName(int transactionCode)\n{\n", "}\n", func() {
		w.Block("switch (transactionCode)\n{\n", "}\n", func() {
			for _, m := range methods {
				w.Block("case "+m.transaction()+":\n{\n", "}\n", func() {
					w.Write("return %q;\n", m.Name)
				})
			}
			w.Block("default:\n{\n", "}\n", func() {
				w.WriteString("return null;\n")
			})
		})
	})
	w.WriteString("/** @hide */\n")
	w.Block("public java.lang.String getTransactionName(int transactionCode)\n{\n", "}\n", func() {
		w.WriteString("return this.getDefaultTransactionName(transactionCode);\n")
	})
}

func (e *emitter) onTransact(methods []*method) {
	w := e.w
	w.Block("@Override public boolean onTransact(int code, android.os.Parcel data, android.os.Parcel reply, int flags) throws android.os.RemoteException\n{\n", "}\n", func() {
		w.WriteString("java.lang.String descriptor = DESCRIPTOR;\n")
		w.Block("switch (code)\n{\n", "}\n", func() {
			w.Block("case INTERFACE_TRANSACTION:\n{\n", "}\n", func() {
				w.WriteString("reply.writeString(descriptor);\n")
				w.WriteString("return true;\n")
			})
			for _, m := range methods {
				w.Block("case "+m.transaction()+":\n{\n", "}\n", func() {
					e.stubCase(m)
				})
			}
			w.Block("default:\n{\n", "}\n", func() {
				w.WriteString("return super.onTransact(code, data, reply, flags);\n")
			})
		})
	})
}

// stubCase unpacks the arguments of one incoming call, invokes the
// implementation and writes the reply.
func (e *emitter) stubCase(m *method) {
	w := e.w
	scope := java.NewMethodScope()
	w.WriteString("data.enforceInterface(descriptor);\n")

	vars := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		vars[i] = fmt.Sprintf("_arg%d", i)
		if a.Direction.IsIn() {
			e.createFrom(a.Type, "data", vars[i], scope)
		} else {
			e.check(java.AllocateOutFor(e.context(a.Type, "data", vars[i], scope)))
		}
	}

	call := fmt.Sprintf("this.%s(%s);\n", escapeIdentifier(m.Name), strings.Join(vars, ", "))
	if m.isVoid() {
		w.WriteString(call)
	} else {
		w.Write("%s _result = %s", m.ret, call)
	}
	if m.oneway {
		w.WriteString("return true;\n")
		return
	}

	w.WriteString("reply.writeNoException();\n")
	if !m.isVoid() {
		e.writeTo(m.ReturnType, "reply", "_result", scope, true)
	}
	for i, a := range m.Arguments {
		if a.Direction.IsOut() {
			e.writeTo(a.Type, "reply", vars[i], scope, true)
		}
	}
	w.WriteString("return true;\n")
}

func (e *emitter) proxy(d *ir.InterfaceDefinition, methods []*method) {
	w := e.w
	w.Block("private static class Proxy implements "+d.Name+"\n{\n", "}\n", func() {
		w.WriteString("private android.os.IBinder mRemote;\n")
		w.Block("Proxy(android.os.IBinder remote)\n{\n", "}\n", func() {
			w.WriteString("mRemote = remote;\n")
		})
		w.Block("@Override public android.os.IBinder asBinder()\n{\n", "}\n", func() {
			w.WriteString("return mRemote;\n")
		})
		w.Block("public java.lang.String getInterfaceDescriptor()\n{\n", "}\n", func() {
			w.WriteString("return DESCRIPTOR;\n")
		})
		for _, m := range methods {
			w.Block("@Override public "+m.declaration()+"\n{\n", "}\n", func() {
				e.proxyBody(m)
			})
		}
	})
}

// proxyBody marshals the arguments of one outgoing call, transacts, and
// unmarshals the result and out arguments. The result is returned from
// inside the try block so the parcels are recycled on every path.
func (e *emitter) proxyBody(m *method) {
	w := e.w
	scope := java.NewMethodScope()
	w.WriteString("android.os.Parcel _data = android.os.Parcel.obtain();\n")
	if !m.oneway {
		w.WriteString("android.os.Parcel _reply = android.os.Parcel.obtain();\n")
	}

	w.Block("try {\n", "}\n", func() {
		w.WriteString("_data.writeInterfaceToken(DESCRIPTOR);\n")
		for i, a := range m.Arguments {
			v := m.argNames[i]
			switch {
			case a.Direction.IsIn():
				e.writeTo(a.Type, "_data", v, scope, false)
			case e.isArray(a.Type):
				e.check(java.WriteOutLengthFor(e.context(a.Type, "_data", v, scope)))
			default:
				// Pure out storage other than arrays is allocated by the caller.
				scope.MarkSized(v)
			}
		}

		if m.oneway {
			w.Write("mRemote.transact(Stub.%s, _data, null, android.os.IBinder.FLAG_ONEWAY);\n", m.transaction())
			return
		}
		w.Write("mRemote.transact(Stub.%s, _data, _reply, 0);\n", m.transaction())
		w.WriteString("_reply.readException();\n")
		if !m.isVoid() {
			e.createFrom(m.ReturnType, "_reply", "_result", scope)
		}
		for i, a := range m.Arguments {
			if a.Direction.IsOut() {
				e.readFrom(a.Type, "_reply", m.argNames[i], scope)
			}
		}
		if !m.isVoid() {
			w.WriteString("return _result;\n")
		}
	})
	w.Block("finally {\n", "}\n", func() {
		if !m.oneway {
			w.WriteString("_reply.recycle();\n")
		}
		w.WriteString("_data.recycle();\n")
	})
}

func (e *emitter) isArray(t *ir.TypeSpecifier) bool {
	c, err := java.CategoryOf(e.types, t)
	return err == nil && c == java.CategoryArray
}
