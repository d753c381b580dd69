// Package java maps IDL types to Java and emits the statements that move
// values in and out of an android.os.Parcel.
//
// Every operation resolves aliases through an ir.Typenames registry and then
// dispatches on the resolved Category. Operations never panic on bad input;
// they return a *Diagnostic describing the offending type.
//
// Marshal and unmarshal calls take a CodeGeneratorContext built per call
// site. The contexts of one method body share a MethodScope, which records
// whether the classloader bootstrap statement has been emitted and which
// variables have known lengths.
package java
