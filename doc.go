// Package structdump compiles in-memory Go values into Go source.
//
// Dump walks a value graph and produces one expression that, when compiled
// into a program, evaluates to a value equal to the input. It is meant for
// moving expensive parsing or construction to build time:
//
//	expr, err := structdump.Dump(table, structdump.WithPackage("example.com/app/data"))
//	if err != nil {
//		return err
//	}
//	f := jen.NewFilePath("example.com/app/data")
//	f.Var().Id("Table").Op("=").Add(expr)
//
// # Sharing
//
// Every composite expression is offered to the session's Emitter, which
// binds it to a local variable the first time its exact text is seen and
// refers to that variable afterwards. The unique flag passed through every
// call turns this off for a subtree: the expression is returned inline and
// the cache is left untouched. Pointees are always rendered with unique set
// so they never get a binding of their own; the pointer allocation is what
// gets shared. Two pointers whose pointees render identically therefore
// share one allocation unless WithPointerIdentity is used.
//
// When the session created bindings, the result is an immediately invoked
// function literal:
//
//	func() []string {
//		code0 := "ab"
//		code1 := []string{code0, code0}
//		return code1
//	}()
//
// # Custom types
//
// Types render through a registered TypeFunc, their Codegen implementation,
// or their reflect kind, in that order. Codegen implementations drive the
// Named, Positional and Unit builders, which keep the sharing mode of the
// value being rendered. The structdump derive command writes them from type
// declarations.
//
// Values that have no source form, such as channels, functions or structs
// with unexported state from another package, render as expressions that
// panic when the generated code runs. Cycles, excessive nesting and builder
// misuse fail the Dump call instead.
package structdump
