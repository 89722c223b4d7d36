package structdump

import (
	"reflect"

	"github.com/dave/jennifer/jen"
)

// importPath is the import path generated code uses to refer to the
// helper types of this package.
const importPath = "github.com/syssam/structdump"

// Optional holds a value of type T or nothing. Generated code constructs it
// with Some and None.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether there is one.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether o holds a value.
func (o Optional[T]) IsSome() bool {
	return o.ok
}

// GenCode renders o as a Some or None call. The call itself is never bound;
// the payload is rendered under the caller's sharing mode.
func (o Optional[T]) GenCode(e *Emitter, unique bool) Code {
	arg := TypeCode(reflect.TypeFor[T]())
	typ := TypeCode(reflect.TypeFor[Optional[T]]())
	if !o.ok {
		return NewCode(jen.Qual(importPath, "None").Types(arg).Call(), typ)
	}
	payload := e.Value(o.value, unique)
	return NewCode(jen.Qual(importPath, "Some").Types(arg).Call(payload.Expr()), typ)
}

// Tuple2 is an ordered pair.
type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

// GenCode renders t as a positional literal.
func (t Tuple2[A, B]) GenCode(e *Emitter, unique bool) Code {
	return newPositional(TypeCode(reflect.TypeFor[Tuple2[A, B]]()), "Tuple2", unique).
		Field(e, t.V0).
		Field(e, t.V1).
		Build(e)
}

// Tuple3 is an ordered triple.
type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

// GenCode renders t as a positional literal.
func (t Tuple3[A, B, C]) GenCode(e *Emitter, unique bool) Code {
	return newPositional(TypeCode(reflect.TypeFor[Tuple3[A, B, C]]()), "Tuple3", unique).
		Field(e, t.V0).
		Field(e, t.V1).
		Field(e, t.V2).
		Build(e)
}
