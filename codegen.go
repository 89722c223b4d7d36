package structdump

import (
	"fmt"
	"reflect"

	"github.com/dave/jennifer/jen"
)

// Codegen is implemented by values that render themselves as Go source.
//
// GenCode returns an expression that evaluates to a value equal to the
// receiver. If unique is false the implementation may intern its result
// through e.AddCode; if it is true the result must be returned inline.
type Codegen interface {
	GenCode(e *Emitter, unique bool) Code
}

var codegenType = reflect.TypeFor[Codegen]()

// Value renders v, dispatching on its registered type function, its
// Codegen implementation, or its kind.
func (e *Emitter) Value(v any, unique bool) Code {
	if v == nil {
		return NewCode(jen.Nil(), nil)
	}
	return e.value(reflect.ValueOf(v), unique, true)
}

// Reflect renders v by its kind, ignoring a Codegen implementation of v
// itself. Nested values still use their own implementations. Generated
// GenCode methods use it for values they have no dedicated rendering for.
func (e *Emitter) Reflect(v any, unique bool) Code {
	if v == nil {
		return NewCode(jen.Nil(), nil)
	}
	return e.value(reflect.ValueOf(v), unique, false)
}

func (e *Emitter) value(v reflect.Value, unique, dispatch bool) Code {
	if !v.IsValid() {
		return NewCode(jen.Nil(), nil)
	}
	t := v.Type()
	if limit := e.cfg.MaxDepth; limit > 0 && e.depth >= limit {
		e.Fail(NewDepthError(limit, t.String()))
		return NewCode(jen.Nil(), TypeCode(t))
	}
	e.depth++
	defer func() { e.depth-- }()

	if fn, ok := e.cfg.TypeFuncs[t]; ok {
		return fn(e, v, unique)
	}
	if dispatch && implementsCodegen(t) && v.CanInterface() {
		if t.Kind() != reflect.Pointer || !v.IsNil() {
			return v.Interface().(Codegen).GenCode(e, unique)
		}
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return e.scalar(v)
	case reflect.String:
		return e.text(v, unique)
	case reflect.Slice:
		if isBytes(t) {
			return e.bytes(v, unique)
		}
		return e.sequence(v, unique)
	case reflect.Array:
		return e.sequence(v, unique)
	case reflect.Map:
		return e.mapping(v, unique)
	case reflect.Pointer:
		return e.pointer(v, unique)
	case reflect.Interface:
		if v.IsNil() {
			return NewCode(jen.Nil(), TypeCode(t))
		}
		return e.value(v.Elem(), unique, true)
	case reflect.Struct:
		return e.structure(v, unique)
	}
	// Chan, Func and UnsafePointer have no source form.
	if v.IsNil() {
		return NewCode(jen.Parens(TypeCode(t)).Call(jen.Nil()), TypeCode(t))
	}
	return e.Unsupported(t, fmt.Sprintf("%s values are not supported", t.Kind()))
}

// implementsCodegen reports whether values of t should render through their
// own GenCode. A pointer type only does so when its pointee does not
// implement Codegen itself; otherwise the pointer is treated as a shared
// reference to the pointee.
func implementsCodegen(t reflect.Type) bool {
	if !t.Implements(codegenType) {
		return false
	}
	return t.Kind() != reflect.Pointer || !t.Elem().Implements(codegenType)
}

// Unsupported returns an expression of type t that panics when evaluated.
// Generation continues; the failure surfaces when the generated code runs.
func (e *Emitter) Unsupported(t reflect.Type, reason string) Code {
	e.log.Sugar().Debugf("deferring failure for %s: %s", t, reason)
	expr := jen.Func().Params().Add(TypeCode(t)).Block(
		jen.Panic(jen.Lit("structdump: " + reason)),
	).Call()
	return NewCode(expr, TypeCode(t))
}

// enter marks a reference-like value as being emitted and reports whether
// it was already in progress, which means the graph has a cycle.
func (e *Emitter) enter(v reflect.Value) (leave func(), ok bool) {
	key := pointerKey{ptr: v.Pointer(), typ: v.Type()}
	if e.active[key] {
		e.Fail(NewCycleError(v.Type().String()))
		return func() {}, false
	}
	e.active[key] = true
	return func() { delete(e.active, key) }, true
}
