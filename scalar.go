package structdump

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
)

// scalar renders bool and numeric kinds. Scalars are always inline.
func (e *Emitter) scalar(v reflect.Value) Code {
	t := v.Type()
	lit, exact := untypedLiteral(v)
	if t.PkgPath() != "" || !isPredeclared(t) {
		// Defined types convert from the untyped constant: time.Duration(5).
		return NewCode(TypeCode(t).Call(lit), TypeCode(t))
	}
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Complex128:
		return NewCode(lit, TypeCode(t))
	case reflect.Float64:
		if exact {
			return NewCode(lit, TypeCode(t))
		}
	}
	return NewCode(TypeCode(t).Call(lit), TypeCode(t))
}

// isPredeclared reports whether t is one of the unnamed-package basic types.
func isPredeclared(t reflect.Type) bool {
	return t.PkgPath() == "" && t.Name() == t.Kind().String()
}

// untypedLiteral renders the value of a bool or numeric kind as an untyped
// constant expression. exact reports whether the expression defaults to
// the value's own kind when used untyped, which only matters for float64.
func untypedLiteral(v reflect.Value) (lit *jen.Statement, exact bool) {
	switch v.Kind() {
	case reflect.Bool:
		return jen.Lit(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return jen.Id(strconv.FormatInt(v.Int(), 10)), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return jen.Id(strconv.FormatUint(v.Uint(), 10)), true
	case reflect.Float32:
		return floatLiteral(v.Float(), 32)
	case reflect.Float64:
		return floatLiteral(v.Float(), 64)
	case reflect.Complex64, reflect.Complex128:
		bits := 64
		if v.Kind() == reflect.Complex64 {
			bits = 32
		}
		c := v.Complex()
		re, _ := floatLiteral(real(c), bits)
		im, _ := floatLiteral(imag(c), bits)
		return jen.Id("complex").Call(re, im), true
	}
	return jen.Nil(), false
}

// floatLiteral renders f with the shortest representation that reads back
// to the same value at the given precision. Values without a constant form
// are produced through the math package.
func floatLiteral(f float64, bits int) (*jen.Statement, bool) {
	switch {
	case math.IsNaN(f):
		return jen.Qual("math", "NaN").Call(), true
	case math.IsInf(f, 1):
		return jen.Qual("math", "Inf").Call(jen.Lit(1)), true
	case math.IsInf(f, -1):
		return jen.Qual("math", "Inf").Call(jen.Lit(-1)), true
	case f == 0 && math.Signbit(f):
		return jen.Qual("math", "Copysign").Call(jen.Id("0"), jen.Lit(-1)), true
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return jen.Id(s), true
}

// text renders a string kind as a literal and offers it to the cache.
func (e *Emitter) text(v reflect.Value, unique bool) Code {
	t := v.Type()
	var expr *jen.Statement
	if isPredeclared(t) {
		expr = jen.Lit(v.String())
	} else {
		expr = TypeCode(t).Call(jen.Lit(v.String()))
	}
	return e.AddCode(NewCode(expr, TypeCode(t)), nil, unique)
}

// bytes renders a byte slice as an owned conversion of a string literal.
// The literal and the conversion are separate cache entries.
func (e *Emitter) bytes(v reflect.Value, unique bool) Code {
	t := v.Type()
	if v.IsNil() {
		return NewCode(jen.Parens(TypeCode(t)).Call(jen.Nil()), TypeCode(t))
	}
	lit := e.AddCode(NewCode(jen.Lit(string(v.Bytes())), jen.String()), nil, unique)
	return e.AddCode(NewCode(TypeCode(t).Call(lit.Expr()), TypeCode(t)), nil, unique)
}

// isBytes reports whether t is a slice of the predeclared byte type.
func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && isPredeclared(t.Elem())
}
