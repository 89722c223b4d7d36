package structdump

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/dave/jennifer/jen"
)

// sequence renders slices and arrays as composite literals. Elements are
// emitted in order under the caller's sharing mode and the literal is
// offered to the cache. Empty literals are never bound.
func (e *Emitter) sequence(v reflect.Value, unique bool) Code {
	t := v.Type()
	if t.Kind() == reflect.Slice && v.IsNil() {
		return NewCode(jen.Parens(TypeCode(t)).Call(jen.Nil()), TypeCode(t))
	}
	if v.Len() == 0 {
		return literalCode(TypeCode(t).Values(), TypeCode(t))
	}
	if t.Kind() == reflect.Slice {
		leave, ok := e.enter(v)
		defer leave()
		if !ok {
			return NewCode(jen.Nil(), TypeCode(t))
		}
	}
	elems := make([]jen.Code, 0, v.Len())
	for i := range v.Len() {
		elems = append(elems, e.value(v.Index(i), unique, true).Expr())
	}
	return e.AddCode(literalCode(TypeCode(t).Values(elems...), TypeCode(t)), nil, unique)
}

// mapping renders maps as composite literals. Entries are emitted in key
// order so that equal maps produce equal text and equal bindings.
func (e *Emitter) mapping(v reflect.Value, unique bool) Code {
	t := v.Type()
	if v.IsNil() {
		return NewCode(jen.Parens(TypeCode(t)).Call(jen.Nil()), TypeCode(t))
	}
	if v.Len() == 0 {
		return literalCode(TypeCode(t).Values(), TypeCode(t))
	}
	leave, ok := e.enter(v)
	defer leave()
	if !ok {
		return NewCode(jen.Nil(), TypeCode(t))
	}
	keys := v.MapKeys()
	slices.SortStableFunc(keys, compareKeys)
	items := make([]jen.Code, 0, len(keys))
	for _, k := range keys {
		key := e.value(k, unique, true)
		val := e.value(v.MapIndex(k), unique, true)
		items = append(items, key.Expr().Op(":").Add(val.Expr()))
	}
	return e.AddCode(literalCode(TypeCode(t).Values(items...), TypeCode(t)), nil, unique)
}

// compareKeys orders map keys of the same map type.
func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ac, bc := a.Complex(), b.Complex()
		if c := cmp.Compare(real(ac), real(bc)); c != 0 {
			return c
		}
		return cmp.Compare(imag(ac), imag(bc))
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		}
		return 1
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		return cmp.Compare(a.Pointer(), b.Pointer())
	case reflect.Struct:
		for i := range a.NumField() {
			if c := compareKeys(a.Field(i), b.Field(i)); c != 0 {
				return c
			}
		}
		return 0
	case reflect.Array:
		for i := range a.Len() {
			if c := compareKeys(a.Index(i), b.Index(i)); c != 0 {
				return c
			}
		}
		return 0
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return cmp.Compare(boolRank(!a.IsNil()), boolRank(!b.IsNil()))
		}
		at, bt := a.Elem().Type(), b.Elem().Type()
		if at != bt {
			return cmp.Compare(at.String(), bt.String())
		}
		return compareKeys(a.Elem(), b.Elem())
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// pointer renders a shared reference. The pointee is always rendered
// inline so it never receives a binding of its own; the resulting
// allocation expression is what gets interned. With PointerIdentity the
// allocation is bound per address instead of per rendered text.
func (e *Emitter) pointer(v reflect.Value, unique bool) Code {
	t := v.Type()
	if v.IsNil() {
		return NewCode(jen.Parens(TypeCode(t)).Call(jen.Nil()), TypeCode(t))
	}
	key := pointerKey{ptr: v.Pointer(), typ: t}
	if e.cfg.PointerIdentity {
		if i, ok := e.ptrs[key]; ok {
			return e.handle(i, NewCode(nil, TypeCode(t)))
		}
	}
	leave, ok := e.enter(v)
	defer leave()
	if !ok {
		return NewCode(jen.Nil(), TypeCode(t))
	}
	pointee := e.value(v.Elem(), true, true)
	var alloc Code
	if pointee.literal {
		alloc = NewCode(jen.Op("&").Add(pointee.Expr()), TypeCode(t))
	} else {
		alloc = NewCode(jen.Func().Params().Add(TypeCode(t)).Block(
			jen.Id("v").Op(":=").Add(pointee.Expr()),
			jen.Return(jen.Op("&").Id("v")),
		).Call(), TypeCode(t))
	}
	if e.cfg.PointerIdentity {
		i := e.bind(alloc, nil)
		e.ptrs[key] = i
		return e.handle(i, alloc)
	}
	return e.AddCode(alloc, nil, unique)
}

// structure renders a struct without its own Codegen implementation by
// driving the named builder over its fields in declaration order.
func (e *Emitter) structure(v reflect.Value, unique bool) Code {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !e.settable(f) && !v.Field(i).IsZero() {
			return e.Unsupported(t, fmt.Sprintf("unexported field %s.%s cannot be set from another package", t, f.Name))
		}
	}
	b := newNamed(TypeCode(t), t.String(), unique)
	for i := range t.NumField() {
		f := t.Field(i)
		if !e.settable(f) || f.Name == "_" {
			continue
		}
		b.field(e, f.Name, e.value(fieldValue(v, i), unique, true))
	}
	return b.Build(e)
}

// settable reports whether a composite literal in the output package may
// set field f.
func (e *Emitter) settable(f reflect.StructField) bool {
	return f.IsExported() || (e.cfg.Package != "" && f.PkgPath == e.cfg.Package)
}

// fieldValue returns field i of v in a form that may be converted back to
// an interface, which reflect forbids for unexported fields.
func fieldValue(v reflect.Value, i int) reflect.Value {
	f := v.Field(i)
	if f.CanInterface() {
		return f
	}
	if !v.CanAddr() {
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
		f = v.Field(i)
	}
	return reflect.NewAt(f.Type(), f.Addr().UnsafePointer()).Elem()
}
