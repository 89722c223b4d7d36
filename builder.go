package structdump

import (
	"go/token"

	"github.com/dave/jennifer/jen"
)

// composite holds the state shared by the builders: the type being
// constructed, its optional variant, the fields emitted so far and the
// sharing mode inherited from the value being rendered.
type composite struct {
	pkgPath string
	name    string   // type name used in error messages
	typ     jen.Code // static type of the constructed value
	ctor    jen.Code // expression the literal braces follow
	unique  bool
	fields  []jen.Code
	seen    map[string]bool
	err     error
}

func newComposite(pkgPath, typeName string, unique bool) composite {
	c := composite{
		pkgPath: pkgPath,
		name:    typeName,
		typ:     qualified(pkgPath, typeName),
		ctor:    qualified(pkgPath, typeName),
		unique:  unique,
	}
	if !token.IsIdentifier(typeName) {
		c.fail("", "type name is not a Go identifier")
	}
	return c
}

func qualified(pkgPath, name string) *jen.Statement {
	if pkgPath == "" {
		return jen.Id(name)
	}
	return jen.Qual(pkgPath, name)
}

func (c *composite) fail(field, message string) {
	if c.err == nil {
		c.err = NewBuilderError(c.name, field, message)
	}
}

// variant switches the constructor to the concrete variant type tag
// declared next to the sum type.
func (c *composite) variant(tag string) {
	if !token.IsIdentifier(tag) {
		c.fail("", "variant "+tag+" is not a Go identifier")
		return
	}
	c.name += "." + tag
	c.typ = qualified(c.pkgPath, tag)
	c.ctor = qualified(c.pkgPath, tag)
}

// build interns the literal under the inherited sharing mode.
func (c *composite) build(e *Emitter, elems []jen.Code) Code {
	if c.err != nil {
		e.Fail(c.err)
	}
	lit := literalCode(jen.Add(c.ctor).Values(elems...), c.typ)
	return e.AddCode(lit, nil, c.unique)
}

// NamedBuilder assembles a struct literal with keyed fields.
type NamedBuilder struct {
	composite
}

// Named returns a builder for the struct type typeName declared in pkgPath.
// An empty pkgPath refers to the package the output is compiled in.
func Named(pkgPath, typeName string, unique bool) *NamedBuilder {
	return &NamedBuilder{composite: newComposite(pkgPath, typeName, unique)}
}

// newNamed returns a builder for an arbitrary struct type expression, such
// as an anonymous struct or a generic instantiation.
func newNamed(typ jen.Code, name string, unique bool) *NamedBuilder {
	return &NamedBuilder{composite: composite{name: name, typ: typ, ctor: typ, unique: unique}}
}

// Variant makes the builder construct the variant struct tag of the sum
// type instead of the type itself.
func (b *NamedBuilder) Variant(tag string) *NamedBuilder {
	b.variant(tag)
	return b
}

// Field renders v under the builder's sharing mode and appends it as the
// value of field name. Fields must be added in declaration order.
func (b *NamedBuilder) Field(e *Emitter, name string, v any) *NamedBuilder {
	if !token.IsIdentifier(name) {
		b.fail(name, "field name is not a Go identifier")
		return b
	}
	if !token.IsExported(name) && b.pkgPath != e.cfg.Package {
		b.fail(name, "unexported field cannot be set outside package "+b.pkgPath)
		return b
	}
	b.field(e, name, e.Value(v, b.unique))
	return b
}

func (b *NamedBuilder) field(_ *Emitter, name string, c Code) {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[name] {
		b.fail(name, "field set twice")
		return
	}
	b.seen[name] = true
	b.fields = append(b.fields, jen.Id(name).Op(":").Add(c.Expr()))
}

// Build returns the struct literal, interned under the builder's sharing mode.
func (b *NamedBuilder) Build(e *Emitter) Code {
	return b.build(e, b.fields)
}

// PositionalBuilder assembles a struct literal whose fields are given in
// declaration order without keys.
type PositionalBuilder struct {
	composite
}

// Positional returns a builder for the struct type typeName declared in pkgPath.
func Positional(pkgPath, typeName string, unique bool) *PositionalBuilder {
	return &PositionalBuilder{composite: newComposite(pkgPath, typeName, unique)}
}

func newPositional(typ jen.Code, name string, unique bool) *PositionalBuilder {
	return &PositionalBuilder{composite: composite{name: name, typ: typ, ctor: typ, unique: unique}}
}

// Variant makes the builder construct the variant struct tag of the sum
// type instead of the type itself.
func (b *PositionalBuilder) Variant(tag string) *PositionalBuilder {
	b.variant(tag)
	return b
}

// Field renders v under the builder's sharing mode and appends it as the
// next field.
func (b *PositionalBuilder) Field(e *Emitter, v any) *PositionalBuilder {
	b.fields = append(b.fields, e.Value(v, b.unique).Expr())
	return b
}

// Build returns the struct literal, interned under the builder's sharing mode.
func (b *PositionalBuilder) Build(e *Emitter) Code {
	return b.build(e, b.fields)
}

// UnitBuilder produces values without fields: an empty struct literal, or
// the named constant of an enum-like type when a variant is set.
type UnitBuilder struct {
	composite
	tag string
}

// Unit returns a builder for the type typeName declared in pkgPath.
func Unit(pkgPath, typeName string, unique bool) *UnitBuilder {
	return &UnitBuilder{composite: newComposite(pkgPath, typeName, unique)}
}

// Variant selects the constant tag declared next to the type.
// The static type of the result stays the type itself.
func (b *UnitBuilder) Variant(tag string) *UnitBuilder {
	if !token.IsIdentifier(tag) {
		b.fail("", "variant "+tag+" is not a Go identifier")
		return b
	}
	b.tag = tag
	return b
}

// Build returns the unit value, interned under the builder's sharing mode.
func (b *UnitBuilder) Build(e *Emitter) Code {
	if b.tag == "" {
		return b.build(e, nil)
	}
	if b.err != nil {
		e.Fail(b.err)
	}
	return e.AddCode(NewCode(qualified(b.pkgPath, b.tag), b.typ), nil, b.unique)
}
