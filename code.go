package structdump

import "github.com/dave/jennifer/jen"

// Code is a single generated Go expression together with its static type.
// Code values are immutable; every accessor returns a fresh statement so
// callers may extend the result without affecting other users of the Code.
type Code struct {
	expr    jen.Code
	typ     jen.Code
	literal bool
}

// NewCode returns Code for expr whose static type is typ.
// typ may be nil when the type is not known.
func NewCode(expr, typ jen.Code) Code {
	return Code{expr: expr, typ: typ}
}

// literalCode returns Code for a composite literal expression.
// The address of a composite literal may be taken directly.
func literalCode(expr, typ jen.Code) Code {
	return Code{expr: expr, typ: typ, literal: true}
}

// Expr returns the expression.
func (c Code) Expr() *jen.Statement {
	if c.expr == nil {
		return jen.Nil()
	}
	return jen.Add(c.expr)
}

// Type returns the static type, or nil when it is not known.
func (c Code) Type() *jen.Statement {
	if c.typ == nil {
		return nil
	}
	return jen.Add(c.typ)
}

// IsZero reports whether c holds no expression.
func (c Code) IsZero() bool {
	return c.expr == nil
}

// GoString renders the expression. It panics if the expression does not
// format.
func (c Code) GoString() string {
	out, err := renderExpr(c.Expr(), jen.NewFile(""))
	if err != nil {
		panic(err)
	}
	return out
}
