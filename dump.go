package structdump

import (
	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
)

// Dump renders v as a single Go expression that evaluates to a value equal
// to v. Repeated substructures are bound once and referenced by name.
func Dump(v any, opts ...Option) (*jen.Statement, error) {
	_, s, err := dump(v, opts...)
	return s, err
}

// DumpString is like Dump but returns the rendered source text. Package
// qualifiers are resolved against the imports of the session, so a package
// whose name is already taken by another import path gets a numbered name
// such as model1.
func DumpString(v any, opts ...Option) (string, error) {
	e, s, err := dump(v, opts...)
	if err != nil {
		return "", err
	}
	return e.render(s)
}

func dump(v any, opts ...Option) (*Emitter, *jen.Statement, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	e := NewEmitter(cfg)
	root := e.Value(v, false)
	s, err := e.Finalize(root)
	if err != nil {
		return nil, nil, err
	}
	e.log.Debug("value dumped", zap.Int("bindings", e.Len()))
	return e, s, nil
}
