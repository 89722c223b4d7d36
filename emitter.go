package structdump

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
)

// Emitter accumulates the bindings of one serialization session and
// deduplicates them by their exact rendered text.
//
// An Emitter is created per top-level serialization and must not be
// shared between goroutines.
type Emitter struct {
	cfg    *Config
	prefix string
	log    *zap.Logger
	file   *jen.File // import registry used for rendering cache keys

	bindings []binding
	codes    map[string]int     // rendered text -> binding index
	ptrs     map[pointerKey]int // address -> binding index (PointerIdentity)
	active   map[pointerKey]bool
	depth    int
	err      error
}

type binding struct {
	name string
	expr jen.Code
	typ  jen.Code // declared type annotation, nil for short declarations
}

// statement returns the declaration of the binding.
func (b binding) statement() *jen.Statement {
	if b.typ != nil {
		return jen.Var().Id(b.name).Add(b.typ).Op("=").Add(b.expr)
	}
	return jen.Id(b.name).Op(":=").Add(b.expr)
}

// pointerKey identifies a reference-like value by address and type.
type pointerKey struct {
	ptr uintptr
	typ reflect.Type
}

// NewEmitter returns an empty Emitter. A nil config uses the defaults.
func NewEmitter(cfg *Config) *Emitter {
	if cfg == nil {
		cfg = MustNewConfig()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	file := jen.NewFile("")
	if cfg.Package != "" {
		file = jen.NewFilePath(cfg.Package)
	}
	return &Emitter{
		cfg:    cfg,
		prefix: prefix,
		log:    logger,
		file:   file,
		codes:  make(map[string]int),
		ptrs:   make(map[pointerKey]int),
		active: make(map[pointerKey]bool),
	}
}

// AddCode interns code and returns a reference to its binding.
// If unique is true, code is returned unchanged and the cache is neither
// consulted nor updated. Otherwise code with the same rendered text as an
// earlier call resolves to the earlier binding. A non-nil annotation is
// written as the declared type of a newly created binding.
func (e *Emitter) AddCode(code Code, annotation jen.Code, unique bool) Code {
	if unique || code.IsZero() {
		return code
	}
	text, err := e.render(code.Expr())
	if err != nil {
		e.Fail(err)
		return code
	}
	if i, ok := e.codes[text]; ok {
		e.log.Debug("binding reused", zap.String("name", e.bindings[i].name))
		return e.handle(i, code)
	}
	i := e.bind(code, annotation)
	e.codes[text] = i
	e.log.Debug("binding created",
		zap.String("name", e.bindings[i].name),
		zap.Int("bytes", len(text)))
	return e.handle(i, code)
}

// Lookup returns the name of the binding holding the rendered text of code.
func (e *Emitter) Lookup(code Code) (string, bool) {
	text, err := e.render(code.Expr())
	if err != nil {
		return "", false
	}
	i, ok := e.codes[text]
	if !ok {
		return "", false
	}
	return e.bindings[i].name, true
}

// Len returns the number of bindings emitted so far.
func (e *Emitter) Len() int {
	return len(e.bindings)
}

// Config returns the session configuration.
func (e *Emitter) Config() *Config {
	return e.cfg
}

// Err returns the first generation error recorded by the session.
func (e *Emitter) Err() error {
	return e.err
}

// Fail records err as the session error. Only the first error is kept.
func (e *Emitter) Fail(err error) {
	if err == nil || e.err != nil {
		return
	}
	e.log.Debug("generation failed", zap.Error(err))
	e.err = err
}

// Finalize returns the bindings followed by root as one Go expression.
// With no bindings the root expression itself is returned. Otherwise the
// bindings are declared in creation order inside an immediately invoked
// function literal that returns root.
func (e *Emitter) Finalize(root Code) (*jen.Statement, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.bindings) == 0 {
		return root.Expr(), nil
	}
	if root.typ == nil {
		return nil, ErrUntypedRoot
	}
	body := make([]jen.Code, 0, len(e.bindings)+1)
	for _, b := range e.bindings {
		body = append(body, b.statement())
	}
	body = append(body, jen.Return(root.Expr()))
	return jen.Func().Params().Add(root.Type()).Block(body...).Call(), nil
}

// bind appends a binding for code and returns its index.
func (e *Emitter) bind(code Code, annotation jen.Code) int {
	i := len(e.bindings)
	e.bindings = append(e.bindings, binding{
		name: e.prefix + strconv.Itoa(i),
		expr: code.expr,
		typ:  annotation,
	})
	return i
}

// handle returns the expression that refers to binding i.
func (e *Emitter) handle(i int, code Code) Code {
	b := e.bindings[i]
	typ := code.typ
	if b.typ != nil {
		typ = b.typ
	}
	return NewCode(jen.Id(b.name), typ)
}

// render returns the exact text of s. Package qualifiers are resolved
// against the session file so distinct import paths never share a name.
func (e *Emitter) render(s *jen.Statement) (string, error) {
	return renderExpr(s, e.file)
}

// renderExpr formats s as the right-hand side of an assignment, since
// go/format rejects a bare expression that starts with a function literal.
func renderExpr(s *jen.Statement, file *jen.File) (string, error) {
	var buf bytes.Buffer
	if err := jen.Id("_").Op("=").Add(s).RenderWithFile(&buf, file); err != nil {
		return "", fmt.Errorf("structdump: render expression: %w", err)
	}
	return strings.TrimPrefix(buf.String(), "_ = "), nil
}
