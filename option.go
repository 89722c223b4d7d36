package structdump

import (
	"errors"
	"go/token"
	"maps"
	"reflect"

	"go.uber.org/zap"
)

// DefaultPrefix is the identifier prefix of emitted bindings.
const DefaultPrefix = "code"

// TypeFunc renders values of one specific Go type. It takes precedence over
// Codegen implementations and the kind-based shapes.
type TypeFunc func(e *Emitter, v reflect.Value, unique bool) Code

// Config holds the settings of one serialization session.
type Config struct {
	// Package is the import path of the package the generated expression
	// will be compiled in. Types from that package are rendered without a
	// qualifier and their unexported fields may be set.
	Package string

	// Prefix is the identifier prefix of emitted bindings.
	Prefix string

	// PointerIdentity keys pointer bindings by address instead of by the
	// rendered text of the pointee.
	PointerIdentity bool

	// MaxDepth limits the nesting depth of the value graph. Zero means no limit.
	MaxDepth int

	// Logger receives debug events about binding creation and reuse.
	Logger *zap.Logger

	// TypeFuncs maps Go types to their dedicated renderers.
	TypeFuncs map[reflect.Type]TypeFunc
}

// Option configures a serialization session.
type Option func(*Config) error

// WithPackage sets the import path of the package that will contain the output.
// For example: "github.com/org/project/data".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithPrefix sets the identifier prefix of emitted bindings.
func WithPrefix(prefix string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(prefix) {
			return NewConfigError("Prefix", prefix, "prefix must be a Go identifier")
		}
		c.Prefix = prefix
		return nil
	}
}

// WithPointerIdentity makes two pointers share one binding only when they
// point to the same allocation. By default pointers whose pointees render
// identically are merged.
//
// In this mode every non-nil pointer is bound, even when it is rendered
// with unique set, such as a pointer inside another pointer's pointee.
func WithPointerIdentity() Option {
	return func(c *Config) error {
		c.PointerIdentity = true
		return nil
	}
}

// WithMaxDepth limits how deep the value graph may be nested.
func WithMaxDepth(depth int) Option {
	return func(c *Config) error {
		if depth < 0 {
			return NewConfigError("MaxDepth", depth, "depth must not be negative")
		}
		c.MaxDepth = depth
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithTypeFunc registers fn as the renderer of values with the same type as sample.
func WithTypeFunc(sample any, fn TypeFunc) Option {
	return func(c *Config) error {
		if sample == nil {
			return NewConfigError("TypeFunc", nil, "sample value cannot be nil")
		}
		if fn == nil {
			return NewConfigError("TypeFunc", reflect.TypeOf(sample), "function cannot be nil")
		}
		if c.TypeFuncs == nil {
			c.TypeFuncs = make(map[reflect.Type]TypeFunc)
		}
		c.TypeFuncs[reflect.TypeOf(sample)] = fn
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Prefix:    DefaultPrefix,
		Logger:    zap.NewNop(),
		TypeFuncs: maps.Clone(knownTypes),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
