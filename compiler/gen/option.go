package gen

import (
	"errors"
	"go/token"
	"runtime"

	"go.uber.org/zap"

	"github.com/syssam/structdump"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by structdump. DO NOT EDIT."

// Config holds the settings of a file generation.
type Config struct {
	// Package is the import path of the package the file belongs to.
	Package string
	// PackageName is the package clause name. Empty means the name is
	// derived from Package.
	PackageName string
	// Output is the path of the generated file.
	Output string
	// Header is the comment written above the package clause.
	Header string
	// Workers limits how many values are dumped in parallel.
	Workers int
	// DumpOptions are applied to the session of every value.
	DumpOptions []structdump.Option
	// Logger receives generation events.
	Logger *zap.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the output package import path.
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

// WithPackageName sets the package clause name of the generated file.
func WithPackageName(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return NewConfigError("PackageName", name, "package name must be a Go identifier")
		}
		c.PackageName = name
		return nil
	}
}

// WithOutput sets the path of the generated file.
func WithOutput(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Output", nil, "output path cannot be empty")
		}
		c.Output = path
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of the generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of values dumped in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithDumpOptions adds options applied to the session of every value.
func WithDumpOptions(opts ...structdump.Option) Option {
	return func(c *Config) error {
		c.DumpOptions = append(c.DumpOptions, opts...)
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
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  zap.NewNop(),
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

// validate reports missing required settings.
func (c *Config) validate() error {
	if c.Package == "" {
		return NewConfigError("Package", nil, "missing output package")
	}
	return nil
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
