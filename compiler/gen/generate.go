package gen

import (
	"bytes"
	"context"
	"go/token"
	"slices"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/structdump"
)

// Target is a value written to the generated file as a package variable.
type Target struct {
	// Name is the identifier of the variable.
	Name string
	// Doc is an optional comment placed above the declaration.
	Doc string
	// Value is the value the variable evaluates to.
	Value any
}

// Generate dumps every target and writes them to cfg.Output.
func Generate(ctx context.Context, cfg *Config, targets ...Target) error {
	if cfg.Output == "" {
		return NewConfigError("Output", nil, "missing output path")
	}
	src, err := Render(ctx, cfg, targets...)
	if err != nil {
		return err
	}
	return NewWriter(cfg.logger()).Write(cfg.Output, src)
}

// Render dumps every target and returns the unformatted file source.
// Values are dumped in parallel, one session each, and declared in the
// order they were given.
func Render(ctx context.Context, cfg *Config, targets ...Target) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	log := cfg.logger()
	exprs := make([]*jen.Statement, len(targets))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())
	for i, t := range targets {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			opts := append(slices.Clone(cfg.DumpOptions),
				structdump.WithPackage(cfg.Package),
				structdump.WithLogger(log.With(zap.String("target", t.Name))),
			)
			s, err := structdump.Dump(t.Value, opts...)
			if err != nil {
				return NewGenerationError("dump", t.Name, "", err)
			}
			exprs[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	f := newFile(cfg)
	for i, t := range targets {
		if t.Doc != "" {
			f.Comment(t.Doc)
		}
		f.Var().Id(t.Name).Op("=").Add(exprs[i])
		f.Line()
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", cfg.Output, "", err)
	}
	log.Debug("file rendered", zap.Int("targets", len(targets)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// newFile creates a new Jennifer file with the header comment.
func newFile(cfg *Config) *jen.File {
	var f *jen.File
	if cfg.PackageName != "" {
		f = jen.NewFilePathName(cfg.Package, cfg.PackageName)
	} else {
		f = jen.NewFilePath(cfg.Package)
	}
	if cfg.Header != "" {
		f.HeaderComment(cfg.Header)
	}
	return f
}

func validateTargets(targets []Target) error {
	if len(targets) == 0 {
		return NewValidationError("", nil, "no targets")
	}
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		switch {
		case !token.IsIdentifier(t.Name) || t.Name == "_":
			return NewValidationError(t.Name, t.Name, "name is not a Go identifier")
		case seen[t.Name]:
			return NewValidationError(t.Name, nil, "declared twice")
		case t.Value == nil:
			return NewValidationError(t.Name, nil, "value is nil")
		}
		seen[t.Name] = true
	}
	return nil
}
