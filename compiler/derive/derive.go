// Package derive generates GenCode methods for the types of a package, so
// values of those types render through builders instead of reflection.
//
// Structs get a keyed literal, variants of a sealed interface render as
// variants of that interface, and enums render as their named constants.
package derive

import (
	"context"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/syssam/structdump/compiler/gen"
	"github.com/syssam/structdump/compiler/load"
)

// FileName is the default name of the generated file.
const FileName = "structdump_gen.go"

const pkg = "github.com/syssam/structdump"

// Config configures a derive run.
type Config struct {
	// Load selects the package and its types.
	Load load.Config
	// Output is the path of the generated file. Empty means FileName in
	// the package directory.
	Output string
	// Header overrides gen.DefaultHeader.
	Header string
	// Logger receives progress events. Nil discards them.
	Logger *zap.Logger
}

// Run loads the package, generates the methods and writes them. The output
// of a previous run is ignored while loading since it may no longer compile.
func Run(ctx context.Context, cfg *Config) (*load.Schema, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	lc := cfg.Load
	output := cfg.Output
	if output == "" {
		lc.Ignore = append(lc.Ignore, FileName)
	} else {
		lc.Ignore = append(lc.Ignore, output)
	}
	s, err := lc.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, sk := range s.Skipped {
		log.Debug("type skipped", zap.String("type", sk.Name), zap.String("reason", sk.Reason))
	}
	if len(s.Types) == 0 {
		log.Warn("no types to derive", zap.String("package", s.Path))
		return s, nil
	}
	if output == "" {
		output = filepath.Join(s.Dir, FileName)
	}
	f, err := Generate(s, cfg.Header)
	if err != nil {
		return nil, err
	}
	if err := gen.NewWriter(log).WriteJen(output, f); err != nil {
		return nil, err
	}
	log.Info("methods derived", zap.String("package", s.Path), zap.Int("types", len(s.Types)))
	return s, nil
}

// Generate returns a file declaring a GenCode method for every type of s.
// An empty header uses gen.DefaultHeader.
func Generate(s *load.Schema, header string) (*jen.File, error) {
	if s.Path == "" || s.Name == "" {
		return nil, gen.NewConfigError("Schema", s.Path, "schema has no package")
	}
	if header == "" {
		header = gen.DefaultHeader
	}
	f := jen.NewFilePathName(s.Path, s.Name)
	f.HeaderComment(header)
	f.ImportName(pkg, "structdump")
	for _, t := range s.Types {
		var body []jen.Code
		switch t.Kind {
		case load.KindStruct:
			body = structBody(s.Path, t)
		case load.KindVariant:
			body = variantBody(s.Path, t)
		case load.KindEnum:
			body = enumBody(s.Path, t)
		default:
			return nil, gen.NewGenerationError("derive", t.Name, "unknown kind "+t.Kind.String(), nil)
		}
		f.Commentf("%s renders v as a Go expression.", load.MethodName)
		f.Func().
			Params(jen.Id("v").Id(t.Name)).
			Id(load.MethodName).
			Params(jen.Id("e").Op("*").Qual(pkg, "Emitter"), jen.Id("unique").Bool()).
			Qual(pkg, "Code").
			Block(body...)
		f.Line()
	}
	return f, nil
}

func structBody(path string, t *load.Type) []jen.Code {
	if len(t.Fields) == 0 {
		b := jen.Qual(pkg, "Unit").Call(jen.Lit(path), jen.Lit(t.Name), jen.Id("unique"))
		return []jen.Code{jen.Return(b.Dot("Build").Call(jen.Id("e")))}
	}
	b := jen.Qual(pkg, "Named").Call(jen.Lit(path), jen.Lit(t.Name), jen.Id("unique"))
	return []jen.Code{jen.Return(fields(b, t))}
}

func variantBody(path string, t *load.Type) []jen.Code {
	b := jen.Qual(pkg, "Named").Call(jen.Lit(path), jen.Lit(t.Sum), jen.Id("unique")).
		Dot("Variant").Call(jen.Lit(t.Name))
	return []jen.Code{jen.Return(fields(b, t))}
}

// fields chains one Field call per struct field, each on its own line.
func fields(b *jen.Statement, t *load.Type) *jen.Statement {
	for _, fd := range t.Fields {
		b = b.Op(".").Line().Id("Field").Call(jen.Id("e"), jen.Lit(fd.Name), jen.Id("v").Dot(fd.Name))
	}
	return b.Op(".").Line().Id("Build").Call(jen.Id("e"))
}

// enumBody switches over the declared constants. Values without a
// constant fall back to reflection and render as conversions.
func enumBody(path string, t *load.Type) []jen.Code {
	cases := make([]jen.Code, 0, len(t.Values))
	for _, v := range t.Values {
		cases = append(cases, jen.Case(jen.Id(v.Name)).Block(
			jen.Return(jen.Qual(pkg, "Unit").Call(jen.Lit(path), jen.Lit(t.Name), jen.Id("unique")).
				Dot("Variant").Call(jen.Lit(v.Name)).
				Dot("Build").Call(jen.Id("e"))),
		))
	}
	return []jen.Code{
		jen.Switch(jen.Id("v")).Block(cases...),
		jen.Return(jen.Id("e").Dot("Reflect").Call(jen.Id("v"), jen.Id("unique"))),
	}
}
