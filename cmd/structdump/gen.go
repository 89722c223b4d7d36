package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/structdump"
	"github.com/syssam/structdump/compiler/gen"
	"github.com/syssam/structdump/internal/source"
)

type genFlags struct {
	config          string
	output          string
	pkg             string
	pkgName         string
	format          string
	prefix          string
	pointerIdentity bool
	maxDepth        int
	workers         int
	watch           bool
}

func newGenCmd(a *app) *cobra.Command {
	var f genFlags
	cmd := &cobra.Command{
		Use:   "gen [file...]",
		Short: "Declare the content of data files as Go variables",
		Long: `Gen decodes each data file and declares its content as a package
variable named after the file. Without --output the source is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.project(cmd, args)
			if err != nil {
				return err
			}
			if !f.watch {
				return a.generate(cmd, p)
			}
			if p.Output == "" {
				return errors.New("--watch requires an output file")
			}
			inputs := p.inputs(f.config)
			run := func() error {
				p, err := f.project(cmd, args)
				if err != nil {
					return err
				}
				return a.generate(cmd, p)
			}
			if err := run(); err != nil {
				a.log.Error("generation failed", zap.Error(err))
			}
			return watch(cmd.Context(), a.log, inputs, run)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML file describing the targets")
	fl.StringVarP(&f.output, "output", "o", "", "file to write")
	fl.StringVarP(&f.pkg, "package", "p", "", "import path of the generated package")
	fl.StringVar(&f.pkgName, "name", "", "package name, when it differs from the last path element")
	fl.StringVarP(&f.format, "format", "f", "", "format of the input files (json, yaml, toml, msgpack)")
	fl.StringVar(&f.prefix, "prefix", "", "prefix of the generated local variables")
	fl.BoolVar(&f.pointerIdentity, "pointer-identity", false, "share pointers by address instead of by content")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth, 0 for no limit")
	fl.IntVarP(&f.workers, "workers", "w", 0, "values dumped in parallel, 0 for one per CPU")
	fl.BoolVar(&f.watch, "watch", false, "regenerate when an input changes")
	return cmd
}

// project merges the config file, the flags that were set and the
// positional input files.
func (f *genFlags) project(cmd *cobra.Command, args []string) (*project, error) {
	p := &project{}
	if f.config != "" {
		var err error
		if p, err = loadProject(f.config); err != nil {
			return nil, err
		}
	}
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	set("output", &p.Output, f.output)
	set("package", &p.Package, f.pkg)
	set("name", &p.PackageName, f.pkgName)
	set("format", &p.Format, f.format)
	set("prefix", &p.Prefix, f.prefix)
	if fl.Changed("pointer-identity") {
		p.PointerIdentity = f.pointerIdentity
	}
	if fl.Changed("max-depth") {
		p.MaxDepth = f.maxDepth
	}
	if fl.Changed("workers") {
		p.Workers = f.workers
	}
	for _, path := range args {
		p.Targets = append(p.Targets, &target{File: path})
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

// inputs returns the files whose changes trigger a new run.
func (p *project) inputs(config string) []string {
	paths := make([]string, 0, len(p.Targets)+1)
	for _, t := range p.Targets {
		paths = append(paths, t.File)
	}
	if config != "" {
		paths = append(paths, config)
	}
	return paths
}

func (p *project) options(log *zap.Logger) []gen.Option {
	var dump []structdump.Option
	if p.Prefix != "" {
		dump = append(dump, structdump.WithPrefix(p.Prefix))
	}
	if p.PointerIdentity {
		dump = append(dump, structdump.WithPointerIdentity())
	}
	if p.MaxDepth > 0 {
		dump = append(dump, structdump.WithMaxDepth(p.MaxDepth))
	}
	opts := []gen.Option{
		gen.WithPackage(p.Package),
		gen.WithDumpOptions(dump...),
		gen.WithLogger(log),
	}
	if p.PackageName != "" {
		opts = append(opts, gen.WithPackageName(p.PackageName))
	}
	if p.Output != "" {
		opts = append(opts, gen.WithOutput(p.Output))
	}
	if p.Workers > 0 {
		opts = append(opts, gen.WithWorkers(p.Workers))
	}
	return opts
}

// targets decodes every input and runs every query.
func (p *project) targets(ctx context.Context, log *zap.Logger) ([]gen.Target, error) {
	targets := make([]gen.Target, 0, len(p.Targets)+len(p.Queries))
	for _, t := range p.Targets {
		format := source.Format(t.Format)
		if format == "" {
			format = source.Format(p.Format)
		}
		if format != "" {
			var err error
			if format, err = source.ParseFormat(string(format)); err != nil {
				return nil, err
			}
		}
		v, err := source.Load(t.File, format)
		if err != nil {
			return nil, err
		}
		doc := t.Doc
		if doc == "" {
			doc = fmt.Sprintf("%s holds the content of %s.", t.Name, filepath.Base(t.File))
		}
		log.Debug("input decoded", zap.String("file", t.File), zap.String("target", t.Name))
		targets = append(targets, gen.Target{Name: t.Name, Doc: doc, Value: v})
	}
	for _, q := range p.Queries {
		rows, err := runQuery(ctx, q)
		if err != nil {
			return nil, err
		}
		doc := q.Doc
		if doc == "" {
			doc = fmt.Sprintf("%s holds the result rows of a %s query.", q.Name, q.Driver)
		}
		log.Debug("query run", zap.String("target", q.Name), zap.Int("rows", len(rows)))
		targets = append(targets, gen.Target{Name: q.Name, Doc: doc, Value: rows})
	}
	return targets, nil
}

func runQuery(ctx context.Context, q *query) ([]map[string]any, error) {
	db, err := source.Open(ctx, q.Driver, q.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return source.Query(ctx, db, q.Query)
}

// generate writes the file described by p, or prints it when p has no
// output path.
func (a *app) generate(cmd *cobra.Command, p *project) error {
	ctx := cmd.Context()
	cfg, err := gen.NewConfig(p.options(a.log)...)
	if err != nil {
		return err
	}
	targets, err := p.targets(ctx, a.log)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		return gen.Generate(ctx, cfg, targets...)
	}
	src, err := gen.Render(ctx, cfg, targets...)
	if err != nil {
		return err
	}
	if src, err = gen.Format("structdump.go", src); err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(src)
	return err
}
