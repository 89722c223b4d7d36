// Package load discovers the type declarations of a Go package that can
// render themselves through generated GenCode methods.
package load

import (
	"cmp"
	"context"
	"fmt"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/tools/go/packages"
)

// MethodName is the name of the method generated for each type.
const MethodName = "GenCode"

// Config configures the loading of one package.
type Config struct {
	// Path is the package pattern to load, such as "./model" or an import path.
	Path string
	// Dir is the directory the pattern is resolved in. Empty means the
	// current directory.
	Dir string
	// BuildFlags are passed to the go command.
	BuildFlags []string
	// Ignore lists files whose declarations are ignored, typically the
	// output of a previous run that may no longer compile. Entries without
	// a directory match files of the package by base name.
	Ignore []string
	// Names restricts discovery to the given type names.
	Names []string
}

// Load type-checks the package and returns its type shapes.
func (c *Config) Load(ctx context.Context) (*Schema, error) {
	if c.Path == "" {
		return nil, NewLoadError("", "missing package path", nil)
	}
	overlay, err := c.overlay(ctx)
	if err != nil {
		return nil, err
	}
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedTypes,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
		Overlay:    overlay,
	}
	pkgs, err := packages.Load(cfg, c.Path)
	if err != nil {
		return nil, NewLoadError(c.Path, "", err)
	}
	if len(pkgs) != 1 {
		return nil, NewLoadError(c.Path, fmt.Sprintf("pattern matched %d packages, expected one", len(pkgs)), nil)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, &LoadError{Path: pkg.PkgPath, Errs: pkg.Errors}
	}
	if pkg.Types == nil {
		return nil, NewLoadError(c.Path, "no type information", nil)
	}
	b := &builder{pkg: pkg, names: c.Names}
	return b.build(), nil
}

// overlay replaces each ignored file with its bare package clause so the
// package type-checks without the declarations it held.
func (c *Config) overlay(ctx context.Context) (map[string][]byte, error) {
	paths, err := c.ignored(ctx)
	if err != nil || len(paths) == 0 {
		return nil, err
	}
	overlay := make(map[string][]byte, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.PackageClauseOnly)
		if err != nil {
			return nil, NewLoadError(c.Path, "read ignored file", err)
		}
		overlay[path] = []byte("package " + f.Name.Name + "\n")
	}
	return overlay, nil
}

// ignored resolves the Ignore entries to absolute paths. Bare file names
// need the file list of the package, which costs one extra go list run.
func (c *Config) ignored(ctx context.Context) ([]string, error) {
	var paths, bases []string
	for _, name := range c.Ignore {
		if filepath.Base(name) != name {
			path, err := filepath.Abs(name)
			if err != nil {
				return nil, NewLoadError(c.Path, "resolve ignored file", err)
			}
			paths = append(paths, path)
			continue
		}
		bases = append(bases, name)
	}
	if len(bases) == 0 {
		return paths, nil
	}
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
	}
	pkgs, err := packages.Load(cfg, c.Path)
	if err != nil {
		return nil, NewLoadError(c.Path, "list files", err)
	}
	for _, pkg := range pkgs {
		for _, file := range slices.Concat(pkg.GoFiles, pkg.IgnoredFiles) {
			if slices.Contains(bases, filepath.Base(file)) {
				paths = append(paths, file)
			}
		}
	}
	return paths, nil
}

type builder struct {
	pkg   *packages.Package
	names []string
}

func (b *builder) build() *Schema {
	s := &Schema{Path: b.pkg.PkgPath, Name: b.pkg.Name}
	if len(b.pkg.GoFiles) > 0 {
		s.Dir = filepath.Dir(b.pkg.GoFiles[0])
	}
	objs := b.typeNames()
	sums := make(map[*types.Named]*Sum)
	var order []*types.Named
	for _, obj := range objs {
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if iface, ok := named.Underlying().(*types.Interface); ok && sealed(iface) {
			sum := &Sum{Name: obj.Name()}
			sums[named] = sum
			order = append(order, named)
			s.Sums = append(s.Sums, sum)
		}
	}
	for _, obj := range objs {
		if !b.selected(obj.Name()) {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		switch u := named.Underlying().(type) {
		case *types.Struct:
			if skip := b.skipReason(named); skip != "" {
				s.Skipped = append(s.Skipped, &Skipped{Name: obj.Name(), Reason: skip})
				continue
			}
			t := &Type{Name: obj.Name(), Kind: KindStruct, Pos: b.pos(obj), Fields: b.fields(u)}
			for _, sn := range order {
				if implements(named, sn.Underlying().(*types.Interface)) {
					t.Kind, t.Sum = KindVariant, sn.Obj().Name()
					sums[sn].Variants = append(sums[sn].Variants, t.Name)
					break
				}
			}
			s.Types = append(s.Types, t)
		case *types.Basic:
			if u.Info()&(types.IsInteger|types.IsString) == 0 {
				continue
			}
			values := b.constants(named)
			if len(values) == 0 {
				continue
			}
			if skip := b.skipReason(named); skip != "" {
				s.Skipped = append(s.Skipped, &Skipped{Name: obj.Name(), Reason: skip})
				continue
			}
			s.Types = append(s.Types, &Type{Name: obj.Name(), Kind: KindEnum, Pos: b.pos(obj), Values: values})
		}
	}
	return s
}

// typeNames returns the type declarations of the package in source order.
func (b *builder) typeNames() []*types.TypeName {
	scope := b.pkg.Types.Scope()
	var objs []*types.TypeName
	for _, name := range scope.Names() {
		if obj, ok := scope.Lookup(name).(*types.TypeName); ok && !obj.IsAlias() {
			objs = append(objs, obj)
		}
	}
	slices.SortFunc(objs, func(x, y *types.TypeName) int { return cmp.Compare(x.Pos(), y.Pos()) })
	return objs
}

func (b *builder) selected(name string) bool {
	return len(b.names) == 0 || slices.Contains(b.names, name)
}

func (b *builder) skipReason(named *types.Named) string {
	if named.TypeParams().Len() > 0 {
		return "generic types are rendered by reflection"
	}
	for i := range named.NumMethods() {
		if named.Method(i).Name() == MethodName {
			return "declares " + MethodName
		}
	}
	return ""
}

func (b *builder) fields(st *types.Struct) []*Field {
	fields := make([]*Field, 0, st.NumFields())
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Name() == "_" {
			continue
		}
		fields = append(fields, &Field{
			Name:     f.Name(),
			Type:     types.TypeString(f.Type(), types.RelativeTo(b.pkg.Types)),
			Embedded: f.Embedded(),
		})
	}
	return fields
}

// constants returns the typed constants of named in source order. Later
// constants repeating an earlier value are dropped.
func (b *builder) constants(named *types.Named) []*Value {
	scope := b.pkg.Types.Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(x, y *types.Const) int { return cmp.Compare(x.Pos(), y.Pos()) })
	values := make([]*Value, 0, len(consts))
	for i, c := range consts {
		dup := slices.ContainsFunc(consts[:i], func(p *types.Const) bool {
			return constant.Compare(p.Val(), token.EQL, c.Val())
		})
		if !dup {
			values = append(values, &Value{Name: c.Name(), Value: c.Val().ExactString()})
		}
	}
	return values
}

func (b *builder) pos(obj types.Object) string {
	return b.pkg.Fset.Position(obj.Pos()).String()
}

// sealed reports whether iface has an unexported method, which limits its
// implementations to the declaring package.
func sealed(iface *types.Interface) bool {
	for i := range iface.NumMethods() {
		if !iface.Method(i).Exported() {
			return true
		}
	}
	return false
}

func implements(named *types.Named, iface *types.Interface) bool {
	return types.Implements(named, iface) || types.Implements(types.NewPointer(named), iface)
}
