package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/go-openapi/inflect"
	"github.com/go-playground/validator/v10"
)

// project is the description of one generated file. It is read from a
// TOML file and completed by command line flags.
type project struct {
	Package         string    `toml:"package" validate:"required"`
	PackageName     string    `toml:"package_name"`
	Output          string    `toml:"output"`
	Format          string    `toml:"format" validate:"omitempty,oneof=json yaml yml toml msgpack mp mpk"`
	Prefix          string    `toml:"prefix"`
	PointerIdentity bool      `toml:"pointer_identity"`
	MaxDepth        int       `toml:"max_depth" validate:"gte=0"`
	Workers         int       `toml:"workers" validate:"gte=0"`
	Targets         []*target `toml:"target" validate:"dive"`
	Queries         []*query  `toml:"query" validate:"dive"`
}

// target is a data file declared as a variable.
type target struct {
	Name   string `toml:"name"`
	File   string `toml:"file" validate:"required"`
	Format string `toml:"format" validate:"omitempty,oneof=json yaml yml toml msgpack mp mpk"`
	Doc    string `toml:"doc"`
}

// query is a SQL query whose rows are declared as a variable.
type query struct {
	Name   string `toml:"name" validate:"required"`
	Driver string `toml:"driver" validate:"required,oneof=sqlite sqlite3 mysql postgres postgresql pg"`
	DSN    string `toml:"dsn" validate:"required"`
	Query  string `toml:"query" validate:"required"`
	Doc    string `toml:"doc"`
}

var validate = validator.New()

// loadProject decodes the TOML file at path. Relative file paths in it
// are resolved against the directory of path.
func loadProject(path string) (*project, error) {
	var p project
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(names, ", "))
	}
	dir := filepath.Dir(path)
	if p.Output != "" && !filepath.IsAbs(p.Output) {
		p.Output = filepath.Join(dir, p.Output)
	}
	for _, t := range p.Targets {
		if t.File != "" && !filepath.IsAbs(t.File) {
			t.File = filepath.Join(dir, t.File)
		}
	}
	return &p, nil
}

// check validates p and fills in the variable names of targets.
func (p *project) check() error {
	for _, t := range p.Targets {
		if t.Name == "" {
			t.Name = targetName(t.File)
		}
	}
	if len(p.Targets)+len(p.Queries) == 0 {
		return errors.New("nothing to generate: no input files or queries")
	}
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fieldMessage(fe)
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "project.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// targetName derives a variable name from a file name:
// "user_roles.yaml" becomes UserRoles.
func targetName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, base)
	name := inflect.Camelize(base)
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "Data" + name
	}
	return name
}
