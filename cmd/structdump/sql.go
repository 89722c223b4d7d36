package main

import (
	"github.com/spf13/cobra"
)

func newSQLCmd(a *app) *cobra.Command {
	var (
		q   query
		out genFlags
	)
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Declare the rows of a SQL query as a Go variable",
		Example: `  structdump sql --driver sqlite --dsn data.db \
    --query "SELECT code, name FROM countries" --name Countries \
    --package example.com/app/geo -o geo/countries.go`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &project{
				Package:     out.pkg,
				PackageName: out.pkgName,
				Output:      out.output,
				Prefix:      out.prefix,
				Workers:     1,
				Queries:     []*query{&q},
			}
			if err := p.check(); err != nil {
				return err
			}
			return a.generate(cmd, p)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&q.Driver, "driver", "sqlite", "database driver (sqlite, mysql, postgres)")
	fl.StringVar(&q.DSN, "dsn", "", "data source name")
	fl.StringVar(&q.Query, "query", "", "query to run")
	fl.StringVar(&q.Name, "var", "Rows", "name of the declared variable")
	fl.StringVarP(&out.output, "output", "o", "", "file to write")
	fl.StringVarP(&out.pkg, "package", "p", "", "import path of the generated package")
	fl.StringVar(&out.pkgName, "name", "", "package name, when it differs from the last path element")
	fl.StringVar(&out.prefix, "prefix", "", "prefix of the generated local variables")
	return cmd
}
