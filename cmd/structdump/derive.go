package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/structdump/compiler/derive"
	"github.com/syssam/structdump/compiler/load"
)

func newDeriveCmd(a *app) *cobra.Command {
	var (
		output string
		header string
		names  []string
		tags   string
	)
	cmd := &cobra.Command{
		Use:   "derive [package]",
		Short: "Generate GenCode methods for the types of a package",
		Long: `Derive writes a GenCode method for every struct and enum of the package,
so their values render through builders. Sealed interfaces make their
implementations render as variants. The package defaults to the current
directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			lc := load.Config{Path: path, Names: names}
			if tags != "" {
				lc.BuildFlags = []string{"-tags", tags}
			}
			s, err := derive.Run(cmd.Context(), &derive.Config{
				Load:   lc,
				Output: output,
				Header: header,
				Logger: a.log,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range s.Types {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Kind, t.Sum)
			}
			for _, sk := range s.Skipped {
				fmt.Fprintf(tw, "%s\tskipped\t%s\n", sk.Name, sk.Reason)
			}
			return tw.Flush()
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&output, "output", "o", "", "file to write, "+derive.FileName+" in the package directory by default")
	fl.StringVar(&header, "header", "", "header comment of the generated file")
	fl.StringSliceVarP(&names, "types", "t", nil, "restrict generation to these types")
	fl.StringVar(&tags, "tags", "", "comma separated build tags")
	return cmd
}
