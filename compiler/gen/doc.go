// Package gen writes dumped values to Go source files.
//
// Each Target becomes a package level variable whose initializer is the
// expression produced by structdump.Dump:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithPackage("example.com/app/data"),
//	    gen.WithOutput("data/table.go"),
//	)
//	err = gen.Generate(ctx, cfg,
//	    gen.Target{Name: "Table", Doc: "Table is the lookup table.", Value: table},
//	)
//
// Targets are dumped in parallel, each in its own session, and declared in
// the order they were given, so the output does not depend on scheduling.
//
// # Writing
//
// Writer formats sources with goimports before writing them. A source that
// fails to format is kept next to its destination with an ".error" suffix.
// Files whose formatted content did not change are not rewritten.
//
// # Errors
//
//   - ConfigError: an option was invalid or a required one is missing
//   - ValidationError: a target cannot be declared
//   - GenerationError: dumping, rendering, formatting or writing failed
package gen
