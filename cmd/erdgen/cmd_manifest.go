package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
)

// manifestCmd prints the module manifest of a schema file.
func manifestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest <schema file>",
		Short: "Print the module manifest of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings(cmd)
			if err != nil {
				return err
			}
			doc, err := load.Load(args[0])
			if err != nil {
				return err
			}
			sch, r, err := gen.Generate(cmd.Context(), doc, s.opts...)
			if err != nil {
				if r != nil && r.HasErrors() {
					printResult(newPrinter(cmd.ErrOrStderr()), args[0], r)
					return errIssues
				}
				return err
			}
			return gen.Encode(cmd.OutOrStdout(), gen.BuildManifest(sch, s.inflector), s.format)
		},
	}
}
