package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/erdgen"
	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
	"github.com/syssam/erdgen/schema"
)

// normalizeCmd writes the normalized schema and module manifest of each
// schema file.
func normalizeCmd(a *app) *cobra.Command {
	var (
		outDir string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "normalize [schema files...]",
		Short: "Write normalized schemas and module manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				s.outDir = outDir
			}
			files, err := s.files(args)
			if err != nil {
				return err
			}

			var (
				errs  []error
				docs  []*schema.Document
				names []string
			)
			for _, file := range files {
				doc, err := load.Load(file)
				if err != nil {
					errs = append(errs, &erdgen.LoadError{Path: file, Err: err})
					continue
				}
				docs = append(docs, doc)
				names = append(names, file)
			}
			outs, err := gen.GenerateAll(cmd.Context(), docs, s.opts...)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			w := gen.NewWriter(s.outDir, s.format).WithInflector(s.inflector).WithWorkers(s.workers)
			for i, out := range outs {
				file := names[i]
				if out.Err != nil {
					if out.Validation != nil && out.Validation.HasErrors() {
						printResult(newPrinter(cmd.ErrOrStderr()), file, out.Validation)
					}
					errs = append(errs, fmt.Errorf("%s: %w", file, out.Err))
					continue
				}
				if stdout {
					if err := gen.Encode(cmd.OutOrStdout(), out.Schema, s.format); err != nil {
						return err
					}
					continue
				}
				paths, err := w.Write(cmd.Context(), baseName(file), out.Schema)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				p.file(file)
				for _, path := range paths {
					p.success("wrote %s", path)
				}
			}
			m := w.Metrics()
			s.logger.Debug("normalize finished", "schemas", len(files), "files", m.FilesWritten, "bytes", m.TotalBytes)
			return erdgen.NewAggregateError(errs...)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config, ./generated)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print normalized schemas to stdout")

	return cmd
}

// baseName returns the file name of path without its extension.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
