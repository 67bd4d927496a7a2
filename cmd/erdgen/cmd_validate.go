package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
)

// report is the JSON form of a validation result.
type report struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newReport(file string, r *gen.ValidationResult) report {
	rep := report{File: file, Valid: !r.HasErrors(), Errors: r.Messages(), Warnings: []string{}}
	if rep.Errors == nil {
		rep.Errors = []string{}
	}
	for _, w := range r.Warnings {
		rep.Warnings = append(rep.Warnings, w.Detail())
	}
	return rep
}

// validateCmd reports the issues of schema files.
func validateCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate [schema files...]",
		Short: "Validate schema files and report issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings(cmd)
			if err != nil {
				return err
			}
			files, err := s.files(args)
			if err != nil {
				return err
			}
			reports := make([]report, 0, len(files))
			p := newPrinter(cmd.OutOrStdout())
			for _, file := range files {
				doc, err := load.Load(file)
				if err != nil {
					reports = append(reports, report{File: file, Errors: []string{err.Error()}, Warnings: []string{}})
					if !jsonOutput {
						p.file(file)
						p.issue("error", styleError, "load", err.Error())
					}
					continue
				}
				r, err := gen.Validate(doc, s.opts...)
				if err != nil {
					return err
				}
				reports = append(reports, newReport(file, r))
				if !jsonOutput {
					printResult(p, file, r)
				}
			}
			if jsonOutput {
				if err := outputJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			}
			for _, rep := range reports {
				if !rep.Valid {
					return errIssues
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// printResult prints the issues of one file.
func printResult(p *printer, file string, r *gen.ValidationResult) {
	p.file(file)
	for _, e := range r.Errors {
		p.issue("error", styleError, e.Category.String(), e.Detail())
	}
	for _, w := range r.Warnings {
		p.issue("warning", styleWarning, w.Category.String(), w.Detail())
	}
	switch {
	case r.HasErrors():
		p.note("%d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
	case r.HasWarnings():
		p.success("valid with %d warning(s)", len(r.Warnings))
	default:
		p.success("valid")
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
