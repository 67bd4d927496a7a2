// Package main provides the erdgen command line tool.
//
// Usage:
//
//	erdgen validate schema.json          # Report schema issues
//	erdgen normalize -o out schema.json  # Write the normalized schema and manifest
//	erdgen manifest schema.json          # Print the module manifest
//	erdgen watch -o out schema.json      # Re-normalize on every change
//	erdgen version                       # Show version information
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// errIssues is returned when a command found schema errors it already printed.
var errIssues = errors.New("schema has errors")

// app holds the global flags.
type app struct {
	configFile string
	verbose    bool
	format     load.Format
	symmetry   gen.SymmetryPolicy
	inflector  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		newPrinter(os.Stderr).failure(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{format: load.JSON}
	root := &cobra.Command{
		Use:           "erdgen",
		Short:         "Schema transformation engine for ER models",
		Long:          `erdgen validates entity-relationship schema documents and normalizes them for the resource generators: relations get derived keys and inverses, and many-to-many relations get junction tables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", defaultConfigFile, "Path to config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.VarP(formatValue{f: &a.format}, "format", "f", "Output format (json, yaml)")
	pf.Var(symmetryValue{p: &a.symmetry}, "symmetry", "Symmetry policy (strict, advisory)")
	pf.Var(inflectorValue{name: &a.inflector}, "inflector", "Inflector (simple, dictionary)")

	root.AddCommand(
		validateCmd(a),
		normalizeCmd(a),
		manifestCmd(a),
		watchCmd(a),
		versionCmd(),
	)
	return root
}

// settings resolves the configuration of a command run.
func (a *app) settings(cmd *cobra.Command) (*settings, error) {
	cfg, err := loadConfig(a.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = a.format.String()
	}
	if flags.Changed("symmetry") {
		cfg.Symmetry = a.symmetry.String()
	}
	if flags.Changed("inflector") {
		cfg.Inflector = a.inflector
	}
	return cfg.settings(newLogger(cmd.ErrOrStderr(), a.verbose))
}

// newLogger returns a text logger on w. Verbose runs log at debug level.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
