package main

import (
	"errors"

	"github.com/syssam/erdgen"
	"github.com/syssam/erdgen/compiler/gen"
)

// hint returns a follow-up suggestion for err, or "" when there is none.
func hint(err error) string {
	switch {
	case errors.Is(err, errIssues):
		return ""
	case gen.IsConfigError(err):
		return "check the settings in erdgen.yaml, ERDGEN_* variables and flags"
	case erdgen.IsLoadError(err):
		return "the file must be a JSON or YAML schema document"
	case gen.IsEdgeError(err), gen.IsJunctionError(err), gen.IsSchemaError(err):
		return "run 'erdgen validate' for a full report"
	case gen.IsGenerationError(err):
		return "check that the output directory is writable"
	}
	return ""
}
