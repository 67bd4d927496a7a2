package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
	"github.com/syssam/erdgen/compiler/naming"
)

const defaultConfigFile = "erdgen.yaml"

// Config represents the erdgen.yaml configuration file.
type Config struct {
	Schemas         []string          `yaml:"schemas"`
	OutDir          string            `yaml:"out_dir"`
	Format          string            `yaml:"format"`
	Symmetry        string            `yaml:"symmetry"`
	Inflector       string            `yaml:"inflector"`
	BackfillInverse *bool             `yaml:"backfill_inverse"`
	Workers         int               `yaml:"workers"`
	Types           map[string]string `yaml:"types"`
	Irregular       map[string]string `yaml:"irregular"`
}

// loadConfig loads configuration from file and env vars. CLI flags are
// applied by the caller.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := &Config{OutDir: "./generated"}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg.OutDir = expandEnvVars(cfg.OutDir)
	for i, s := range cfg.Schemas {
		cfg.Schemas[i] = expandEnvVars(s)
	}

	if v := os.Getenv("ERDGEN_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("ERDGEN_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("ERDGEN_SYMMETRY"); v != "" {
		cfg.Symmetry = v
	}
	if v := os.Getenv("ERDGEN_INFLECTOR"); v != "" {
		cfg.Inflector = v
	}
	if v := os.Getenv("ERDGEN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ERDGEN_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// settings is the resolved configuration of a command run.
type settings struct {
	opts      []gen.Option
	inflector naming.Inflector
	format    load.Format
	outDir    string
	schemas   []string
	workers   int
	logger    *slog.Logger
}

func (c *Config) settings(logger *slog.Logger) (*settings, error) {
	s := &settings{
		format:  load.JSON,
		outDir:  c.OutDir,
		schemas: c.Schemas,
		workers: c.Workers,
		logger:  logger,
	}
	if c.Format != "" {
		f, err := load.ParseFormat(c.Format)
		if err != nil {
			return nil, err
		}
		s.format = f
	}
	inf, err := naming.ParseInflector(c.Inflector)
	if err != nil {
		return nil, err
	}
	if len(c.Irregular) > 0 {
		dict, ok := inf.(*naming.Dictionary)
		if !ok {
			return nil, fmt.Errorf("irregular plurals need the %s inflector", naming.DictionaryName)
		}
		for _, singular := range slices.Sorted(maps.Keys(c.Irregular)) {
			dict.AddIrregular(singular, c.Irregular[singular])
		}
	}
	s.inflector = inf
	policy, err := gen.ParseSymmetryPolicy(c.Symmetry)
	if err != nil {
		return nil, err
	}
	types := gen.DefaultTypeMap()
	for _, column := range slices.Sorted(maps.Keys(c.Types)) {
		types = types.With(column, c.Types[column])
	}
	s.opts = []gen.Option{
		gen.WithInflector(inf),
		gen.WithSymmetry(policy),
		gen.WithTypeMap(types),
		gen.WithLogger(logger),
	}
	if c.BackfillInverse != nil {
		s.opts = append(s.opts, gen.WithBackfillInverse(*c.BackfillInverse))
	}
	if c.Workers != 0 {
		s.opts = append(s.opts, gen.WithWorkers(c.Workers))
	}
	return s, nil
}

// files returns the schema files of a run: the arguments, or the schemas of
// the config file when there are none.
func (s *settings) files(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(s.schemas) == 0 {
		return nil, errors.New("no schema files (pass paths or set schemas in " + defaultConfigFile + ")")
	}
	return s.schemas, nil
}
