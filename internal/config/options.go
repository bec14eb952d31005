package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Options controls an analysis run. It is read from lowerkit.yaml.
type Options struct {
	// Verbose enables trace output above 1.
	Verbose int `yaml:"verbose,omitempty"`

	// NewVarDef lowers default variable initialization through the
	// generic vardef primitive instead of default values/constructors.
	NewVarDef bool `yaml:"new_vardef,omitempty"`

	// ArrayIndexBase and TupleIndexBase are handed to the flow engine.
	ArrayIndexBase int `yaml:"array_index_base,omitempty"`
	TupleIndexBase int `yaml:"tuple_index_base,omitempty"`

	// Database is an optional SQLite file that receives installed
	// functions and their code.
	Database string `yaml:"database,omitempty"`

	// Trace receives verbose output. Defaults to stderr.
	Trace io.Writer `yaml:"-"`
}

// DefaultOptions returns options with defaults applied.
func DefaultOptions() *Options {
	o := &Options{ArrayIndexBase: 1, TupleIndexBase: 1}
	o.setDefaults()
	return o
}

// LoadConfig reads and parses a lowerkit.yaml file.
func LoadConfig(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses lowerkit.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Options, error) {
	o := Options{ArrayIndexBase: 1, TupleIndexBase: 1}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := o.validate(path); err != nil {
		return nil, err
	}
	o.setDefaults()
	if o.Database != "" && !filepath.IsAbs(o.Database) {
		o.Database = filepath.Join(filepath.Dir(path), o.Database)
	}
	return &o, nil
}

// FindConfig searches for lowerkit.yaml starting from dir and walking up
// to parent directories. Returns "" and nil error when none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (o *Options) validate(path string) error {
	if o.Verbose < 0 {
		return fmt.Errorf("%s: verbose must not be negative", path)
	}
	if o.ArrayIndexBase < 0 || o.ArrayIndexBase > 1 {
		return fmt.Errorf("%s: array_index_base must be 0 or 1", path)
	}
	if o.TupleIndexBase < 0 || o.TupleIndexBase > 1 {
		return fmt.Errorf("%s: tuple_index_base must be 0 or 1", path)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.Trace == nil {
		o.Trace = os.Stderr
	}
}
