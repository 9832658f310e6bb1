// Package config loads server settings from the environment and the
// optional dataset schema from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"tidyserve/internal/table"
)

// Config holds server settings, read from TIDYSERVE_* environment
// variables.
type Config struct {
	Addr       string `envconfig:"ADDR" default:":8080"`
	DataFile   string `envconfig:"DATA_FILE" default:"data.csv"`
	SchemaFile string `envconfig:"SCHEMA_FILE"`
}

// Load populates Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("tidyserve", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Schema names the three long-table output fields and maps raw column
// names to the variable names served downstream. Example:
//
//	row_label: person
//	variable_label: treatment
//	value_label: result
//	rename:
//	  treatment_a: a
//	  treatment_b: b
type Schema struct {
	Labels table.Labels      `yaml:",inline"`
	Rename map[string]string `yaml:"rename"`
}

// DefaultSchema uses the default field labels and no renames.
func DefaultSchema() Schema {
	return Schema{Labels: table.DefaultLabels}
}

// LoadSchema reads a schema YAML file. An empty path means no schema
// file was configured and yields the defaults. Fields missing from the
// file keep their default values.
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("schema: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	return s, nil
}
