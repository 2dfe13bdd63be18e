package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"culiflow/internal/parser"
)

// Config models culiflow.yml. The alias tables feed the quick-add parser;
// entries here extend or override the built-in vocabulary.
type Config struct {
	Actor   string `yaml:"actor"`
	Board   struct {
		SnapshotTasks int `yaml:"snapshot_tasks"`
	} `yaml:"board"`
	Aliases struct {
		Stations   map[string]string `yaml:"stations"`
		Concepts   map[string]string `yaml:"concepts"`
		Compliance map[string]string `yaml:"compliance"`
	} `yaml:"aliases"`
}

// Default returns the built-in config: local actor, the stock kitchen alias
// tables, and a 20-task fast-boot snapshot.
func Default() *Config {
	cfg := &Config{Actor: "current-user"}
	cfg.Board.SnapshotTasks = 20
	cfg.Aliases.Stations = parser.DefaultStations()
	cfg.Aliases.Concepts = parser.DefaultConcepts()
	cfg.Aliases.Compliance = parser.DefaultCompliance()
	return cfg
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Actor == "" {
		return fmt.Errorf("config.actor is required")
	}
	if c.Board.SnapshotTasks < 0 {
		return fmt.Errorf("config.board.snapshot_tasks must not be negative")
	}
	for alias, station := range c.Aliases.Stations {
		if alias == "" || station == "" {
			return fmt.Errorf("config.aliases.stations contains an empty mapping")
		}
	}
	for alias, concept := range c.Aliases.Concepts {
		if alias == "" || concept == "" {
			return fmt.Errorf("config.aliases.concepts contains an empty mapping")
		}
	}
	for alias, kind := range c.Aliases.Compliance {
		if alias == "" || kind == "" {
			return fmt.Errorf("config.aliases.compliance contains an empty mapping")
		}
	}
	return nil
}

// NewParser builds a quick-add parser from the config's alias tables, layered
// over the defaults.
func (c *Config) NewParser() *parser.Parser {
	p := parser.New()
	for alias, v := range c.Aliases.Stations {
		p.Stations[alias] = v
	}
	for alias, v := range c.Aliases.Concepts {
		p.Concepts[alias] = v
	}
	for alias, v := range c.Aliases.Compliance {
		p.Compliance[alias] = v
	}
	return p
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "culiflow.yml")
}

// Load reads config from the workspace, falling back to defaults when the
// file does not exist.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Omitted fields
// inherit defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
