package minicc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config tunes the front end. Pattern overrides are keyed by token kind name
// (KEYWORD, IDENTIFIER, INTEGER, FLOAT, OPERATOR, DELIMITER) and replace the
// built-in pattern for that kind only.
type Config struct {
	Patterns        map[string]string `yaml:"patterns"`
	KeepErrorTokens bool              `yaml:"keep-error-tokens"`
	AssignTable     bool              `yaml:"assign-table"`
}

func DefaultConfig() *Config {
	return &Config{AssignTable: true}
}

// LoadConfig reads a YAML config file. A missing path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
