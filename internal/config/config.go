package config

import (
	"fmt"
	"os"

	"github.com/jinzhu/configor"
)

// DefaultFile is picked up from the working directory when no --config is given
const DefaultFile = ".covcompare.yml"

// EnvPrefix is the prefix for environment overrides, e.g. COVCOMPARE_TOLERANCE
const EnvPrefix = "COVCOMPARE"

// Output formats
const (
	OutputText     = "text"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// Config holds the settings a comparison run can take from a file or the environment
type Config struct {
	Tolerance float64 `default:"0.002" yaml:"tolerance" json:"tolerance" toml:"tolerance"`
	Output    string  `default:"text" yaml:"output" json:"output" toml:"output"`
}

// Load reads the config file at path (or DefaultFile when path is empty and
// it exists) and applies environment overrides on top of the defaults.
// The result is not validated; callers merge flag overrides first and then
// call Validate.
func Load(path string) (*Config, error) {
	var files []string
	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		files = append(files, path)
	default:
		if info, err := os.Stat(DefaultFile); err == nil && info.Mode().IsRegular() {
			files = append(files, DefaultFile)
		}
	}

	cfg := &Config{}
	loader := configor.New(&configor.Config{ENVPrefix: EnvPrefix})
	if err := loader.Load(cfg, files...); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the tolerance is usable and the output format known
func (c *Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance)
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputMarkdown:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json, markdown)", c.Output)
	}
}
