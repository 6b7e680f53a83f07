// Package config loads the optional YAML configuration file. Every field
// has a working default, so running without a file is the normal case.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects the runtime settings of the client.
type Config struct {
	// BackendURL is the base URL of the StudyMate service.
	BackendURL string

	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration

	// SpeechCommand is the local TTS command line, e.g. "say" or
	// "espeak -s 150". Empty disables speech.
	SpeechCommand string

	// ExportDir is where study guide and dialogue exports are written.
	ExportDir string

	// ExportFormat selects the study guide export encoding: json, txt
	// or yaml.
	ExportFormat string
}

// fileConfig is the on-disk shape. The timeout is a duration string
// ("90s", "2m") since yaml.v3 has no native time.Duration decoding.
type fileConfig struct {
	BackendURL     string `yaml:"backend_url"`
	RequestTimeout string `yaml:"request_timeout"`
	SpeechCommand  string `yaml:"speech_command"`
	ExportDir      string `yaml:"export_dir"`
	ExportFormat   string `yaml:"export_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BackendURL:     "http://localhost:8000",
		RequestTimeout: 90 * time.Second,
		SpeechCommand:  "espeak",
		ExportDir:      ".",
		ExportFormat:   "txt",
	}
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error; a present but unreadable or malformed one
// is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, err
	}
	if file.BackendURL != "" {
		cfg.BackendURL = file.BackendURL
	}
	if file.RequestTimeout != "" {
		d, err := time.ParseDuration(file.RequestTimeout)
		if err != nil {
			return cfg, fmt.Errorf("request_timeout: %w", err)
		}
		if d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if file.SpeechCommand != "" {
		cfg.SpeechCommand = file.SpeechCommand
	}
	if file.ExportDir != "" {
		cfg.ExportDir = file.ExportDir
	}
	if file.ExportFormat != "" {
		cfg.ExportFormat = file.ExportFormat
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	file := fileConfig{
		BackendURL:     c.BackendURL,
		RequestTimeout: c.RequestTimeout.String(),
		SpeechCommand:  c.SpeechCommand,
		ExportDir:      c.ExportDir,
		ExportFormat:   c.ExportFormat,
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
