// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/playpals/studio/internal/apply"
)

// Transport names accepted by the transport key.
const (
	TransportLog  = "log"
	TransportNATS = "nats"
)

// CV holds the upload constraints for the job application.
type CV struct {
	MaxBytes     int64    `mapstructure:"max_bytes" yaml:"max_bytes"`
	AllowedTypes []string `mapstructure:"allowed_types" yaml:"allowed_types"`
}

// Config holds all configuration values for playpals.
type Config struct {
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	Transport string `mapstructure:"transport" yaml:"transport"`
	NATSURL   string `mapstructure:"nats_url" yaml:"nats_url"`
	Theme     string `mapstructure:"theme" yaml:"theme"`
	CV        CV     `mapstructure:"cv" yaml:"cv"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:   ".playpals",
		LogLevel:  "info",
		Transport: TransportLog,
		Theme:     "dark",
		CV: CV{
			MaxBytes:     apply.DefaultCVMaxBytes,
			AllowedTypes: append([]string(nil), apply.DefaultCVTypes...),
		},
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("playpals")

	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("transport", def.Transport)
	v.SetDefault("nats_url", "")
	v.SetDefault("theme", def.Theme)
	v.SetDefault("cv.max_bytes", def.CV.MaxBytes)
	v.SetDefault("cv.allowed_types", def.CV.AllowedTypes)

	v.SetEnvPrefix("PLAYPALS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv does not see nested keys during Unmarshal, so every key
	// is bound explicitly.
	for _, key := range []string{
		"data_dir", "log_level", "log_file", "transport", "nats_url", "theme",
		"cv.max_bytes", "cv.allowed_types",
	} {
		env := "PLAYPALS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if globalPath := GlobalPath(); fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if projectPath := ProjectPath(); fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportLog, TransportNATS:
	default:
		return fmt.Errorf("invalid transport %q (want %s or %s)", c.Transport, TransportLog, TransportNATS)
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q (want dark or light)", c.Theme)
	}
	if c.CV.MaxBytes < 0 {
		return fmt.Errorf("cv.max_bytes cannot be negative")
	}
	return nil
}

// JobOptions returns the job form options derived from the CV settings.
func (c *Config) JobOptions() apply.JobOptions {
	return apply.JobOptions{
		CVMaxBytes: c.CV.MaxBytes,
		CVTypes:    c.CV.AllowedTypes,
	}
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/playpals/playpals.yml or $XDG_CONFIG_HOME/playpals/playpals.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "playpals", "playpals.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "playpals", "playpals.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "playpals.yml"
}

// Marshal renders cfg as it would be written to disk.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
