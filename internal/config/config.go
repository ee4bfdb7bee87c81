package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Language string `mapstructure:"language" yaml:"language"`
	Currency string `mapstructure:"currency" yaml:"currency"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// RulesFile optionally overrides the built-in scoring and finance rules.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`

	// Ingestion limits
	MaxRows    int `mapstructure:"max_rows" yaml:"max_rows"`
	SampleRows int `mapstructure:"sample_rows" yaml:"sample_rows"`

	// HTTP server
	ServerAddr  string `mapstructure:"server_addr" yaml:"server_addr"`
	UploadMaxMB int    `mapstructure:"upload_max_mb" yaml:"upload_max_mb"`
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"language", "currency", "log_level", "log_format", "rules_file", "export_dir",
		"max_rows", "sample_rows", "server_addr", "upload_max_mb",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".storelens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.storelens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("STORELENS")
	v.AutomaticEnv()

	v.SetDefault("language", "en")
	v.SetDefault("currency", "SAR")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("rules_file", "")
	v.SetDefault("export_dir", "")
	v.SetDefault("max_rows", 500000)
	v.SetDefault("sample_rows", 20)
	v.SetDefault("server_addr", "127.0.0.1:8088")
	v.SetDefault("upload_max_mb", 100)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ExportDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.ExportDir = filepath.Join(dir, "exports")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	switch c.Language {
	case "en", "ar":
	default:
		return fmt.Errorf("invalid language: %q (use en or ar)", c.Language)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %q (use text or json)", c.LogFormat)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("invalid max_rows: %d", c.MaxRows)
	}
	if c.SampleRows <= 0 {
		return fmt.Errorf("invalid sample_rows: %d", c.SampleRows)
	}
	if c.UploadMaxMB <= 0 {
		return fmt.Errorf("invalid upload_max_mb: %d", c.UploadMaxMB)
	}
	return nil
}

// Set assigns key from its string form and validates the result. The
// receiver is left unchanged on error.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "language":
		next.Language = strings.ToLower(val)
	case "currency":
		next.Currency = strings.ToUpper(val)
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "warning", "error":
			next.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	case "rules_file":
		next.RulesFile = val
	case "export_dir":
		next.ExportDir = val
	case "server_addr":
		next.ServerAddr = val
	case "max_rows", "sample_rows", "upload_max_mb":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "max_rows":
			next.MaxRows = i
		case "sample_rows":
			next.SampleRows = i
		default:
			next.UploadMaxMB = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "language":
		return c.Language, nil
	case "currency":
		return c.Currency, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "rules_file":
		return c.RulesFile, nil
	case "export_dir":
		return c.ExportDir, nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "sample_rows":
		return strconv.Itoa(c.SampleRows), nil
	case "server_addr":
		return c.ServerAddr, nil
	case "upload_max_mb":
		return strconv.Itoa(c.UploadMaxMB), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}
