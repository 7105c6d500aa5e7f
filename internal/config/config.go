// Package config provides configuration management for the quill CLI using
// Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// Configuration comes from .quill.yml, environment variables with the
// QUILL_ prefix, and flags, in ascending precedence.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Serve     ServeConfig     `yaml:"serve"`
	Serialize SerializeConfig `yaml:"serialize"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
}

type ServeConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type SerializeConfig struct {
	// ShadowRoots includes serializable shadow roots as declarative
	// <template shadowrootmode=...> markup in rendered output.
	ShadowRoots bool `yaml:"shadow_roots"`

	// AdoptedStyleSheets inlines shadow-root adopted stylesheets as literal
	// <style> elements.
	AdoptedStyleSheets bool `yaml:"adopted_style_sheets"`
}

// Load builds the configuration from viper's merged sources.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if config.Serve.Host == "" {
		config.Serve.Host = "localhost"
	}
	if config.Serve.Port == 0 {
		config.Serve.Port = 8080
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}

	// Workaround for viper bool handling when keys are set via env or flags.
	if viper.IsSet("serialize.shadow_roots") {
		config.Serialize.ShadowRoots = viper.GetBool("serialize.shadow_roots")
	}
	if viper.IsSet("serialize.adopted_style_sheets") {
		config.Serialize.AdoptedStyleSheets = viper.GetBool("serialize.adopted_style_sheets")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects configurations the CLI cannot act on.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Serve.Port)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q (supported: text, json)", c.LogFormat)
	}
	return nil
}
