// Package cmd provides the command-line interface for quill with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. QUILL_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (QUILL_SERVE_PORT, etc.)
//	4. Configuration files (.quill.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "HTML template rendering and declarative shadow DOM serialization",
	Long: `Quill renders HTML documents and fragments to normalized static markup,
including declarative shadow DOM output for custom elements.

Key Features:
  • HTML fragment serialization with standards-faithful escaping
  • Declarative shadow DOM (<template shadowrootmode>) output
  • Re-render on change with file watching
  • Preview server with WebSocket live reload

Quick Start:
  quill render page.html          Render a file to normalized markup
  quill watch page.html           Re-render on every save
  quill serve page.html           Preview with live reload

Documentation: https://github.com/conneroisu/quill`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept snake_case flag spellings so flag names line up with the
	// config keys they bind to.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .quill.yml, can also use QUILL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. QUILL_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .quill.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("QUILL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".quill")
	}

	// Enable automatic environment variable binding with QUILL_ prefix
	// Examples: QUILL_SERVE_PORT, QUILL_SERIALIZE_SHADOW_ROOTS
	viper.SetEnvPrefix("QUILL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files degrade to defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
