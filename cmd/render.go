package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/quill/dom"
	"github.com/conneroisu/quill/internal/config"
	"github.com/conneroisu/quill/internal/logging"
	"github.com/conneroisu/quill/internal/serialize"
)

var renderOutput string

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:     "render <input.html>",
	Aliases: []string{"r"},
	Short:   "Render an HTML file to normalized static markup",
	Long: `Parse an HTML document or fragment and serialize it back per the HTML
fragment serialization algorithm: standards-faithful escaping, void and raw-text
element handling, and opt-in declarative shadow DOM output.

Examples:
  quill render page.html                         # write to stdout
  quill render page.html -o out.html             # write to a file
  quill render page.html --shadow-roots          # include serializable shadow roots`,
	Args: cobra.ExactArgs(1),
	RunE: runRenderCommand,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().Bool("shadow-roots", false, "include serializable shadow roots as declarative shadow DOM")
	_ = viper.BindPFlag("serialize.shadow_roots", renderCmd.Flags().Lookup("shadow-roots"))
}

func runRenderCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	markup, err := renderFile(args[0], cfg)
	if err != nil {
		return err
	}
	if renderOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), markup)
		return nil
	}
	if err := os.WriteFile(renderOutput, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", renderOutput, err)
	}
	return nil
}

// renderFile parses the input as a full document when it starts with a
// doctype or <html, and as a fragment otherwise, then serializes it with
// the configured shadow DOM options.
func renderFile(path string, cfg *config.Config) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	source := string(raw)
	lower := strings.ToLower(strings.TrimSpace(source))

	var root *dom.Node
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		root, err = dom.Parse(source)
	} else {
		root, err = dom.ParseFragment(source)
	}
	if err != nil {
		return "", err
	}

	return serialize.Fragment(root, &serialize.Options{
		SerializableShadowRoots: cfg.Serialize.ShadowRoots,
	})
}

// newLogger builds the CLI logger from the loaded configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
}
