package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/quill/internal/config"
	"github.com/conneroisu/quill/internal/preview"
	"github.com/conneroisu/quill/internal/watcher"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve <input.html>",
	Aliases: []string{"s"},
	Short:   "Preview rendered output with live reload",
	Long: `Serve the rendered output of an HTML file over HTTP, re-rendering on
every change and pushing a WebSocket reload to connected browsers.

Examples:
  quill serve page.html
  quill serve page.html --port 3000`,
	Args: cobra.ExactArgs(1),
	RunE: runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "host to bind")
	serveCmd.Flags().Int("port", 8080, "port to bind")
	_ = viper.BindPFlag("serve.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	input := args[0]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := preview.New(cfg.Serve.Host, cfg.Serve.Port, func() (string, error) {
		return renderFile(input, cfg)
	}, logger)

	w, err := watcher.New(100 * time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(input); err != nil {
		return err
	}
	w.OnChange(func([]string) {
		logger.Info(ctx, "Input changed, reloading clients", "input", input)
		server.Reload(ctx)
	})
	go w.Start(ctx)

	return server.Start(ctx)
}
