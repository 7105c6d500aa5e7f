package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/quill/internal/config"
	"github.com/conneroisu/quill/internal/watcher"
)

var watchOutput string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:     "watch <input.html>",
	Aliases: []string{"w"},
	Short:   "Re-render an HTML file on every change",
	Long: `Watch an HTML file and re-run the render pipeline whenever it changes.
Editor write-then-rename save sequences are debounced into one render.

Examples:
  quill watch page.html -o out.html`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default stdout)")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg).WithComponent("watch")
	input := args[0]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	render := func() {
		markup, err := renderFile(input, cfg)
		if err != nil {
			logger.Error(ctx, err, "Render failed", "input", input)
			return
		}
		if watchOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), markup)
			return
		}
		if err := os.WriteFile(watchOutput, []byte(markup), 0o644); err != nil {
			logger.Error(ctx, err, "Write failed", "output", watchOutput)
			return
		}
		logger.Info(ctx, "Rendered", "input", input, "output", watchOutput)
	}

	w, err := watcher.New(100 * time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(input); err != nil {
		return err
	}
	w.OnChange(func([]string) { render() })

	render()
	logger.Info(ctx, "Watching for changes", "input", input)
	w.Start(ctx)
	return nil
}
