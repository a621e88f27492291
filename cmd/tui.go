package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/perspectshift/internal/logging"
	"github.com/lehigh-university-libraries/perspectshift/internal/session"
	"github.com/lehigh-university-libraries/perspectshift/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Start an interactive terminal session",
		Long: `Opens a full-screen terminal session with an image preview and the comment
panel side by side. An optional file argument is uploaded on start; otherwise
press u and enter a path.

Logs are written to --log-file, or discarded when it is not set.`,
		Example: `  perspectshift tui
  perspectshift tui photos/tower.jpg --skin plain --log-file tui.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if _, err := logging.Setup(out, opts.cfg.LogLevel, opts.cfg.LogFormat, opts.verbose); err != nil {
				return err
			}

			theme, err := tui.ThemeByName(opts.cfg.Skin)
			if err != nil {
				return err
			}

			var initialPath string
			if len(args) == 1 {
				initialPath = args[0]
			}
			controller := session.NewController(opts.client())
			return tui.Run(cmd.Context(), controller, theme, initialPath)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file")

	return cmd
}
