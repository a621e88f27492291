package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/perspectshift/internal/handlers"
	"github.com/lehigh-university-libraries/perspectshift/internal/render"
	"github.com/lehigh-university-libraries/perspectshift/internal/session"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local PerspectShift web page",
		Long: `Starts the PerspectShift web page on the specified port.

The page lets you drop an image, switch between perspectives, and comment on
what each one shows. Every visitor shares the same session.`,
		Example: `  # Start server on default port 5173
  perspectshift serve

  # Start server on custom port with the plain skin
  perspectshift serve --port 3000 --skin plain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := render.New(opts.cfg.Skin)
			if err != nil {
				return err
			}
			controller := session.NewController(opts.client())
			handler := handlers.New(controller, renderer)

			addr := ":" + opts.cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("PerspectShift interface available", "addr", addr, "url", "http://localhost"+addr, "backend", opts.cfg.APIURL, "skin", opts.cfg.Skin)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringP("port", "p", "5173", "Port to listen on")

	return cmd
}
