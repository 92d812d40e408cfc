package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/siyuanink/siteweb"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `serve starts the HTTP server. Changes to the name and description in the
config file are picked up without a restart; other settings need one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		v, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.Info("using config file", "path", used)
		}

		app := siteweb.New(cfg, siteweb.WithLogger(logger))

		if v.ConfigFileUsed() != "" {
			v.OnConfigChange(func(e fsnotify.Event) {
				next, err := decodeConfig(v)
				if err != nil {
					logger.Warn("config reload failed", "path", e.Name, "err", err)
					return
				}
				app.SetSite(next.Name, next.Description)
				logger.Info("config reloaded", "path", e.Name, "op", e.Op.String())
			})
			v.WatchConfig()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Addr)
			errCh <- app.Start()
		}()

		select {
		case err := <-errCh:
			app.Close()
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}
