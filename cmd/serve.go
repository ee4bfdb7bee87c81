package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/storelens/internal/server"
	"github.com/KaramelBytes/storelens/internal/session"
)

var (
	srvAddr            string
	srvShutdownTimeout time.Duration
	srvMaxSessions     int
	srvSessionTTL      time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP JSON API",
	Long: `Serve exposes upload, mapping, analysis, report, chart and export endpoints under /api/v1/sessions.
Sessions live in memory and are lost when the server stops. Idle sessions expire after
--session-ttl, and once --max-sessions are held the least recently used one is evicted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		opt, err := session.OptionsFromConfig(c)
		if err != nil {
			return err
		}
		addr := srvAddr
		if addr == "" {
			addr = c.ServerAddr
		}
		srv := server.New(opt, server.WithSessionLimits(srvMaxSessions, srvSessionTTL))

		done := make(chan struct{})
		go func() {
			defer close(done)
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-cmd.Context().Done():
			}
			slog.Info("shutting down...", "sessions", srv.Sessions())
			ctx, cancel := context.WithTimeout(context.Background(), srvShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Error("shutdown error", "error", err)
			}
		}()

		slog.Info("server starting", "addr", addr, "language", opt.Language, "upload_max_mb", c.UploadMaxMB)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Listening on http://%s\n", addr)
		if err := srv.Start(addr); err != nil {
			return err
		}
		<-done
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default config server_addr)")
	serveCmd.Flags().DurationVar(&srvShutdownTimeout, "shutdown-timeout", 15*time.Second, "grace period for in-flight requests")
	serveCmd.Flags().IntVar(&srvMaxSessions, "max-sessions", 100, "maximum sessions held in memory (0 = unlimited)")
	serveCmd.Flags().DurationVar(&srvSessionTTL, "session-ttl", time.Hour, "evict sessions unused for this long (0 = never)")
}
