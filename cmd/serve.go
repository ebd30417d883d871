package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ymaeda-ai/insurag/internal/engine"
	"github.com/ymaeda-ai/insurag/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP query service",
	Long: `Starts the query service over HTTP. The service warms up in the
background; requests arriving before it is ready receive a retryable
503. Use provider "mock" in the config to serve canned answers
without any backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		svc, err := createServiceFromConfig(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		if eng, ok := svc.(*engine.Engine); ok {
			go func() {
				if err := eng.Warmup(context.Background()); err != nil {
					log.Printf("warmup failed: %v", err)
				}
			}()
			eng.StartIdleWatcher(cfg.IdleTimeout())
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAll,
		}, svc)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case sig := <-sigCh:
			log.Printf("received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured listen port")
	rootCmd.AddCommand(serveCmd)
}
