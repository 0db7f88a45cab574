package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/promwrap/promwrap/internal/app"
	"github.com/promwrap/promwrap/internal/config"
	"github.com/promwrap/promwrap/internal/monitor"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "promwrap-demo",
		Usage:   "Demo application exposing function metrics through promwrap",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	debug := cmd.Bool("debug")

	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting promwrap-demo", "version", Version, "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer application.Stop()

	// Setup graceful shutdown
	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if application.Workload != nil {
		application.Workload.Start()
		defer application.Workload.Stop()
	}

	mon, err := monitor.New(application.Exporter, 5*time.Second, logger)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	mon.Run(shutdownCtx)
	defer mon.Wait()

	// Server blocks until shutdown
	if err := application.Server.Start(shutdownCtx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutdown complete")
	return nil
}
