package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/idp-analytics/identity-reports/internal/app"
	"github.com/idp-analytics/identity-reports/internal/archive"
	corecfg "github.com/idp-analytics/identity-reports/internal/core/config"
	"github.com/idp-analytics/identity-reports/internal/server"
)

func main() {
	configPath := flag.String("config", "identity-reports.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"source", cfg.Reports.Source,
		"env", cfg.Reports.Env,
		"funnel_steps", len(cfg.Definition.Sequence),
		"archive", cfg.Archive.Enabled,
	)

	// 2. Initialize report pipeline (and storage when configured)
	a, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize reports", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// 3. Initialize Archive scheduler
	var scheduler *archive.Scheduler
	if cfg.Archive.Enabled {
		job, err := a.ArchiveJob()
		if err != nil {
			slog.Error("Failed to initialize archive", "error", err)
			os.Exit(1)
		}
		scheduler = archive.NewScheduler(cfg.Archive.Interval, cfg.Archive.LookbackDays, job)
	}

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), a.DB, cfg.Server.Mode, a.Dashboard)

	// 5. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if scheduler != nil {
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Archive scheduler stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Archive scheduler disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
