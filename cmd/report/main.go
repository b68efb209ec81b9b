// Command report loads the configured results source once and writes an export file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/riskibarqy/league-results/internal/app"
	"github.com/riskibarqy/league-results/internal/config"
	"github.com/riskibarqy/league-results/internal/domain/matchday"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/report"
	"github.com/riskibarqy/league-results/internal/usecase"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML file with fallback settings")
	matchdays := flag.String("matchdays", "", "Comma separated matchdays to export (default: all loaded)")
	format := flag.String("format", "pdf", "Output format: pdf or text")
	outDir := flag.String("out", ".", "Directory the export file is written to")
	flag.Parse()

	if err := run(*configFile, *matchdays, *format, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, matchdaysFlag, formatFlag, outDir string) error {
	if configFile != "" {
		if err := os.Setenv("APP_CONFIG_FILE", configFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	selection, err := parseMatchdays(matchdaysFlag)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.FormatConsole, Output: os.Stderr})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		return err
	}

	snapshot, err := services.Results.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", usecase.LoadFailureMessage, err)
	}
	if len(selection) == 0 {
		selection = matchday.Numbers(snapshot.Matchdays)
	}

	result, err := services.Export.Export(ctx, usecase.ExportRequest{Matchdays: selection, Format: format})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	path := filepath.Join(outDir, result.FileName)
	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("report written", "path", path, "matchdays", result.Matchdays, "pages", result.Pages)
	return nil
}
