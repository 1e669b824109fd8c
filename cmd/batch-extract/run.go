package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"caseatlas-backend/config"
	"caseatlas-backend/logging"
	"caseatlas-backend/repository"
	"caseatlas-backend/service"
	"caseatlas-backend/storage"

	"github.com/google/generative-ai-go/genai"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// app holds the wired batch service and the resources to release afterwards
type app struct {
	batch   *service.BatchService
	logger  *zap.Logger
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context) (*app, error) {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	db, err := repository.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	caseStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	extraction := service.NewExtractionService(
		service.ExtractionWithStorage(caseStorage),
		service.ExtractionWithCaseRecordRepository(repository.NewCaseRecordRepository(db)),
		service.ExtractionWithJobRepository(repository.NewExtractionJobRepository(db)),
		service.ExtractionWithExtractor(service.NewGeminiExtractor(
			client,
			cfg.GeminiModel,
			service.ExtractorWithLogger(logger.Named("gemini")),
		)),
		service.ExtractionWithLogger(logger.Named("extraction")),
	)

	a.batch = service.NewBatchService(
		service.BatchWithExtractionService(extraction),
		service.BatchWithConcurrency(cfg.BatchConcurrency),
		service.BatchWithLogger(logger.Named("batch")),
	)
	return a, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	result, err := a.batch.Run(ctx, service.RunBatchRequest{
		Limit:       rootFlags.limit,
		Concurrency: rootFlags.concurrency,
	}, func(msg string) {
		fmt.Fprintln(out, msg)
	})
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	printResult(out, result)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.batch.Status(cmd.Context())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Case documents", "Analyzed", "Remaining"})
	t.AppendRow(table.Row{status.Total, status.Processed, status.Total - status.Processed})
	t.Render()
	return nil
}

func printResult(out io.Writer, result *service.RunBatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Found", "Processed", "Skipped", "Errors"})
	t.AppendRow(table.Row{result.Found, result.Processed, result.Skipped, result.Errors})
	t.Render()
}
