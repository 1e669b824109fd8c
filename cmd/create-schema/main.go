package main

import (
	"context"

	"caseatlas-backend/config"
	"caseatlas-backend/logging"
	"caseatlas-backend/repository"

	"go.uber.org/zap"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS case_records (
    -- Source case document filename
    id TEXT PRIMARY KEY,

    -- Classification; NULL when the classifier could not decide
    case_type TEXT CHECK (case_type IS NULL OR case_type IN ('criminal', 'civil')),

    -- Attribute bags, only the one matching case_type is set
    criminal JSONB,
    civil JSONB,

    issues TEXT[] NOT NULL DEFAULT '{}',
    outcome_category TEXT NOT NULL DEFAULT '',
    outcome_details TEXT NOT NULL DEFAULT '',

    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_case_records_case_type ON case_records(case_type);

CREATE TABLE IF NOT EXISTS extraction_jobs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    filename TEXT NOT NULL,
    status VARCHAR(20) NOT NULL CHECK (status IN ('pending', 'in_progress', 'completed', 'failed')),
    current_step TEXT,
    steps JSONB NOT NULL DEFAULT '[]'::jsonb,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_extraction_jobs_filename ON extraction_jobs(filename);
CREATE INDEX IF NOT EXISTS idx_extraction_jobs_status ON extraction_jobs(status);
`

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := repository.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		logger.Fatal("failed to create schema", zap.Error(err))
	}

	var tables int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_name IN ('case_records', 'extraction_jobs')`).Scan(&tables)
	if err != nil {
		logger.Fatal("failed to verify schema", zap.Error(err))
	}

	logger.Info("schema ready", zap.Int("tables", tables))
}
