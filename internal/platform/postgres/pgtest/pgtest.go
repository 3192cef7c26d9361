// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package pgtest starts a disposable PostgreSQL container with the Stockify
// schema applied, for repository integration tests.
package pgtest

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/taibuivan/stockify/internal/platform/migration"
	"github.com/taibuivan/stockify/internal/platform/postgres"
)

// migrationsDir resolves data/migrations relative to this file so tests work
// from any package directory.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}

/*
NewPool starts PostgreSQL, applies every UP migration and returns a pool.

Description: The container and pool are released through t.Cleanup. Tests
are skipped when no container runtime is available.
*/
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stockify_test"),
		tcpostgres.WithUsername("stockify"),
		tcpostgres.WithPassword("stockify_test_password"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	require.NoError(t, migration.RunUp(dsn, migrationsDir(), logger))

	pool, err := postgres.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}
