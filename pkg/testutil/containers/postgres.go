//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"regcheck/internal/platform/database"
)

// PostgresContainer wraps a migrated Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func startPostgres() (*PostgresContainer, error) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("regcheck"),
		tcpostgres.WithUsername("regcheck"),
		tcpostgres.WithPassword("regcheck"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}

	if err := database.MigrateUp(dsn); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := database.Open(ctx, dsn, database.PoolConfig{MaxOpenConns: 20})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	// Ryuk reaps the container when the test binary exits.
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// TruncateTables empties the named tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
	return err
}
