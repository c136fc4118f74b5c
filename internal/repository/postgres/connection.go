package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/domain/repositories"
)

// RepositoryConfig holds configuration for backend implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders        string
	Items          string
	UploadSessions string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:        fmt.Sprintf("%sfolders", prefix),
		Items:          fmt.Sprintf("%sitems", prefix),
		UploadSessions: fmt.Sprintf("%supload_sessions", prefix),
	}
}

// All returns the tables in dependency order (referenced tables first)
func (t *TableNames) All() []string {
	return []string{t.Folders, t.Items, t.UploadSessions}
}

// CreateConnectionPool creates a pgx connection pool.
//
// Port 6543 is the usual PgBouncer transaction pooler, which cannot hold prepared
// statements across transactions. When that port is detected and the connection string
// did not pick a mode itself, the pool switches to QueryExecModeCacheDescribe, which keeps
// the extended protocol but only caches statement descriptions.
//
// Table names are interpolated with fmt.Sprintf before the SQL reaches the server, so
// every prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or pool when there is none.
// Backends call it for every statement so they join an enclosing ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}
