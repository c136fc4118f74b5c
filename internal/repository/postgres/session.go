package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/domain/models"
)

// SessionBackend mirrors upload sessions into PostgreSQL
type SessionBackend struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSessionBackend creates a new session backend
func NewSessionBackend(config *RepositoryConfig) *SessionBackend {
	return &SessionBackend{pool: config.Pool, tables: config.Tables}
}

func (r *SessionBackend) LoadAll(ctx context.Context) ([]models.UploadSession, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, start_time, end_time, completed, total, stored, rejected, failed
		FROM %s
		ORDER BY seq
	`, r.tables.UploadSessions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load upload sessions: %w", err)
	}
	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.UploadSession])
	if err != nil {
		return nil, fmt.Errorf("scan upload sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionBackend) Insert(ctx context.Context, session *models.UploadSession) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, start_time, end_time, completed, total, stored, rejected, failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.UploadSessions)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		session.ID,
		session.FolderID,
		session.StartTime,
		session.EndTime,
		session.Completed,
		session.Total,
		session.Stored,
		session.Rejected,
		session.Failed,
	)
	return translateError(err, "insert", "session", session.ID)
}

func (r *SessionBackend) Update(ctx context.Context, session *models.UploadSession) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET end_time = $2, completed = $3, stored = $4, rejected = $5, failed = $6
		WHERE id = $1
	`, r.tables.UploadSessions)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		session.ID,
		session.EndTime,
		session.Completed,
		session.Stored,
		session.Rejected,
		session.Failed,
	)
	if err != nil {
		return translateError(err, "update", "session", session.ID)
	}
	return expectOne(tag, "session", session.ID)
}
