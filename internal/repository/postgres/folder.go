package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/domain/models"
	"filedrop/internal/domain/repositories"
)

// FolderBackend mirrors the folder store into PostgreSQL
type FolderBackend struct {
	pool   *pgxpool.Pool
	tables *TableNames
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewFolderBackend creates a new folder backend
func NewFolderBackend(config *RepositoryConfig, tx repositories.TransactionManager) *FolderBackend {
	return &FolderBackend{
		pool:   config.Pool,
		tables: config.Tables,
		tx:     tx,
		logger: config.Logger,
	}
}

// LoadAll returns every folder in insertion order
func (r *FolderBackend) LoadAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, is_expanded, created_at, updated_at
		FROM %s
		ORDER BY seq
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}

	folders, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Folder])
	if err != nil {
		return nil, fmt.Errorf("scan folders: %w", err)
	}
	return folders, nil
}

// Insert stores a new folder
func (r *FolderBackend) Insert(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, parent_id, is_expanded, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Folders)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.IsExpanded,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	return translateError(err, "insert", "folder", folder.ID)
}

// Update overwrites an existing folder
func (r *FolderBackend) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, parent_id = $3, is_expanded = $4, updated_at = $5
		WHERE id = $1
	`, r.tables.Folders)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.IsExpanded,
		folder.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update", "folder", folder.ID)
	}
	return expectOne(tag, "folder", folder.ID)
}

// DeleteMany removes the folders one by one in the order given, inside one transaction.
// Callers pass descendants first so parent_id references never dangle mid-way.
func (r *FolderBackend) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	return r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, r.pool)
		for _, id := range ids {
			tag, err := executor.Exec(txCtx, query, id)
			if err != nil {
				return translateError(err, "delete", "folder", id)
			}
			if err := expectOne(tag, "folder", id); err != nil {
				return err
			}
		}
		r.logger.Debug("folders deleted", "count", len(ids))
		return nil
	})
}
