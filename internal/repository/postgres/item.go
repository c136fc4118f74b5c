package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"filedrop/internal/domain/models"
)

// ItemBackend mirrors the item store into PostgreSQL
type ItemBackend struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewItemBackend creates a new item backend
func NewItemBackend(config *RepositoryConfig) *ItemBackend {
	return &ItemBackend{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// LoadAll returns every item in insertion order
func (r *ItemBackend) LoadAll(ctx context.Context) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT id, name, size, type, status, progress, folder_id, url, uploaded_at
		FROM %s
		ORDER BY seq
	`, r.tables.Items)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Item])
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return items, nil
}

// Insert stores a new item
func (r *ItemBackend) Insert(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, size, type, status, progress, folder_id, url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Items)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID,
		item.Name,
		item.Size,
		item.Type,
		string(item.Status),
		item.Progress,
		item.FolderID,
		item.URL,
		item.UploadedAt,
	)
	return translateError(err, "insert", "item", item.ID)
}

// Update overwrites an existing item
func (r *ItemBackend) Update(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, status = $3, progress = $4, folder_id = $5, url = $6
		WHERE id = $1
	`, r.tables.Items)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID,
		item.Name,
		string(item.Status),
		item.Progress,
		item.FolderID,
		item.URL,
	)
	if err != nil {
		return translateError(err, "update", "item", item.ID)
	}
	return expectOne(tag, "item", item.ID)
}

// Delete removes an item
func (r *ItemBackend) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Items)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return translateError(err, "delete", "item", id)
	}
	return expectOne(tag, "item", id)
}

// ClearFolder sets folder_id to NULL for items in any of folderIDs
func (r *ItemBackend) ClearFolder(ctx context.Context, folderIDs []string) error {
	query := fmt.Sprintf(`UPDATE %s SET folder_id = NULL WHERE folder_id = ANY($1)`, r.tables.Items)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderIDs)
	if err != nil {
		return fmt.Errorf("unfile items: %w", err)
	}
	r.logger.Debug("items unfiled", "folder_count", len(folderIDs), "item_count", tag.RowsAffected())
	return nil
}
