package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"filedrop/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// translateError maps driver errors onto domain errors for resource/id
func translateError(err error, op, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s %s already exists", resource, id),
			ResourceType: resource,
			ResourceID:   id,
		}
	case IsPgForeignKeyError(err):
		return domain.NewValidation("%s %s references a missing record", resource, id)
	}
	return fmt.Errorf("%s %s: %w", op, resource, err)
}

// expectOne turns an update/delete that matched no row into a NotFoundError
func expectOne(tag pgconn.CommandTag, resource, id string) error {
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(resource, id)
	}
	return nil
}
