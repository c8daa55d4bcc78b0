package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/dmitrijs2005/clipvault/internal/dbx"
	"github.com/dmitrijs2005/clipvault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put inserts the record; an existing id leaves the row untouched and yields
// common.ErrDuplicateID.
func (r *PostgresRepository) Put(ctx context.Context, v *models.Video) error {
	query := `
		INSERT INTO videos (id, title, description, stored_path, duration_seconds, format, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		v.ID, v.Title, v.Description, v.StoredPath, v.DurationSeconds, v.Format, v.SizeBytes, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrDuplicateID
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT id, title, description, stored_path, duration_seconds, format, size_bytes, created_at
		FROM videos WHERE id = $1`

	var v models.Video
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Title, &v.Description, &v.StoredPath, &v.DurationSeconds, &v.Format, &v.SizeBytes, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select video: %w", err)
	}
	return &v, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Video, error) {
	query := `SELECT id, title, description, stored_path, duration_seconds, format, size_bytes, created_at
		FROM videos ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select videos: %w", err)
	}
	defer rows.Close()

	result := []*models.Video{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.StoredPath, &v.DurationSeconds, &v.Format, &v.SizeBytes, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
