package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MarkerRepository persists per-index freshness markers.
type MarkerRepository struct {
	db dbtx
}

func NewMarkerRepository(pool *pgxpool.Pool) *MarkerRepository {
	return &MarkerRepository{db: pool}
}

// LastIndexedAt returns when the named index last completed a run, or
// nil when it has never run.
func (r *MarkerRepository) LastIndexedAt(ctx context.Context, name string) (*time.Time, error) {
	var t time.Time
	err := r.db.QueryRow(ctx,
		`SELECT last_indexed_at FROM index_markers WHERE name = $1`, name,
	).Scan(&t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// SetLastIndexedAt records a completed run for the named index.
func (r *MarkerRepository) SetLastIndexedAt(ctx context.Context, name string, t time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO index_markers (name, last_indexed_at) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET last_indexed_at = EXCLUDED.last_indexed_at`,
		name, t,
	)
	return err
}
