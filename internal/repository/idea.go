package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ideaColumns = `id, title, description, category, difficulty, market_size,
	source_type, source_id, source_url, tags, created_at, updated_at`

// IdeaRepository handles persistence of the startup idea archive.
type IdeaRepository struct {
	db dbtx
}

func NewIdeaRepository(pool *pgxpool.Pool) *IdeaRepository {
	return &IdeaRepository{db: pool}
}

func NewIdeaRepositoryWithTx(tx pgx.Tx) *IdeaRepository {
	return &IdeaRepository{db: tx}
}

func (r *IdeaRepository) Create(ctx context.Context, i *domain.StartupIdea) error {
	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now

	return r.db.QueryRow(ctx,
		`INSERT INTO startup_ideas (title, description, category, difficulty, market_size,
			source_type, source_id, source_url, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		i.Title, i.Description, nullableString(i.Category), nullableString(i.Difficulty),
		nullableString(i.MarketSize), nullableString(i.SourceType), nullableString(i.SourceID),
		nullableString(i.SourceURL), textArray(i.Tags), i.CreatedAt, i.UpdatedAt,
	).Scan(&i.ID)
}

func (r *IdeaRepository) GetByID(ctx context.Context, id int64) (*domain.StartupIdea, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+ideaColumns+` FROM startup_ideas WHERE id = $1`, id,
	)
	i, err := scanIdea(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdeaNotFound
		}
		return nil, err
	}
	return i, nil
}

// List pages through ideas, newest first, optionally filtered by
// category or difficulty.
func (r *IdeaRepository) List(ctx context.Context, category, difficulty string, limit, offset int) ([]domain.StartupIdea, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	n := 0

	if category != "" {
		n++
		where += fmt.Sprintf(` AND category = $%d`, n)
		args = append(args, category)
	}
	if difficulty != "" {
		n++
		where += fmt.Sprintf(` AND difficulty = $%d`, n)
		args = append(args, difficulty)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM startup_ideas `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := `SELECT ` + ideaColumns + ` FROM startup_ideas ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ideas []domain.StartupIdea
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, 0, err
		}
		ideas = append(ideas, *i)
	}
	return ideas, total, rows.Err()
}

// ListAll returns every idea wrapped as an indexable record.
func (r *IdeaRepository) ListAll(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+ideaColumns+` FROM startup_ideas ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.NewIdeaRecord(i))
	}
	return records, rows.Err()
}

func (r *IdeaRepository) LastModifiedAt(ctx context.Context) (time.Time, error) {
	var t *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(updated_at) FROM startup_ideas`).Scan(&t); err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, nil
	}
	return *t, nil
}

func (r *IdeaRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM startup_ideas`).Scan(&n)
	return n, err
}

func scanIdea(row pgx.Row) (*domain.StartupIdea, error) {
	var i domain.StartupIdea
	var category, difficulty, marketSize, sourceType, sourceID, sourceURL *string
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &category, &difficulty, &marketSize,
		&sourceType, &sourceID, &sourceURL, &i.Tags, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		i.Category = *category
	}
	if difficulty != nil {
		i.Difficulty = *difficulty
	}
	if marketSize != nil {
		i.MarketSize = *marketSize
	}
	if sourceType != nil {
		i.SourceType = *sourceType
	}
	if sourceID != nil {
		i.SourceID = *sourceID
	}
	if sourceURL != nil {
		i.SourceURL = *sourceURL
	}
	return &i, nil
}
