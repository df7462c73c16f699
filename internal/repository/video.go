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

const videoColumns = `id, youtube_id, title, description, transcript, channel, published_at,
	view_count, category, tags, thumbnail_url, duration, created_at, updated_at`

// VideoRepository handles persistence of the video archive.
type VideoRepository struct {
	db dbtx
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{db: pool}
}

func NewVideoRepositoryWithTx(tx pgx.Tx) *VideoRepository {
	return &VideoRepository{db: tx}
}

func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	return r.db.QueryRow(ctx,
		`INSERT INTO videos (youtube_id, title, description, transcript, channel, published_at,
			view_count, category, tags, thumbnail_url, duration, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		v.YouTubeID, v.Title, v.Description, nullableString(v.Transcript), nullableString(v.Channel),
		v.PublishedAt, v.ViewCount, nullableString(v.Category), textArray(v.Tags),
		nullableString(v.ThumbnailURL), v.Duration, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
}

// Upsert inserts a video or refreshes it in place, keyed by YouTube ID.
func (r *VideoRepository) Upsert(ctx context.Context, v *domain.Video) error {
	now := time.Now().UTC()
	return r.db.QueryRow(ctx,
		`INSERT INTO videos (youtube_id, title, description, transcript, channel, published_at,
			view_count, category, tags, thumbnail_url, duration, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		 ON CONFLICT (youtube_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			channel = COALESCE(EXCLUDED.channel, videos.channel),
			published_at = EXCLUDED.published_at,
			view_count = GREATEST(EXCLUDED.view_count, videos.view_count),
			category = COALESCE(EXCLUDED.category, videos.category),
			thumbnail_url = COALESCE(EXCLUDED.thumbnail_url, videos.thumbnail_url),
			updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		v.YouTubeID, v.Title, v.Description, nullableString(v.Transcript), nullableString(v.Channel),
		v.PublishedAt, v.ViewCount, nullableString(v.Category), textArray(v.Tags),
		nullableString(v.ThumbnailURL), v.Duration, now,
	).Scan(&v.ID)
}

func (r *VideoRepository) GetByYouTubeID(ctx context.Context, youtubeID string) (*domain.Video, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE youtube_id = $1`,
		youtubeID,
	)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListAll returns every video wrapped as an indexable record.
func (r *VideoRepository) ListAll(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY published_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.NewVideoRecord(v))
	}
	return records, rows.Err()
}

// LastModifiedAt reports the newest updated_at across the archive.
func (r *VideoRepository) LastModifiedAt(ctx context.Context) (time.Time, error) {
	var t *time.Time
	err := r.db.QueryRow(ctx, `SELECT MAX(updated_at) FROM videos`).Scan(&t)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, nil
	}
	return *t, nil
}

func (r *VideoRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}

// Search matches query against title and description with ILIKE.
// Title matches rank before description-only matches, then newest
// publish date.
func (r *VideoRepository) Search(ctx context.Context, query, category string, limit, offset int) ([]domain.Video, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	n := 0

	if query != "" {
		n++
		where += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, n, n)
		args = append(args, "%"+query+"%")
	}
	if category != "" {
		n++
		where += fmt.Sprintf(` AND category = $%d`, n)
		args = append(args, category)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := `ORDER BY published_at DESC`
	if query != "" {
		// title hits first, rest by recency
		order = `ORDER BY (title ILIKE $1) DESC, published_at DESC`
	}

	sql := `SELECT ` + videoColumns + ` FROM videos ` + where + ` ` + order +
		` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, *v)
	}
	return videos, total, rows.Err()
}

// Autocomplete returns distinct titles matching the prefix anywhere in
// the title, newest first.
func (r *VideoRepository) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT title FROM videos WHERE title ILIKE $1
		 ORDER BY published_at DESC LIMIT $2`,
		"%"+prefix+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// CategoryCounts tallies videos per category, most populous first.
func (r *VideoRepository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*) FROM videos
		 WHERE category IS NOT NULL AND category <> ''
		 GROUP BY category ORDER BY COUNT(*) DESC, category ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var v domain.Video
	var transcript, channel, category, thumbnail *string
	err := row.Scan(
		&v.ID, &v.YouTubeID, &v.Title, &v.Description, &transcript, &channel, &v.PublishedAt,
		&v.ViewCount, &category, &v.Tags, &thumbnail, &v.Duration, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if transcript != nil {
		v.Transcript = *transcript
	}
	if channel != nil {
		v.Channel = *channel
	}
	if category != nil {
		v.Category = *category
	}
	if thumbnail != nil {
		v.ThumbnailURL = *thumbnail
	}
	return &v, nil
}
