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

const episodeColumns = `id, title, description, guest, episode_number, season_number,
	published_at, duration, audio_url, transcript, tags, spotify_url, apple_url,
	youtube_url, created_at, updated_at`

// EpisodeRepository handles persistence of the podcast archive.
type EpisodeRepository struct {
	db dbtx
}

func NewEpisodeRepository(pool *pgxpool.Pool) *EpisodeRepository {
	return &EpisodeRepository{db: pool}
}

func NewEpisodeRepositoryWithTx(tx pgx.Tx) *EpisodeRepository {
	return &EpisodeRepository{db: tx}
}

func (r *EpisodeRepository) Create(ctx context.Context, e *domain.PodcastEpisode) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	return r.db.QueryRow(ctx,
		`INSERT INTO podcast_episodes (title, description, guest, episode_number, season_number,
			published_at, duration, audio_url, transcript, tags, spotify_url, apple_url,
			youtube_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		e.Title, e.Description, nullableString(e.Guest), nullableInt(e.EpisodeNumber),
		nullableInt(e.SeasonNumber), e.PublishedAt, nullableString(e.Duration),
		nullableString(e.AudioURL), nullableString(e.Transcript), textArray(e.Tags),
		nullableString(e.SpotifyURL), nullableString(e.AppleURL), nullableString(e.YouTubeURL),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *EpisodeRepository) GetByID(ctx context.Context, id int64) (*domain.PodcastEpisode, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+episodeColumns+` FROM podcast_episodes WHERE id = $1`, id,
	)
	e, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEpisodeNotFound
		}
		return nil, err
	}
	return e, nil
}

// List pages through episodes, newest first, optionally filtered by
// guest (case-insensitive substring) or tag.
func (r *EpisodeRepository) List(ctx context.Context, guest, tag string, limit, offset int) ([]domain.PodcastEpisode, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	n := 0

	if guest != "" {
		n++
		where += fmt.Sprintf(` AND guest ILIKE $%d`, n)
		args = append(args, "%"+guest+"%")
	}
	if tag != "" {
		n++
		where += fmt.Sprintf(` AND $%d = ANY(tags)`, n)
		args = append(args, tag)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM podcast_episodes `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := `SELECT ` + episodeColumns + ` FROM podcast_episodes ` + where +
		` ORDER BY published_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var episodes []domain.PodcastEpisode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, err
		}
		episodes = append(episodes, *e)
	}
	return episodes, total, rows.Err()
}

// Guests lists distinct guests, alphabetized.
func (r *EpisodeRepository) Guests(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT guest FROM podcast_episodes
		 WHERE guest IS NOT NULL AND guest <> '' ORDER BY guest ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// ListAll returns every episode wrapped as an indexable record.
func (r *EpisodeRepository) ListAll(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+episodeColumns+` FROM podcast_episodes ORDER BY published_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.NewEpisodeRecord(e))
	}
	return records, rows.Err()
}

func (r *EpisodeRepository) LastModifiedAt(ctx context.Context) (time.Time, error) {
	var t *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(updated_at) FROM podcast_episodes`).Scan(&t); err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, nil
	}
	return *t, nil
}

func (r *EpisodeRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM podcast_episodes`).Scan(&n)
	return n, err
}

func scanEpisode(row pgx.Row) (*domain.PodcastEpisode, error) {
	var e domain.PodcastEpisode
	var guest, duration, audioURL, transcript, spotify, apple, youtube *string
	var episodeNumber, seasonNumber *int
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &guest, &episodeNumber, &seasonNumber,
		&e.PublishedAt, &duration, &audioURL, &transcript, &e.Tags, &spotify, &apple,
		&youtube, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if guest != nil {
		e.Guest = *guest
	}
	if episodeNumber != nil {
		e.EpisodeNumber = *episodeNumber
	}
	if seasonNumber != nil {
		e.SeasonNumber = *seasonNumber
	}
	if duration != nil {
		e.Duration = *duration
	}
	if audioURL != nil {
		e.AudioURL = *audioURL
	}
	if transcript != nil {
		e.Transcript = *transcript
	}
	if spotify != nil {
		e.SpotifyURL = *spotify
	}
	if apple != nil {
		e.AppleURL = *apple
	}
	if youtube != nil {
		e.YouTubeURL = *youtube
	}
	return &e, nil
}
