package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tweetColumns = `id, tweet_id, content, author, published_at, retweet_count,
	like_count, reply_count, url, hashtags, mentions, created_at, updated_at`

// TweetRepository handles persistence of the tweet archive.
type TweetRepository struct {
	db dbtx
}

func NewTweetRepository(pool *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{db: pool}
}

func NewTweetRepositoryWithTx(tx pgx.Tx) *TweetRepository {
	return &TweetRepository{db: tx}
}

func (r *TweetRepository) Create(ctx context.Context, t *domain.Tweet) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	return r.db.QueryRow(ctx,
		`INSERT INTO tweets (tweet_id, content, author, published_at, retweet_count,
			like_count, reply_count, url, hashtags, mentions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		t.TweetID, t.Content, t.Author, t.PublishedAt, t.RetweetCount,
		t.LikeCount, t.ReplyCount, nullableString(t.URL), textArray(t.Hashtags), textArray(t.Mentions),
		t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *TweetRepository) GetByTweetID(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tweetColumns+` FROM tweets WHERE tweet_id = $1`, tweetID,
	)
	t, err := scanTweet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, err
	}
	return t, nil
}

// List pages through tweets, newest first.
func (r *TweetRepository) List(ctx context.Context, limit, offset int) ([]domain.Tweet, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+tweetColumns+` FROM tweets ORDER BY published_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, 0, err
		}
		tweets = append(tweets, *t)
	}
	return tweets, total, rows.Err()
}

// ListAll returns every tweet wrapped as an indexable record.
func (r *TweetRepository) ListAll(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tweetColumns+` FROM tweets ORDER BY published_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.NewTweetRecord(t))
	}
	return records, rows.Err()
}

func (r *TweetRepository) LastModifiedAt(ctx context.Context) (time.Time, error) {
	var t *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(updated_at) FROM tweets`).Scan(&t); err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, nil
	}
	return *t, nil
}

func (r *TweetRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tweets`).Scan(&n)
	return n, err
}

func scanTweet(row pgx.Row) (*domain.Tweet, error) {
	var t domain.Tweet
	var url *string
	err := row.Scan(
		&t.ID, &t.TweetID, &t.Content, &t.Author, &t.PublishedAt, &t.RetweetCount,
		&t.LikeCount, &t.ReplyCount, &url, &t.Hashtags, &t.Mentions, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if url != nil {
		t.URL = *url
	}
	return &t, nil
}
