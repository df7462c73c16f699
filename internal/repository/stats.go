package repository

import (
	"context"
	"errors"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository persists YouTube channel stat snapshots.
type StatsRepository struct {
	db dbtx
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: pool}
}

// Save records one channel snapshot.
func (r *StatsRepository) Save(ctx context.Context, stats *domain.ChannelStats) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO youtube_stats (channel_id, subscriber_count, view_count, video_count, fetched_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		stats.ChannelID, stats.SubscriberCount, stats.ViewCount, stats.VideoCount, stats.FetchedAt,
	)
	return err
}

// Latest returns the most recent snapshot, or nil when none exist.
func (r *StatsRepository) Latest(ctx context.Context) (*domain.ChannelStats, error) {
	var s domain.ChannelStats
	err := r.db.QueryRow(ctx,
		`SELECT channel_id, subscriber_count, view_count, video_count, fetched_at
		 FROM youtube_stats ORDER BY fetched_at DESC LIMIT 1`,
	).Scan(&s.ChannelID, &s.SubscriberCount, &s.ViewCount, &s.VideoCount, &s.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
