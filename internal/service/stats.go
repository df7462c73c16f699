package service

import (
	"context"
	"fmt"
	"log"

	"github.com/gregverse/gregverse/internal/domain"
)

// ChannelStatsProvider fetches live channel counters from YouTube.
type ChannelStatsProvider interface {
	ChannelStats(ctx context.Context) (*domain.ChannelStats, error)
}

// StatsSnapshotStore persists channel stat snapshots for fallback and
// history.
type StatsSnapshotStore interface {
	Latest(ctx context.Context) (*domain.ChannelStats, error)
	Save(ctx context.Context, stats *domain.ChannelStats) error
}

// CountStore reports how many records an archive holds.
type CountStore interface {
	Count(ctx context.Context) (int, error)
}

// YouTubeStatsResult pairs channel stats with their provenance.
type YouTubeStatsResult struct {
	Stats  *domain.ChannelStats `json:"stats"`
	IsLive bool                 `json:"is_live"`
}

// StatsService serves channel and archive statistics, preferring live
// YouTube numbers and falling back to the last stored snapshot.
type StatsService struct {
	provider  ChannelStatsProvider
	snapshots StatsSnapshotStore
	videos    CountStore
	episodes  CountStore
	ideas     CountStore
	tweets    CountStore
}

// NewStatsService creates a new StatsService instance
func NewStatsService(provider ChannelStatsProvider, snapshots StatsSnapshotStore, videos, episodes, ideas, tweets CountStore) *StatsService {
	return &StatsService{
		provider:  provider,
		snapshots: snapshots,
		videos:    videos,
		episodes:  episodes,
		ideas:     ideas,
		tweets:    tweets,
	}
}

// YouTubeStats returns live channel stats when the provider is
// reachable, otherwise the most recent stored snapshot with
// is_live=false. Live fetches are persisted as the new snapshot.
func (s *StatsService) YouTubeStats(ctx context.Context) (*YouTubeStatsResult, error) {
	if s.provider != nil {
		stats, err := s.provider.ChannelStats(ctx)
		if err == nil {
			if s.snapshots != nil {
				if saveErr := s.snapshots.Save(ctx, stats); saveErr != nil {
					log.Printf("stats: failed to persist snapshot: %v", saveErr)
				}
			}
			return &YouTubeStatsResult{Stats: stats, IsLive: true}, nil
		}
		log.Printf("stats: live fetch failed, falling back to snapshot: %v", err)
	}

	if s.snapshots == nil {
		return nil, domain.ErrStatsUnavailable
	}
	stats, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats snapshot: %w", err)
	}
	if stats == nil {
		return nil, domain.ErrStatsUnavailable
	}
	return &YouTubeStatsResult{Stats: stats, IsLive: false}, nil
}

// Overview combines channel stats, archive counts, and milestone
// progress. Missing channel stats degrade the channel section rather
// than failing the whole overview.
func (s *StatsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	overview := &domain.StatsOverview{}

	if yt, err := s.YouTubeStats(ctx); err == nil {
		overview.Channel = yt.Stats
		overview.IsLive = yt.IsLive
		overview.Milestone = domain.NewMilestoneProgress(yt.Stats.SubscriberCount)
	} else {
		log.Printf("stats: overview without channel stats: %v", err)
		overview.Milestone = domain.NewMilestoneProgress(0)
	}

	counts, err := s.contentCounts(ctx)
	if err != nil {
		return nil, err
	}
	overview.Content = counts
	return overview, nil
}

func (s *StatsService) contentCounts(ctx context.Context) (domain.ContentCounts, error) {
	var counts domain.ContentCounts
	var err error

	if counts.Videos, err = s.videos.Count(ctx); err != nil {
		return counts, fmt.Errorf("failed to count videos: %w", err)
	}
	if counts.Episodes, err = s.episodes.Count(ctx); err != nil {
		return counts, fmt.Errorf("failed to count episodes: %w", err)
	}
	if counts.Ideas, err = s.ideas.Count(ctx); err != nil {
		return counts, fmt.Errorf("failed to count ideas: %w", err)
	}
	if counts.Tweets, err = s.tweets.Count(ctx); err != nil {
		return counts, fmt.Errorf("failed to count tweets: %w", err)
	}
	return counts, nil
}
