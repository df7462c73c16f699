package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gregverse/gregverse/internal/service"
	"github.com/gregverse/gregverse/internal/stream"
)

// StatsProcessor polls channel stats and publishes each snapshot to
// the stream hub. It satisfies JobProcessor so a Worker can drive it.
type StatsProcessor struct {
	stats *service.StatsService
	hub   *stream.Hub
}

// NewStatsProcessor creates a new StatsProcessor instance
func NewStatsProcessor(stats *service.StatsService, hub *stream.Hub) *StatsProcessor {
	return &StatsProcessor{stats: stats, hub: hub}
}

// ProcessJobs fetches the current channel stats and broadcasts them.
// The service layer already persists live snapshots as a side effect.
func (p *StatsProcessor) ProcessJobs(ctx context.Context) error {
	result, err := p.stats.YouTubeStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh channel stats: %w", err)
	}

	if p.hub == nil || p.hub.SubscriberCount() == 0 {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode stats payload: %w", err)
	}
	p.hub.Broadcast(payload)
	return nil
}
