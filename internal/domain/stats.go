package domain

import "time"

// SubscriberMilestone is the channel goal tracked by the overview.
const SubscriberMilestone = 1_000_000

// ChannelStats is one snapshot of the YouTube channel's counters.
type ChannelStats struct {
	ChannelID       string    `json:"channel_id"`
	SubscriberCount int64     `json:"subscriber_count"`
	ViewCount       int64     `json:"view_count"`
	VideoCount      int64     `json:"video_count"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// ContentCounts tallies the records held in each archive.
type ContentCounts struct {
	Videos   int `json:"videos"`
	Episodes int `json:"episodes"`
	Ideas    int `json:"ideas"`
	Tweets   int `json:"tweets"`
}

// MilestoneProgress tracks the channel's run at SubscriberMilestone.
type MilestoneProgress struct {
	Target     int64   `json:"target"`
	Current    int64   `json:"current"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// StatsOverview is the combined channel + archive summary.
type StatsOverview struct {
	Channel   *ChannelStats     `json:"channel,omitempty"`
	IsLive    bool              `json:"is_live"`
	Content   ContentCounts     `json:"content"`
	Milestone MilestoneProgress `json:"milestone"`
}

// NewMilestoneProgress computes progress toward SubscriberMilestone.
func NewMilestoneProgress(subscribers int64) MilestoneProgress {
	remaining := SubscriberMilestone - subscribers
	if remaining < 0 {
		remaining = 0
	}
	pct := float64(subscribers) / float64(SubscriberMilestone) * 100
	if pct > 100 {
		pct = 100
	}
	return MilestoneProgress{
		Target:     SubscriberMilestone,
		Current:    subscribers,
		Remaining:  remaining,
		Percentage: pct,
	}
}
