package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChannelStatsProvider is a mock implementation of ChannelStatsProvider
type MockChannelStatsProvider struct {
	mock.Mock
}

func (m *MockChannelStatsProvider) ChannelStats(ctx context.Context) (*domain.ChannelStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelStats), args.Error(1)
}

// MockStatsSnapshotStore is a mock implementation of StatsSnapshotStore
type MockStatsSnapshotStore struct {
	mock.Mock
}

func (m *MockStatsSnapshotStore) Latest(ctx context.Context) (*domain.ChannelStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelStats), args.Error(1)
}

func (m *MockStatsSnapshotStore) Save(ctx context.Context, stats *domain.ChannelStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// MockCountStore is a mock implementation of CountStore
type MockCountStore struct {
	mock.Mock
}

func (m *MockCountStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func fixedCountStore(n int) *MockCountStore {
	s := new(MockCountStore)
	s.On("Count", mock.Anything).Return(n, nil)
	return s
}

func liveChannelStats() *domain.ChannelStats {
	return &domain.ChannelStats{
		ChannelID:       "UC-greg",
		SubscriberCount: 750_000,
		ViewCount:       98_000_000,
		VideoCount:      412,
		FetchedAt:       time.Now().UTC(),
	}
}

func TestStatsService_YouTubeStats_LivePersistsSnapshot(t *testing.T) {
	provider := new(MockChannelStatsProvider)
	snapshots := new(MockStatsSnapshotStore)

	stats := liveChannelStats()
	provider.On("ChannelStats", mock.Anything).Return(stats, nil)
	snapshots.On("Save", mock.Anything, stats).Return(nil)

	svc := NewStatsService(provider, snapshots, nil, nil, nil, nil)
	result, err := svc.YouTubeStats(context.Background())

	require.NoError(t, err)
	assert.True(t, result.IsLive)
	assert.Equal(t, stats, result.Stats)
	snapshots.AssertCalled(t, "Save", mock.Anything, stats)
}

func TestStatsService_YouTubeStats_SnapshotSaveFailureIsNonFatal(t *testing.T) {
	provider := new(MockChannelStatsProvider)
	snapshots := new(MockStatsSnapshotStore)

	provider.On("ChannelStats", mock.Anything).Return(liveChannelStats(), nil)
	snapshots.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := NewStatsService(provider, snapshots, nil, nil, nil, nil)
	result, err := svc.YouTubeStats(context.Background())

	require.NoError(t, err)
	assert.True(t, result.IsLive)
}

func TestStatsService_YouTubeStats_FallsBackToSnapshot(t *testing.T) {
	provider := new(MockChannelStatsProvider)
	snapshots := new(MockStatsSnapshotStore)

	cached := liveChannelStats()
	provider.On("ChannelStats", mock.Anything).Return(nil, errors.New("quota exceeded"))
	snapshots.On("Latest", mock.Anything).Return(cached, nil)

	svc := NewStatsService(provider, snapshots, nil, nil, nil, nil)
	result, err := svc.YouTubeStats(context.Background())

	require.NoError(t, err)
	assert.False(t, result.IsLive)
	assert.Equal(t, cached, result.Stats)
}

func TestStatsService_YouTubeStats_NoProviderNoSnapshot(t *testing.T) {
	snapshots := new(MockStatsSnapshotStore)
	snapshots.On("Latest", mock.Anything).Return(nil, nil)

	svc := NewStatsService(nil, snapshots, nil, nil, nil, nil)
	_, err := svc.YouTubeStats(context.Background())

	assert.ErrorIs(t, err, domain.ErrStatsUnavailable)
}

func TestStatsService_Overview(t *testing.T) {
	provider := new(MockChannelStatsProvider)
	snapshots := new(MockStatsSnapshotStore)

	stats := liveChannelStats()
	provider.On("ChannelStats", mock.Anything).Return(stats, nil)
	snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewStatsService(provider, snapshots,
		fixedCountStore(412), fixedCountStore(120), fixedCountStore(85), fixedCountStore(3000))
	overview, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.True(t, overview.IsLive)
	assert.Equal(t, stats, overview.Channel)
	assert.Equal(t, domain.ContentCounts{Videos: 412, Episodes: 120, Ideas: 85, Tweets: 3000}, overview.Content)
	assert.Equal(t, int64(domain.SubscriberMilestone), overview.Milestone.Target)
	assert.Equal(t, int64(750_000), overview.Milestone.Current)
	assert.Equal(t, int64(250_000), overview.Milestone.Remaining)
	assert.InDelta(t, 75.0, overview.Milestone.Percentage, 0.001)
}

func TestStatsService_Overview_DegradedChannelSection(t *testing.T) {
	snapshots := new(MockStatsSnapshotStore)
	snapshots.On("Latest", mock.Anything).Return(nil, nil)

	svc := NewStatsService(nil, snapshots,
		fixedCountStore(1), fixedCountStore(2), fixedCountStore(3), fixedCountStore(4))
	overview, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Nil(t, overview.Channel)
	assert.False(t, overview.IsLive)
	assert.Equal(t, int64(0), overview.Milestone.Current)
	assert.Equal(t, domain.ContentCounts{Videos: 1, Episodes: 2, Ideas: 3, Tweets: 4}, overview.Content)
}

func TestStatsService_Overview_CountFailureIsFatal(t *testing.T) {
	provider := new(MockChannelStatsProvider)
	snapshots := new(MockStatsSnapshotStore)
	provider.On("ChannelStats", mock.Anything).Return(liveChannelStats(), nil)
	snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)

	broken := new(MockCountStore)
	broken.On("Count", mock.Anything).Return(0, errors.New("connection reset"))

	svc := NewStatsService(provider, snapshots,
		broken, fixedCountStore(0), fixedCountStore(0), fixedCountStore(0))
	_, err := svc.Overview(context.Background())

	assert.Error(t, err)
}

func TestNewMilestoneProgress(t *testing.T) {
	p := domain.NewMilestoneProgress(250_000)
	assert.Equal(t, int64(domain.SubscriberMilestone), p.Target)
	assert.Equal(t, int64(750_000), p.Remaining)
	assert.InDelta(t, 25.0, p.Percentage, 0.001)

	// past the milestone clamps remaining and percentage
	p = domain.NewMilestoneProgress(1_200_000)
	assert.Equal(t, int64(0), p.Remaining)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)

	p = domain.NewMilestoneProgress(0)
	assert.Equal(t, int64(domain.SubscriberMilestone), p.Remaining)
	assert.InDelta(t, 0.0, p.Percentage, 0.001)
}
