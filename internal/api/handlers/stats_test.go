package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/service"
	"github.com/gregverse/gregverse/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStatsProvider is a mock implementation of StatsProvider
type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) YouTubeStats(ctx context.Context) (*service.YouTubeStatsResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.YouTubeStatsResult), args.Error(1)
}

func (m *MockStatsProvider) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatsOverview), args.Error(1)
}

func TestStatsHandler_YouTubeStats(t *testing.T) {
	svc := new(MockStatsProvider)
	svc.On("YouTubeStats", mock.Anything).Return(&service.YouTubeStatsResult{
		Stats: &domain.ChannelStats{
			ChannelID:       "UC-greg",
			SubscriberCount: 750000,
		},
		IsLive: true,
	}, nil)

	handler := NewStatsHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/youtube", nil)
	rec := httptest.NewRecorder()

	handler.YouTubeStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data service.YouTubeStatsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.IsLive)
	assert.Equal(t, int64(750000), body.Data.Stats.SubscriberCount)
}

func TestStatsHandler_YouTubeStats_Unavailable(t *testing.T) {
	svc := new(MockStatsProvider)
	svc.On("YouTubeStats", mock.Anything).Return(nil, domain.ErrStatsUnavailable)

	handler := NewStatsHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/youtube", nil)
	rec := httptest.NewRecorder()

	handler.YouTubeStats(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatsHandler_Overview(t *testing.T) {
	svc := new(MockStatsProvider)
	svc.On("Overview", mock.Anything).Return(&domain.StatsOverview{
		IsLive:    false,
		Content:   domain.ContentCounts{Videos: 10, Episodes: 5, Ideas: 3, Tweets: 100},
		Milestone: domain.NewMilestoneProgress(500000),
	}, nil)

	handler := NewStatsHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/overview", nil)
	rec := httptest.NewRecorder()

	handler.Overview(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.StatsOverview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 10, body.Data.Content.Videos)
	assert.InDelta(t, 50.0, body.Data.Milestone.Percentage, 0.001)
}

func TestStatsHandler_Stream(t *testing.T) {
	hub := stream.NewHub()
	defer hub.Close()

	handler := NewStatsHandler(new(MockStatsProvider), hub)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stats/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(rec, req)
		close(done)
	}()

	// wait for the handler to subscribe before broadcasting
	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast([]byte(`{"is_live":true}`))
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not exit after context cancellation")
	}

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, ": connected\n\n")
	assert.Contains(t, body, "event: stats\ndata: {\"is_live\":true}\n\n")
}

func TestStatsHandler_Stream_NoHub(t *testing.T) {
	handler := NewStatsHandler(new(MockStatsProvider), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/stream", nil)
	rec := httptest.NewRecorder()

	handler.Stream(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatsHandler_Stream_ExitsOnHubClose(t *testing.T) {
	hub := stream.NewHub()
	handler := NewStatsHandler(new(MockStatsProvider), hub)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/stream", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(rec, req)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not exit after hub close")
	}
}
