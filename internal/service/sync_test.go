package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVideoSource is a mock implementation of VideoSource
type MockVideoSource struct {
	mock.Mock
}

func (m *MockVideoSource) ListUploads(ctx context.Context, pageToken string) ([]domain.Video, string, error) {
	args := m.Called(ctx, pageToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Video), args.String(1), args.Error(2)
}

// MockVideoUpsertStore is a mock implementation of VideoUpsertStore
type MockVideoUpsertStore struct {
	mock.Mock
}

func (m *MockVideoUpsertStore) Upsert(ctx context.Context, v *domain.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func TestCategorizeVideo(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{"ai in title", "I tested every AI tool", "", "AI Tools"},
		{"chatgpt in description", "My workflow", "built with ChatGPT", "AI Tools"},
		{"startup keyword", "5 startup ideas for 2024", "", "Startup Ideas"},
		{"interview keyword", "A conversation with a founder", "", "Interviews"},
		{"no-code keyword", "Build apps with Webflow", "", "No-Code"},
		{"marketing keyword", "Growth tactics that work", "", "Marketing"},
		{"first match wins", "AI startup interview", "", "AI Tools"},
		{"case insensitive", "STARTUP playbook", "", "Startup Ideas"},
		{"no match", "My morning routine", "just vibes", "Business Building"},
		{"empty", "", "", "Business Building"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeVideo(tt.title, tt.description))
		})
	}
}

func TestSyncService_SyncVideos_SinglePage(t *testing.T) {
	source := new(MockVideoSource)
	store := new(MockVideoUpsertStore)

	source.On("ListUploads", mock.Anything, "").Return([]domain.Video{
		{YouTubeID: "v1", Title: "AI tools roundup"},
		{YouTubeID: "v2", Title: "My morning routine"},
	}, "", nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	svc := NewSyncService(source, store)
	result, err := svc.SyncVideos(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 0, result.Failed)

	// categories assigned during sync
	store.AssertCalled(t, "Upsert", mock.Anything, mock.MatchedBy(func(v *domain.Video) bool {
		return v.YouTubeID == "v1" && v.Category == "AI Tools"
	}))
	store.AssertCalled(t, "Upsert", mock.Anything, mock.MatchedBy(func(v *domain.Video) bool {
		return v.YouTubeID == "v2" && v.Category == "Business Building"
	}))
}

func TestSyncService_SyncVideos_PreservesExistingCategory(t *testing.T) {
	source := new(MockVideoSource)
	store := new(MockVideoUpsertStore)

	source.On("ListUploads", mock.Anything, "").Return([]domain.Video{
		{YouTubeID: "v1", Title: "AI tools roundup", Category: "Hand Picked"},
	}, "", nil)
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(v *domain.Video) bool {
		return v.Category == "Hand Picked"
	})).Return(nil)

	svc := NewSyncService(source, store)
	_, err := svc.SyncVideos(context.Background())

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSyncService_SyncVideos_MultiplePages(t *testing.T) {
	source := new(MockVideoSource)
	store := new(MockVideoUpsertStore)

	source.On("ListUploads", mock.Anything, "").Return([]domain.Video{
		{YouTubeID: "v1", Title: "page one"},
	}, "token-2", nil)
	source.On("ListUploads", mock.Anything, "token-2").Return([]domain.Video{
		{YouTubeID: "v2", Title: "page two"},
	}, "", nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	svc := NewSyncService(source, store)
	result, err := svc.SyncVideos(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 2, result.Pages)
}

func TestSyncService_SyncVideos_FailedUpsertIsCountedAndSkipped(t *testing.T) {
	source := new(MockVideoSource)
	store := new(MockVideoUpsertStore)

	source.On("ListUploads", mock.Anything, "").Return([]domain.Video{
		{YouTubeID: "bad", Title: "breaks"},
		{YouTubeID: "good", Title: "fine"},
	}, "", nil)
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(v *domain.Video) bool {
		return v.YouTubeID == "bad"
	})).Return(errors.New("constraint violation"))
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(v *domain.Video) bool {
		return v.YouTubeID == "good"
	})).Return(nil)

	svc := NewSyncService(source, store)
	result, err := svc.SyncVideos(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)
}

func TestSyncService_SyncVideos_PageFetchFailureAborts(t *testing.T) {
	source := new(MockVideoSource)
	store := new(MockVideoUpsertStore)

	source.On("ListUploads", mock.Anything, "").Return(nil, "", errors.New("quota exceeded"))

	svc := NewSyncService(source, store)
	result, err := svc.SyncVideos(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, result.Synced)
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSyncService_SyncVideos_EmptyChannel(t *testing.T) {
	source := new(MockVideoSource)
	store := new(MockVideoUpsertStore)

	source.On("ListUploads", mock.Anything, "").Return([]domain.Video{}, "", nil)

	svc := NewSyncService(source, store)
	result, err := svc.SyncVideos(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 0, result.Pages)
}
