package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/pagination"
	"github.com/gregverse/gregverse/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVideoSearcher is a mock implementation of VideoSearcher
type MockVideoSearcher struct {
	mock.Mock
}

func (m *MockVideoSearcher) SearchVideos(ctx context.Context, req service.VideoSearchRequest) (*service.VideoSearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoSearchResult), args.Error(1)
}

func (m *MockVideoSearcher) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVideoSearcher) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *MockVideoSearcher) Trending() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func TestSearchHandler_SearchVideos(t *testing.T) {
	svc := new(MockVideoSearcher)
	svc.On("SearchVideos", mock.Anything, service.VideoSearchRequest{Query: "ai tools", Page: 1, PerPage: 20}).
		Return(&service.VideoSearchResult{
			Videos: []domain.Video{{
				ID:          1,
				YouTubeID:   "v1",
				Title:       "Best AI tools",
				PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				ViewCount:   1000,
			}},
			Pagination:   pagination.NewMeta(pagination.Normalize(1, 20), 1),
			SearchTimeMS: 4,
		}, nil)

	handler := NewSearchHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/search/videos",
		strings.NewReader(`{"query":"ai tools","page":1,"per_page":20}`))
	rec := httptest.NewRecorder()

	handler.SearchVideos(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data VideoSearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Videos, 1)
	assert.Equal(t, "https://youtube.com/watch?v=v1", body.Data.Videos[0].URL)
	assert.Equal(t, "2024-05-01T00:00:00Z", body.Data.Videos[0].PublishedAt)
}

func TestSearchHandler_SearchVideos_InvalidBody(t *testing.T) {
	handler := NewSearchHandler(new(MockVideoSearcher))
	req := httptest.NewRequest(http.MethodPost, "/api/search/videos", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	handler.SearchVideos(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandler_Autocomplete(t *testing.T) {
	svc := new(MockVideoSearcher)
	svc.On("Autocomplete", mock.Anything, "sta", 5).Return([]string{"startup ideas 2024"}, nil)

	handler := NewSearchHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/search/autocomplete?q=sta&limit=5", nil)
	rec := httptest.NewRecorder()

	handler.Autocomplete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Suggestions []string `json:"suggestions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"startup ideas 2024"}, body.Data.Suggestions)
}

func TestSearchHandler_Categories(t *testing.T) {
	svc := new(MockVideoSearcher)
	svc.On("Categories", mock.Anything).Return([]domain.CategoryCount{
		{Category: "AI Tools", Count: 42},
	}, nil)

	handler := NewSearchHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/search/categories", nil)
	rec := httptest.NewRecorder()

	handler.Categories(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Categories []domain.CategoryCount `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Categories, 1)
	assert.Equal(t, 42, body.Data.Categories[0].Count)
}

func TestSearchHandler_Trending(t *testing.T) {
	svc := new(MockVideoSearcher)
	svc.On("Trending").Return([]string{"startup ideas", "AI tools"})

	handler := NewSearchHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/search/trending", nil)
	rec := httptest.NewRecorder()

	handler.Trending(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Trending []string `json:"trending"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Data.Trending, "startup ideas")
}
