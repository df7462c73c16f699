package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gregverse/gregverse/internal/api"
	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/service"
)

type VideoSearcher interface {
	SearchVideos(ctx context.Context, req service.VideoSearchRequest) (*service.VideoSearchResult, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	Trending() []string
}

type SearchHandler struct {
	svc VideoSearcher
}

func NewSearchHandler(svc VideoSearcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type VideoResponse struct {
	ID           int64    `json:"id"`
	YouTubeID    string   `json:"youtube_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Channel      string   `json:"channel,omitempty"`
	URL          string   `json:"url"`
	PublishedAt  string   `json:"published_at"`
	ViewCount    int64    `json:"view_count"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Duration     int      `json:"duration,omitempty"`
}

func videoToResponse(v *domain.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		YouTubeID:    v.YouTubeID,
		Title:        v.Title,
		Description:  v.Description,
		Channel:      v.Channel,
		URL:          v.URL(),
		PublishedAt:  v.PublishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		ViewCount:    v.ViewCount,
		Category:     v.Category,
		Tags:         v.Tags,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
	}
}

type VideoSearchResponse struct {
	Videos       []VideoResponse `json:"videos"`
	Pagination   any             `json:"pagination"`
	SearchTimeMS int64           `json:"search_time_ms"`
}

// SearchVideos runs a keyword search over the video archive.
func (h *SearchHandler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	var req service.VideoSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SearchVideos(r.Context(), req)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	videos := make([]VideoResponse, 0, len(result.Videos))
	for i := range result.Videos {
		videos = append(videos, videoToResponse(&result.Videos[i]))
	}

	api.Success(w, http.StatusOK, VideoSearchResponse{
		Videos:       videos,
		Pagination:   result.Pagination,
		SearchTimeMS: result.SearchTimeMS,
	})
}

// Autocomplete suggests video titles for a prefix.
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions, err := h.svc.Autocomplete(r.Context(), prefix, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// Categories lists video categories with counts.
func (h *SearchHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Categories(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]any{"categories": counts})
}

// Trending returns the curated trending search terms.
func (h *SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, map[string]any{"trending": h.svc.Trending()})
}
