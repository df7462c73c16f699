package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/pagination"
)

// trendingSearches is the curated list served by the trending endpoint.
var trendingSearches = []string{
	"startup ideas",
	"AI tools",
	"how to find customers",
	"community building",
	"no-code apps",
	"newsletter business",
	"buying internet businesses",
	"vibe marketing",
}

// VideoSearchStore is the read surface the content service needs from
// the video repository.
type VideoSearchStore interface {
	Search(ctx context.Context, query, category string, limit, offset int) ([]domain.Video, int, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
}

// EpisodeListStore lists podcast episodes and their guests.
type EpisodeListStore interface {
	List(ctx context.Context, guest, tag string, limit, offset int) ([]domain.PodcastEpisode, int, error)
	Guests(ctx context.Context) ([]string, error)
}

// IdeaListStore lists startup ideas with optional filters.
type IdeaListStore interface {
	List(ctx context.Context, category, difficulty string, limit, offset int) ([]domain.StartupIdea, int, error)
}

// TweetListStore lists archived tweets.
type TweetListStore interface {
	List(ctx context.Context, limit, offset int) ([]domain.Tweet, int, error)
}

// VideoSearchRequest carries the inputs of a video search.
type VideoSearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
}

// VideoSearchResult is one page of matching videos.
type VideoSearchResult struct {
	Videos       []domain.Video  `json:"videos"`
	Pagination   pagination.Meta `json:"pagination"`
	SearchTimeMS int64           `json:"search_time_ms"`
}

// EpisodePage is one page of podcast episodes.
type EpisodePage struct {
	Episodes   []domain.PodcastEpisode `json:"episodes"`
	Pagination pagination.Meta         `json:"pagination"`
}

// IdeaPage is one page of startup ideas.
type IdeaPage struct {
	Ideas      []domain.StartupIdea `json:"ideas"`
	Pagination pagination.Meta      `json:"pagination"`
}

// TweetPage is one page of tweets.
type TweetPage struct {
	Tweets     []domain.Tweet  `json:"tweets"`
	Pagination pagination.Meta `json:"pagination"`
}

// ContentService serves browse and search over the four archives.
type ContentService struct {
	videos   VideoSearchStore
	episodes EpisodeListStore
	ideas    IdeaListStore
	tweets   TweetListStore
}

// NewContentService creates a new ContentService instance
func NewContentService(videos VideoSearchStore, episodes EpisodeListStore, ideas IdeaListStore, tweets TweetListStore) *ContentService {
	return &ContentService{
		videos:   videos,
		episodes: episodes,
		ideas:    ideas,
		tweets:   tweets,
	}
}

// SearchVideos runs a keyword search over video titles and
// descriptions. Title matches rank first, then newest publish date.
func (s *ContentService) SearchVideos(ctx context.Context, req VideoSearchRequest) (*VideoSearchResult, error) {
	params := pagination.Normalize(req.Page, req.PerPage)
	started := time.Now()

	videos, total, err := s.videos.Search(ctx, strings.TrimSpace(req.Query), req.Category, params.Limit(), params.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	if videos == nil {
		videos = []domain.Video{}
	}

	return &VideoSearchResult{
		Videos:       videos,
		Pagination:   pagination.NewMeta(params, total),
		SearchTimeMS: time.Since(started).Milliseconds(),
	}, nil
}

// Autocomplete suggests video titles for a prefix. Prefixes shorter
// than two characters return no suggestions.
func (s *ContentService) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < 2 {
		return []string{}, nil
	}
	if limit < 1 || limit > 20 {
		limit = 10
	}

	suggestions, err := s.videos.Autocomplete(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// Categories lists video categories with counts, most populous first.
func (s *ContentService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	counts, err := s.videos.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if counts == nil {
		counts = []domain.CategoryCount{}
	}
	return counts, nil
}

// Trending returns the curated trending search terms.
func (s *ContentService) Trending() []string {
	out := make([]string, len(trendingSearches))
	copy(out, trendingSearches)
	return out
}

// ListEpisodes pages through podcast episodes, optionally filtered by
// guest or tag.
func (s *ContentService) ListEpisodes(ctx context.Context, guest, tag string, page, perPage int) (*EpisodePage, error) {
	params := pagination.Normalize(page, perPage)

	episodes, total, err := s.episodes.List(ctx, strings.TrimSpace(guest), strings.TrimSpace(tag), params.Limit(), params.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	if episodes == nil {
		episodes = []domain.PodcastEpisode{}
	}

	return &EpisodePage{
		Episodes:   episodes,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}

// ListGuests returns the distinct podcast guests, alphabetized.
func (s *ContentService) ListGuests(ctx context.Context) ([]string, error) {
	guests, err := s.episodes.Guests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	if guests == nil {
		guests = []string{}
	}
	return guests, nil
}

// ListIdeas pages through startup ideas, optionally filtered by
// category or difficulty.
func (s *ContentService) ListIdeas(ctx context.Context, category, difficulty string, page, perPage int) (*IdeaPage, error) {
	params := pagination.Normalize(page, perPage)

	ideas, total, err := s.ideas.List(ctx, strings.TrimSpace(category), strings.TrimSpace(difficulty), params.Limit(), params.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	if ideas == nil {
		ideas = []domain.StartupIdea{}
	}

	return &IdeaPage{
		Ideas:      ideas,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}

// ListTweets pages through the tweet archive, newest first.
func (s *ContentService) ListTweets(ctx context.Context, page, perPage int) (*TweetPage, error) {
	params := pagination.Normalize(page, perPage)

	tweets, total, err := s.tweets.List(ctx, params.Limit(), params.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	if tweets == nil {
		tweets = []domain.Tweet{}
	}

	return &TweetPage{
		Tweets:     tweets,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}
