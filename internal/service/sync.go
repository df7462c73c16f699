package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
)

// syncPagePause spaces playlist pages to stay inside API quotas
const syncPagePause = time.Second

// videoCategories maps keyword sets to a category label, checked in
// order. Videos matching nothing fall through to Business Building.
var videoCategories = []struct {
	name     string
	keywords []string
}{
	{"AI Tools", []string{"ai", "artificial intelligence", "chatgpt", "gpt", "claude"}},
	{"Startup Ideas", []string{"startup", "business idea", "entrepreneur"}},
	{"Interviews", []string{"interview", "guest", "conversation"}},
	{"No-Code", []string{"no-code", "nocode", "bubble", "webflow"}},
	{"Marketing", []string{"marketing", "growth", "seo", "social media"}},
}

const defaultVideoCategory = "Business Building"

// VideoSource pages through the channel's uploads.
type VideoSource interface {
	ListUploads(ctx context.Context, pageToken string) ([]domain.Video, string, error)
}

// VideoUpsertStore writes synced videos keyed by YouTube ID.
type VideoUpsertStore interface {
	Upsert(ctx context.Context, v *domain.Video) error
}

// SyncResult summarizes one channel sync run.
type SyncResult struct {
	Synced int `json:"synced"`
	Pages  int `json:"pages"`
	Failed int `json:"failed"`
}

// SyncService pulls the channel's uploads into the video archive.
type SyncService struct {
	source VideoSource
	videos VideoUpsertStore
}

// NewSyncService creates a new SyncService instance
func NewSyncService(source VideoSource, videos VideoUpsertStore) *SyncService {
	return &SyncService{source: source, videos: videos}
}

// SyncVideos walks the uploads playlist page by page, categorizes each
// video, and upserts it. A failed upsert is counted and skipped; a
// failed page fetch aborts the run.
func (s *SyncService) SyncVideos(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}
	pageToken := ""

	for {
		videos, nextToken, err := s.source.ListUploads(ctx, pageToken)
		if err != nil {
			return result, fmt.Errorf("failed to fetch uploads page: %w", err)
		}
		if len(videos) == 0 {
			break
		}
		result.Pages++

		for i := range videos {
			v := &videos[i]
			if v.Category == "" {
				v.Category = CategorizeVideo(v.Title, v.Description)
			}
			if err := s.videos.Upsert(ctx, v); err != nil {
				log.Printf("sync: failed to upsert video %s: %v", v.YouTubeID, err)
				result.Failed++
				continue
			}
			result.Synced++
		}
		log.Printf("sync: page %d done, %d videos so far", result.Pages, result.Synced)

		if nextToken == "" {
			break
		}
		pageToken = nextToken

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(syncPagePause):
		}
	}

	return result, nil
}

// CategorizeVideo assigns a category from keywords found in the title
// or description.
func CategorizeVideo(title, description string) string {
	content := strings.ToLower(title + " " + description)
	for _, cat := range videoCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(content, kw) {
				return cat.name
			}
		}
	}
	return defaultVideoCategory
}
