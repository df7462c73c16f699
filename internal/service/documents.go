package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
)

// DocumentBuilder converts archive records into indexable documents.
// It is a pure transform: no I/O, no side effects.
type DocumentBuilder struct {
	chunkCfg ChunkConfig
}

// NewDocumentBuilder creates a DocumentBuilder with the given chunking
// configuration. The configuration must already be validated.
func NewDocumentBuilder(cfg ChunkConfig) *DocumentBuilder {
	return &DocumentBuilder{chunkCfg: cfg}
}

// Build converts a record into one or more indexed documents, each
// carrying identical provenance metadata except chunk_index. A record
// missing its minimum required field returns ErrRecordIncomplete so
// callers can count it as a skip without aborting the corpus.
func (b *DocumentBuilder) Build(rec domain.Record) ([]domain.IndexedDocument, error) {
	switch rec.Type {
	case domain.ContentTypeVideo:
		return b.buildVideo(rec.Video)
	case domain.ContentTypePodcast:
		return b.buildEpisode(rec.Episode)
	case domain.ContentTypeStartupIdea:
		return b.buildIdea(rec.Idea)
	case domain.ContentTypeTweet:
		return b.buildTweet(rec.Tweet)
	default:
		return nil, domain.ErrInvalidContentType
	}
}

func (b *DocumentBuilder) buildVideo(v *domain.Video) ([]domain.IndexedDocument, error) {
	if v == nil || strings.TrimSpace(v.Title) == "" {
		return nil, domain.ErrRecordIncomplete
	}

	content := fmt.Sprintf("Title: %s\n\nDescription: %s", v.Title, v.Description)
	if v.Transcript != "" {
		content += fmt.Sprintf("\n\nTranscript: %s", v.Transcript)
	}

	channel := v.Channel
	if channel == "" {
		channel = "Greg Isenberg"
	}

	meta := domain.Metadata{
		domain.MetaContentType: string(domain.ContentTypeVideo),
		"video_id":             v.YouTubeID,
		domain.MetaTitle:       v.Title,
		domain.MetaURL:         v.URL(),
		domain.MetaChannel:     channel,
		domain.MetaPublishedAt: formatPublishedAt(v.PublishedAt),
		domain.MetaViewCount:   v.ViewCount,
	}

	return b.chunkDocuments(domain.ContentTypeVideo, v.YouTubeID, content, meta, v.PublishedAt)
}

func (b *DocumentBuilder) buildEpisode(e *domain.PodcastEpisode) ([]domain.IndexedDocument, error) {
	if e == nil || strings.TrimSpace(e.Title) == "" {
		return nil, domain.ErrRecordIncomplete
	}

	content := fmt.Sprintf("Title: %s\n\nDescription: %s", e.Title, e.Description)
	if e.Guest != "" {
		content += fmt.Sprintf("\n\nGuest: %s", e.Guest)
	}
	if e.Transcript != "" {
		content += fmt.Sprintf("\n\nTranscript: %s", e.Transcript)
	}

	meta := domain.Metadata{
		domain.MetaContentType:   string(domain.ContentTypePodcast),
		"episode_id":             strconv.FormatInt(e.ID, 10),
		domain.MetaTitle:         e.Title,
		domain.MetaURL:           e.URL(),
		domain.MetaGuest:         e.Guest,
		domain.MetaEpisodeNumber: e.EpisodeNumber,
		domain.MetaPublishedAt:   formatPublishedAt(e.PublishedAt),
	}

	return b.chunkDocuments(domain.ContentTypePodcast, strconv.FormatInt(e.ID, 10), content, meta, e.PublishedAt)
}

// Ideas are naturally short: one document, no chunking.
func (b *DocumentBuilder) buildIdea(i *domain.StartupIdea) ([]domain.IndexedDocument, error) {
	if i == nil || strings.TrimSpace(i.Title) == "" || strings.TrimSpace(i.Description) == "" {
		return nil, domain.ErrRecordIncomplete
	}

	content := fmt.Sprintf("Startup Idea: %s\n\nDescription: %s", i.Title, i.Description)
	if i.Category != "" {
		content += fmt.Sprintf("\n\nCategory: %s", i.Category)
	}

	meta := domain.Metadata{
		domain.MetaContentType: string(domain.ContentTypeStartupIdea),
		"idea_id":              strconv.FormatInt(i.ID, 10),
		domain.MetaTitle:       i.Title,
		domain.MetaURL:         i.SourceURL,
		domain.MetaCategory:    i.Category,
		domain.MetaDifficulty:  i.Difficulty,
		domain.MetaMarketSize:  i.MarketSize,
		domain.MetaPublishedAt: formatPublishedAt(i.CreatedAt),
	}

	return b.singleOrChunked(domain.ContentTypeStartupIdea, strconv.FormatInt(i.ID, 10), content, meta, i.CreatedAt)
}

func (b *DocumentBuilder) buildTweet(t *domain.Tweet) ([]domain.IndexedDocument, error) {
	if t == nil || strings.TrimSpace(t.Content) == "" {
		return nil, domain.ErrRecordIncomplete
	}

	content := fmt.Sprintf("Tweet: %s", t.Content)

	meta := domain.Metadata{
		domain.MetaContentType: string(domain.ContentTypeTweet),
		"tweet_id":             t.TweetID,
		domain.MetaTitle:       fmt.Sprintf("Tweet by %s", t.Author),
		domain.MetaURL:         t.URL,
		domain.MetaAuthor:      t.Author,
		domain.MetaPublishedAt: formatPublishedAt(t.PublishedAt),
		domain.MetaLikeCount:   t.LikeCount,
	}

	return b.singleOrChunked(domain.ContentTypeTweet, t.TweetID, content, meta, t.PublishedAt)
}

// chunkDocuments splits content and emits one document per chunk.
func (b *DocumentBuilder) chunkDocuments(ct domain.ContentType, sourceID, content string, meta domain.Metadata, publishedAt time.Time) ([]domain.IndexedDocument, error) {
	chunks, err := SplitText(content, b.chunkCfg)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.IndexedDocument, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, domain.IndexedDocument{
			ContentType: ct,
			SourceID:    sourceID,
			ChunkIndex:  i,
			Content:     chunk,
			Metadata:    cloneWithChunkIndex(meta, i),
			PublishedAt: publishedAt,
		})
	}
	return docs, nil
}

// singleOrChunked emits exactly one document when the composed text
// fits a single window, falling back to chunking for outliers.
func (b *DocumentBuilder) singleOrChunked(ct domain.ContentType, sourceID, content string, meta domain.Metadata, publishedAt time.Time) ([]domain.IndexedDocument, error) {
	if len([]rune(content)) <= b.chunkCfg.MaxChars {
		return []domain.IndexedDocument{{
			ContentType: ct,
			SourceID:    sourceID,
			ChunkIndex:  0,
			Content:     content,
			Metadata:    cloneWithChunkIndex(meta, 0),
			PublishedAt: publishedAt,
		}}, nil
	}
	return b.chunkDocuments(ct, sourceID, content, meta, publishedAt)
}

func cloneWithChunkIndex(meta domain.Metadata, idx int) domain.Metadata {
	out := make(domain.Metadata, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[domain.MetaChunkIndex] = idx
	return out
}

func formatPublishedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
