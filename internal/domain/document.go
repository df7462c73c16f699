package domain

import "time"

// Metadata is the flat provenance mapping carried by every indexed
// document. It always contains enough fields (title, url) to render a
// human-readable citation without a secondary lookup.
type Metadata map[string]any

// Well-known metadata keys
const (
	MetaContentType   = "content_type"
	MetaTitle         = "title"
	MetaURL           = "url"
	MetaChunkIndex    = "chunk_index"
	MetaPublishedAt   = "published_at"
	MetaChannel       = "channel"
	MetaViewCount     = "view_count"
	MetaGuest         = "guest"
	MetaEpisodeNumber = "episode_number"
	MetaCategory      = "category"
	MetaDifficulty    = "difficulty"
	MetaMarketSize    = "market_size"
	MetaAuthor        = "author"
	MetaLikeCount     = "like_count"
)

// IndexedDocument is one chunk of record text submitted to the vector
// index. Identity is (ContentType, SourceID, ChunkIndex); upserting the
// same identity overwrites rather than duplicates.
type IndexedDocument struct {
	ContentType ContentType
	SourceID    string
	ChunkIndex  int
	Content     string
	Metadata    Metadata
	PublishedAt time.Time
	Embedding   []float32
}

// Title returns the citation title from metadata
func (d *IndexedDocument) Title() string {
	if s, ok := d.Metadata[MetaTitle].(string); ok {
		return s
	}
	return ""
}

// URL returns the citation URL from metadata
func (d *IndexedDocument) URL() string {
	if s, ok := d.Metadata[MetaURL].(string); ok {
		return s
	}
	return ""
}

// ScoredDocument is a retrieval hit: an indexed document plus its
// cosine similarity against the query vector.
type ScoredDocument struct {
	Document IndexedDocument
	Score    float32
}

// IndexStats summarizes vector index health
type IndexStats struct {
	TotalVectors  int64
	Dimension     int
	LastIndexedAt *time.Time
	Status        string
}
