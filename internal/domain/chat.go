package domain

import "time"

// ExcerptMaxChars bounds the excerpt carried by a RetrievedSource.
const ExcerptMaxChars = 200

// RetrievedSource is a ranked citation for one retrieved chunk.
// Type-specific fields are populated from metadata per content type.
type RetrievedSource struct {
	ContentType ContentType `json:"content_type"`
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Excerpt     string      `json:"excerpt"`
	Score       float32     `json:"score"`
	PublishedAt string      `json:"published_at,omitempty"`

	// video
	Channel   string `json:"channel,omitempty"`
	ViewCount int64  `json:"view_count,omitempty"`

	// podcast
	Guest         string `json:"guest,omitempty"`
	EpisodeNumber int    `json:"episode_number,omitempty"`

	// startup_idea
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	// tweet
	Author string `json:"author,omitempty"`
}

// ChatAnswer is the result of one question: the generated answer plus
// its sources, ordered by retrieval rank (highest similarity first).
type ChatAnswer struct {
	Question  string            `json:"question"`
	Answer    string            `json:"answer"`
	Sources   []RetrievedSource `json:"sources"`
	Timestamp time.Time         `json:"timestamp"`
}

// ChatLogEntry records one answered question for later review.
type ChatLogEntry struct {
	Question    string
	Answer      string
	SourceCount int
	UserID      string
	Duration    time.Duration
}

// TruncateExcerpt caps text at ExcerptMaxChars, appending an ellipsis
// marker when it was cut.
func TruncateExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= ExcerptMaxChars {
		return text
	}
	return string(runes[:ExcerptMaxChars]) + "..."
}
