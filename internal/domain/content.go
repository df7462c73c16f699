package domain

import (
	"fmt"
	"time"
)

// ContentType identifies which archive a record belongs to
type ContentType string

const (
	ContentTypeVideo       ContentType = "video"
	ContentTypePodcast     ContentType = "podcast"
	ContentTypeStartupIdea ContentType = "startup_idea"
	ContentTypeTweet       ContentType = "tweet"
)

// IsValidContentType checks if a ContentType is one of the closed set
func IsValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeVideo, ContentTypePodcast, ContentTypeStartupIdea, ContentTypeTweet:
		return true
	}
	return false
}

// Video represents a YouTube video in the archive
type Video struct {
	ID           int64
	YouTubeID    string
	Title        string
	Description  string
	Transcript   string
	Channel      string
	PublishedAt  time.Time
	ViewCount    int64
	Category     string
	Tags         []string
	ThumbnailURL string
	Duration     int // seconds
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// URL returns the canonical watch URL for the video
func (v *Video) URL() string {
	return fmt.Sprintf("https://youtube.com/watch?v=%s", v.YouTubeID)
}

// PodcastEpisode represents one episode of the podcast
type PodcastEpisode struct {
	ID            int64
	Title         string
	Description   string
	Guest         string
	EpisodeNumber int
	SeasonNumber  int
	PublishedAt   time.Time
	Duration      string // e.g. "45:30"
	AudioURL      string
	Transcript    string
	Tags          []string
	SpotifyURL    string
	AppleURL      string
	YouTubeURL    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// URL returns the best available listen URL for the episode
func (e *PodcastEpisode) URL() string {
	if e.SpotifyURL != "" {
		return e.SpotifyURL
	}
	if e.AppleURL != "" {
		return e.AppleURL
	}
	return e.YouTubeURL
}

// StartupIdea represents a startup idea extracted from the archive
type StartupIdea struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Difficulty  string // Easy, Medium, Hard
	MarketSize  string // Small, Medium, Large
	SourceType  string // video, podcast, tweet
	SourceID    string
	SourceURL   string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tweet represents a tweet in the archive
type Tweet struct {
	ID           int64
	TweetID      string
	Content      string
	Author       string
	PublishedAt  time.Time
	RetweetCount int
	LikeCount    int
	ReplyCount   int
	URL          string
	Hashtags     []string
	Mentions     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CategoryCount pairs a video category with how many videos carry it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Record is a tagged variant over the four archive content types.
// Exactly one pointer field is set, matching Type.
type Record struct {
	Type    ContentType
	Video   *Video
	Episode *PodcastEpisode
	Idea    *StartupIdea
	Tweet   *Tweet
}

// NewVideoRecord wraps a Video as a Record
func NewVideoRecord(v *Video) Record {
	return Record{Type: ContentTypeVideo, Video: v}
}

// NewEpisodeRecord wraps a PodcastEpisode as a Record
func NewEpisodeRecord(e *PodcastEpisode) Record {
	return Record{Type: ContentTypePodcast, Episode: e}
}

// NewIdeaRecord wraps a StartupIdea as a Record
func NewIdeaRecord(i *StartupIdea) Record {
	return Record{Type: ContentTypeStartupIdea, Idea: i}
}

// NewTweetRecord wraps a Tweet as a Record
func NewTweetRecord(t *Tweet) Record {
	return Record{Type: ContentTypeTweet, Tweet: t}
}
