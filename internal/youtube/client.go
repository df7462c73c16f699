// Package youtube wraps the YouTube Data API for channel stats and
// uploads listing.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	youtubev3 "google.golang.org/api/youtube/v3"

	"github.com/gregverse/gregverse/internal/domain"
)

// uploadsPageSize is the maximum the playlistItems endpoint allows
const uploadsPageSize = 50

var (
	ErrNoAPIKey        = errors.New("youtube api key not configured")
	ErrChannelNotFound = errors.New("channel not found")
)

// Client fetches channel stats and uploaded videos for one channel.
type Client struct {
	svc       *youtubev3.Service
	channelID string

	// resolved lazily from the channel's contentDetails
	uploadsPlaylistID string
}

// NewClient creates a YouTube Data API client for the given channel.
func NewClient(ctx context.Context, apiKey, channelID string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	svc, err := youtubev3.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{svc: svc, channelID: channelID}, nil
}

// ChannelStats fetches the channel's current public counters.
func (c *Client) ChannelStats(ctx context.Context) (*domain.ChannelStats, error) {
	resp, err := c.svc.Channels.List([]string{"statistics"}).
		Id(c.channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel statistics: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	stats := resp.Items[0].Statistics
	return &domain.ChannelStats{
		ChannelID:       c.channelID,
		SubscriberCount: int64(stats.SubscriberCount),
		ViewCount:       int64(stats.ViewCount),
		VideoCount:      int64(stats.VideoCount),
		FetchedAt:       time.Now().UTC(),
	}, nil
}

// ListUploads returns one page of the channel's uploads playlist,
// newest first, plus the token for the next page ("" when exhausted).
func (c *Client) ListUploads(ctx context.Context, pageToken string) ([]domain.Video, string, error) {
	playlistID, err := c.resolveUploadsPlaylist(ctx)
	if err != nil {
		return nil, "", err
	}

	call := c.svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(uploadsPageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch uploads page: %w", err)
	}

	videos := make([]domain.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		snippet := item.Snippet
		if snippet == nil || snippet.ResourceId == nil {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, snippet.PublishedAt)
		if err != nil {
			publishedAt = time.Time{}
		}

		videos = append(videos, domain.Video{
			YouTubeID:    snippet.ResourceId.VideoId,
			Title:        snippet.Title,
			Description:  snippet.Description,
			Channel:      snippet.ChannelTitle,
			PublishedAt:  publishedAt,
			ThumbnailURL: bestThumbnail(snippet.Thumbnails),
		})
	}
	return videos, resp.NextPageToken, nil
}

func (c *Client) resolveUploadsPlaylist(ctx context.Context) (string, error) {
	if c.uploadsPlaylistID != "" {
		return c.uploadsPlaylistID, nil
	}

	resp, err := c.svc.Channels.List([]string{"contentDetails"}).
		Id(c.channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to resolve uploads playlist: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return "", ErrChannelNotFound
	}

	c.uploadsPlaylistID = resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	return c.uploadsPlaylistID, nil
}

func bestThumbnail(t *youtubev3.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, candidate := range []*youtubev3.Thumbnail{t.High, t.Medium, t.Default} {
		if candidate != nil && candidate.Url != "" {
			return candidate.Url
		}
	}
	return ""
}
