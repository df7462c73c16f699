//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregverse/gregverse/internal/domain"
)

func testEpisode(title, guest string, tags []string) *domain.PodcastEpisode {
	return &domain.PodcastEpisode{
		Title:         title,
		Description:   "an episode",
		Guest:         guest,
		EpisodeNumber: 1,
		PublishedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Tags:          tags,
		SpotifyURL:    "https://open.spotify.com/episode/x",
	}
}

func TestEpisodeRepository_CreateAndGet(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewEpisodeRepository(pool)
	ctx := context.Background()

	e := testEpisode("Building in Public", "Jane Founder", []string{"growth"})
	require.NoError(t, repo.Create(ctx, e))
	assert.NotZero(t, e.ID)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Founder", got.Guest)
	assert.Equal(t, []string{"growth"}, got.Tags)

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, domain.ErrEpisodeNotFound)
}

func TestEpisodeRepository_ListFilters(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewEpisodeRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEpisode("ep1", "Jane Founder", []string{"growth", "saas"})))
	require.NoError(t, repo.Create(ctx, testEpisode("ep2", "Alex Builder", []string{"nocode"})))
	require.NoError(t, repo.Create(ctx, testEpisode("ep3", "Jane Founder", []string{"community"})))

	// guest is a case-insensitive substring match
	episodes, total, err := repo.List(ctx, "jane", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, episodes, 2)

	// tag is an exact array membership match
	episodes, total, err = repo.List(ctx, "", "nocode", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, episodes, 1)
	assert.Equal(t, "ep2", episodes[0].Title)

	// both filters combine
	_, total, err = repo.List(ctx, "jane", "saas", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestEpisodeRepository_Guests(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewEpisodeRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEpisode("ep1", "Zoe", nil)))
	require.NoError(t, repo.Create(ctx, testEpisode("ep2", "Alex", nil)))
	require.NoError(t, repo.Create(ctx, testEpisode("ep3", "Zoe", nil)))
	require.NoError(t, repo.Create(ctx, testEpisode("ep4", "", nil)))

	guests, err := repo.Guests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex", "Zoe"}, guests)
}

func TestIdeaRepository_ListFilters(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewIdeaRepository(pool)
	ctx := context.Background()

	ideas := []*domain.StartupIdea{
		{Title: "idea1", Description: "d", Category: "SaaS", Difficulty: "Easy"},
		{Title: "idea2", Description: "d", Category: "SaaS", Difficulty: "Hard"},
		{Title: "idea3", Description: "d", Category: "Marketplace", Difficulty: "Easy"},
	}
	for _, i := range ideas {
		require.NoError(t, repo.Create(ctx, i))
	}

	_, total, err := repo.List(ctx, "SaaS", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, total, err = repo.List(ctx, "", "Easy", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	listed, total, err := repo.List(ctx, "SaaS", "Easy", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, "idea1", listed[0].Title)
}

func TestTweetRepository_CreateAndList(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewTweetRepository(pool)
	ctx := context.Background()

	older := &domain.Tweet{
		TweetID:     "t1",
		Content:     "older tweet",
		Author:      "gregisenberg",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &domain.Tweet{
		TweetID:     "t2",
		Content:     "newer tweet",
		Author:      "gregisenberg",
		PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	tweets, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, tweets, 2)
	assert.Equal(t, "t2", tweets[0].TweetID)

	got, err := repo.GetByTweetID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "older tweet", got.Content)

	_, err = repo.GetByTweetID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTweetNotFound)
}

func TestStatsRepository_SaveAndLatest(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewStatsRepository(pool)
	ctx := context.Background()

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	older := &domain.ChannelStats{
		ChannelID:       "UC-greg",
		SubscriberCount: 700_000,
		FetchedAt:       time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
	}
	newer := &domain.ChannelStats{
		ChannelID:       "UC-greg",
		SubscriberCount: 750_000,
		FetchedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	got, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(750_000), got.SubscriberCount)
}

func TestChatLogRepository_Record(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewChatLogRepository(pool)
	ctx := context.Background()

	entry := domain.ChatLogEntry{
		Question:    "what is vibe marketing?",
		Answer:      "an answer",
		SourceCount: 3,
		UserID:      "user-1",
		Duration:    1200 * time.Millisecond,
	}
	require.NoError(t, repo.Record(ctx, entry))

	// anonymous questions store a NULL user id
	entry.UserID = ""
	require.NoError(t, repo.Record(ctx, entry))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_logs`).Scan(&count))
	assert.Equal(t, 2, count)

	var durationMS int64
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT duration_ms FROM chat_logs WHERE user_id = 'user-1'`).Scan(&durationMS))
	assert.Equal(t, int64(1200), durationMS)
}
