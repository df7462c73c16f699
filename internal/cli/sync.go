package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/gregverse/gregverse/internal/config"
	"github.com/gregverse/gregverse/internal/database"
	"github.com/gregverse/gregverse/internal/repository"
	"github.com/gregverse/gregverse/internal/service"
	"github.com/gregverse/gregverse/internal/youtube"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync channel uploads from YouTube into the video archive",
		RunE:  runSync,
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasYouTube() {
		return fmt.Errorf("GREGVERSE_YOUTUBE_API_KEY is required for syncing")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ytClient, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, cfg.YouTubeChannelID)
	if err != nil {
		return fmt.Errorf("failed to create youtube client: %w", err)
	}

	syncSvc := service.NewSyncService(ytClient, repository.NewVideoRepository(pool))
	result, err := syncSvc.SyncVideos(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	log.Printf("sync: %d videos across %d pages (%d failed)", result.Synced, result.Pages, result.Failed)

	// refresh channel stats while we have a live client
	statsSvc := service.NewStatsService(ytClient, repository.NewStatsRepository(pool), nil, nil, nil, nil)
	if _, err := statsSvc.YouTubeStats(ctx); err != nil {
		log.Printf("sync: stats refresh failed: %v", err)
	}

	return nil
}
