package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/gregverse/gregverse/internal/config"
	"github.com/gregverse/gregverse/internal/database"
	"github.com/gregverse/gregverse/internal/openai"
	"github.com/gregverse/gregverse/internal/repository"
	"github.com/gregverse/gregverse/internal/service"
)

// ReindexCmd returns the reindex command
func ReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from the content archives",
		RunE:  runReindex,
	}

	cmd.Flags().Bool("force", false, "Reindex even when the index is current")

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("GREGVERSE_OPENAI_API_KEY is required for reindexing")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	videoRepo := repository.NewVideoRepository(pool)
	episodeRepo := repository.NewEpisodeRepository(pool)
	ideaRepo := repository.NewIdeaRepository(pool)
	tweetRepo := repository.NewTweetRepository(pool)
	markerRepo := repository.NewMarkerRepository(pool)
	docRepo := repository.NewDocumentRepository(pool, markerRepo, indexName, openai.DefaultEmbeddingDimensions)

	builder := service.NewDocumentBuilder(service.ChunkConfig{
		MaxChars: cfg.ChunkMaxChars,
		Overlap:  cfg.ChunkOverlap,
	})
	stores := []service.RecordStore{videoRepo, episodeRepo, ideaRepo, tweetRepo}

	indexer := service.NewIndexingService(
		stores, builder, docRepo, openai.NewClient(cfg.OpenAIAPIKey), markerRepo, indexName, cfg.IndexBatchSize,
	)

	force, _ := cmd.Flags().GetBool("force")
	result, err := indexer.Reindex(ctx, force)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	log.Printf("reindex: %s (indexed=%d skipped=%d failed_batches=%d)",
		result.Message, result.IndexedCount, result.SkippedCount, result.FailedBatches)
	return nil
}
