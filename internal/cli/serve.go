package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregverse/gregverse/internal/api/handlers"
	"github.com/gregverse/gregverse/internal/config"
	"github.com/gregverse/gregverse/internal/database"
	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/jobs"
	"github.com/gregverse/gregverse/internal/openai"
	"github.com/gregverse/gregverse/internal/repository"
	"github.com/gregverse/gregverse/internal/server"
	"github.com/gregverse/gregverse/internal/service"
	"github.com/gregverse/gregverse/internal/stream"
	"github.com/gregverse/gregverse/internal/telemetry"
	"github.com/gregverse/gregverse/internal/youtube"
)

// indexName identifies this deployment's vector index in the
// freshness marker table.
const indexName = "content"

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the gregverse API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	videoRepo := repository.NewVideoRepository(pool)
	episodeRepo := repository.NewEpisodeRepository(pool)
	ideaRepo := repository.NewIdeaRepository(pool)
	tweetRepo := repository.NewTweetRepository(pool)
	markerRepo := repository.NewMarkerRepository(pool)
	docRepo := repository.NewDocumentRepository(pool, markerRepo, indexName, openai.DefaultEmbeddingDimensions)
	statsRepo := repository.NewStatsRepository(pool)
	chatLogRepo := repository.NewChatLogRepository(pool)

	builder := service.NewDocumentBuilder(service.ChunkConfig{
		MaxChars: cfg.ChunkMaxChars,
		Overlap:  cfg.ChunkOverlap,
	})
	stores := []service.RecordStore{videoRepo, episodeRepo, ideaRepo, tweetRepo}

	var chatSvc handlers.ChatService
	var indexer handlers.Indexer
	if cfg.HasOpenAI() {
		aiClient := openai.NewClient(cfg.OpenAIAPIKey)
		indexer = service.NewIndexingService(stores, builder, docRepo, aiClient, markerRepo, indexName, cfg.IndexBatchSize)
		chatSvc = service.NewChatService(docRepo, aiClient, aiClient, chatLogRepo, cfg.RetrievalTopK, cfg.AnswerTimeout)
		log.Println("chat and indexing enabled")
	} else {
		indexer = &noOpIndexer{}
		chatSvc = &noOpChatService{index: docRepo}
		log.Println("GREGVERSE_OPENAI_API_KEY not set, chat and indexing disabled")
	}

	var statsProvider service.ChannelStatsProvider
	if cfg.HasYouTube() {
		ytClient, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, cfg.YouTubeChannelID)
		if err != nil {
			return fmt.Errorf("failed to create youtube client: %w", err)
		}
		statsProvider = ytClient
	}
	statsSvc := service.NewStatsService(statsProvider, statsRepo, videoRepo, episodeRepo, ideaRepo, tweetRepo)
	contentSvc := service.NewContentService(videoRepo, episodeRepo, ideaRepo, tweetRepo)

	hub := stream.NewHub()
	defer hub.Close()

	var statsWorker *jobs.Worker
	if statsProvider != nil {
		statsProcessor := jobs.NewStatsProcessor(statsSvc, hub)
		statsWorker = jobs.NewWorker("stats", statsProcessor, cfg.StatsPollInterval)
		go statsWorker.Start(ctx)
	}

	routerCfg := server.RouterConfig{
		ChatHandler:    handlers.NewChatHandler(chatSvc, indexer),
		SearchHandler:  handlers.NewSearchHandler(contentSvc),
		ContentHandler: handlers.NewContentHandler(contentSvc),
		StatsHandler:   handlers.NewStatsHandler(statsSvc, hub),
	}
	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if statsWorker != nil {
		statsWorker.Stop()
	}
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// noOpIndexer rejects reindex requests when no embedding provider is
// configured.
type noOpIndexer struct{}

func (n *noOpIndexer) Reindex(ctx context.Context, force bool) (*service.ReindexResult, error) {
	return nil, domain.ErrNoOpenAIKey
}

// noOpChatService still serves index stats, but cannot answer.
type noOpChatService struct {
	index service.VectorIndex
}

func (n *noOpChatService) Answer(ctx context.Context, question, userID string) (*domain.ChatAnswer, error) {
	return nil, domain.ErrNoOpenAIKey
}

func (n *noOpChatService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	return n.index.Stats(ctx)
}
