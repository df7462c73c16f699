package config

import (
	"fmt"
	"log"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Chunking parameters for the indexing pipeline
	ChunkMaxChars int `envconfig:"CHUNK_MAX_CHARS" default:"1000"`
	ChunkOverlap  int `envconfig:"CHUNK_OVERLAP" default:"200"`

	// Reindex batching tuned to the embedding provider's payload limits
	IndexBatchSize int `envconfig:"INDEX_BATCH_SIZE" default:"50"`

	// Bound on the full retrieve+generate path for one question
	AnswerTimeout time.Duration `envconfig:"ANSWER_TIMEOUT" default:"30s"`
	RetrievalTopK int           `envconfig:"RETRIEVAL_TOP_K" default:"5"`

	YouTubeAPIKey    string `envconfig:"YOUTUBE_API_KEY"`
	YouTubeChannelID string `envconfig:"YOUTUBE_CHANNEL_ID" default:"UCGy7SkBjcIAgTiwkXEtPnYg"`

	StatsPollInterval time.Duration `envconfig:"STATS_POLL_INTERVAL" default:"10m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("GREGVERSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate rejects malformed chunking parameters at startup rather
// than per-request.
func (c *Config) Validate() error {
	if c.ChunkMaxChars <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkMaxChars {
		return domain.NewDomainErrorWithCause(domain.ErrCodeConfiguration,
			"invalid chunking parameters",
			fmt.Errorf("max_chars=%d overlap=%d", c.ChunkMaxChars, c.ChunkOverlap))
	}
	if c.IndexBatchSize <= 0 {
		return domain.NewDomainError(domain.ErrCodeConfiguration, "index batch size must be positive")
	}
	return nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasYouTube() bool {
	return c.YouTubeAPIKey != ""
}
