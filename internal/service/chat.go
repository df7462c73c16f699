package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/telemetry"
)

const (
	// DefaultRetrievalTopK is how many chunks ground an answer
	DefaultRetrievalTopK = 5
	// DefaultAnswerTimeout bounds the full ask pipeline
	DefaultAnswerTimeout = 30 * time.Second
)

// degradedAnswer is returned when retrieval cannot ground the question.
const degradedAnswer = "I don't have enough indexed content to answer that yet. " +
	"Try asking about Greg's videos, podcast episodes, startup ideas, or tweets, " +
	"or trigger indexing and ask again."

// CompletionClient defines the interface for generating chat completions
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatLogStore records answered questions. Failures are logged, never
// surfaced to the caller.
type ChatLogStore interface {
	Record(ctx context.Context, entry domain.ChatLogEntry) error
}

// ChatService answers questions about the content archive using
// retrieval-augmented generation.
type ChatService struct {
	index    VectorIndex
	embedder EmbeddingClient
	llm      CompletionClient
	logs     ChatLogStore
	topK     int
	timeout  time.Duration
}

// NewChatService creates a new ChatService instance
func NewChatService(index VectorIndex, embedder EmbeddingClient, llm CompletionClient, logs ChatLogStore, topK int, timeout time.Duration) *ChatService {
	if topK <= 0 {
		topK = DefaultRetrievalTopK
	}
	if timeout <= 0 {
		timeout = DefaultAnswerTimeout
	}
	return &ChatService{
		index:    index,
		embedder: embedder,
		llm:      llm,
		logs:     logs,
		topK:     topK,
		timeout:  timeout,
	}
}

// Answer runs the full ask pipeline: embed the question, retrieve the
// closest chunks, and generate a grounded answer. A retrieval failure
// or an empty index degrades to a fixed answer with no sources; a
// completion failure returns ErrAnswerUnavailable.
func (s *ChatService) Answer(ctx context.Context, question, userID string) (*domain.ChatAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Answer", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	retrieved, err := s.retrieve(ctx, question)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrAnswerTimedOut
		}
		log.Printf("chat: retrieval degraded: %v", err)
		retrieved = nil
	}

	if len(retrieved) == 0 {
		answer := s.degraded(question)
		s.record(answer, userID, time.Since(started))
		return answer, nil
	}

	prompt := buildPrompt(question, retrieved)
	completion, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrAnswerTimedOut
		}
		span.SetError(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrAnswerUnavailable, err)
	}

	answer := &domain.ChatAnswer{
		Question:  question,
		Answer:    completion,
		Sources:   projectSources(retrieved),
		Timestamp: time.Now().UTC(),
	}
	s.record(answer, userID, time.Since(started))
	return answer, nil
}

// Stats reports the current shape of the vector index.
func (s *ChatService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStatsUnavailable, err)
	}
	return stats, nil
}

func (s *ChatService) retrieve(ctx context.Context, question string) ([]domain.ScoredDocument, error) {
	vector, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	docs, err := s.index.Query(ctx, vector, s.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	return docs, nil
}

func (s *ChatService) degraded(question string) *domain.ChatAnswer {
	return &domain.ChatAnswer{
		Question:  question,
		Answer:    degradedAnswer,
		Sources:   []domain.RetrievedSource{},
		Timestamp: time.Now().UTC(),
	}
}

// record writes the chat log off the request path. The goroutine gets
// a detached context so a slow log write never delays the response.
func (s *ChatService) record(answer *domain.ChatAnswer, userID string, duration time.Duration) {
	if s.logs == nil {
		return
	}
	entry := domain.ChatLogEntry{
		Question:    answer.Question,
		Answer:      answer.Answer,
		SourceCount: len(answer.Sources),
		UserID:      userID,
		Duration:    duration,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.logs.Record(ctx, entry); err != nil {
			log.Printf("chat: failed to record chat log: %v", err)
		}
	}()
}

// buildPrompt assembles the grounding prompt: persona, numbered source
// blocks, then the question with a citation instruction.
func buildPrompt(question string, docs []domain.ScoredDocument) string {
	var b strings.Builder
	b.WriteString("You are GregQ, an assistant that answers questions about Greg Isenberg's ")
	b.WriteString("videos, podcast episodes, startup ideas, and tweets.\n")
	b.WriteString("Answer using ONLY the sources below. If the sources do not contain the ")
	b.WriteString("answer, say so plainly. Cite sources inline as [Source N].\n\n")

	for i, doc := range docs {
		fmt.Fprintf(&b, "[Source %d: %s (%s)]\n%s\n\n", i+1, doc.Document.Title(), doc.Document.ContentType, doc.Document.Content)
	}

	fmt.Fprintf(&b, "Question: %s\nAnswer:", question)
	return b.String()
}

// projectSources converts retrieved chunks into response-facing source
// entries with type-specific fields and bounded excerpts.
func projectSources(docs []domain.ScoredDocument) []domain.RetrievedSource {
	sources := make([]domain.RetrievedSource, 0, len(docs))
	for _, doc := range docs {
		src := domain.RetrievedSource{
			ContentType: doc.Document.ContentType,
			Title:       doc.Document.Title(),
			URL:         doc.Document.URL(),
			Excerpt:     domain.TruncateExcerpt(doc.Document.Content),
			Score:       doc.Score,
			PublishedAt: metaString(doc.Document.Metadata, domain.MetaPublishedAt),
		}
		meta := doc.Document.Metadata
		switch doc.Document.ContentType {
		case domain.ContentTypeVideo:
			src.Channel = metaString(meta, domain.MetaChannel)
			src.ViewCount = int64(metaInt(meta, domain.MetaViewCount))
		case domain.ContentTypePodcast:
			src.Guest = metaString(meta, domain.MetaGuest)
			src.EpisodeNumber = metaInt(meta, domain.MetaEpisodeNumber)
		case domain.ContentTypeStartupIdea:
			src.Category = metaString(meta, domain.MetaCategory)
			src.Difficulty = metaString(meta, domain.MetaDifficulty)
		case domain.ContentTypeTweet:
			src.Author = metaString(meta, domain.MetaAuthor)
		}
		sources = append(sources, src)
	}
	return sources
}

func metaString(meta domain.Metadata, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaInt(meta domain.Metadata, key string) int {
	if meta == nil {
		return 0
	}
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
