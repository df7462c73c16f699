package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/telemetry"
)

const (
	// DefaultIndexBatchSize bounds upsert payloads to the provider
	DefaultIndexBatchSize = 50
	// maxBatchAttempts bounds retries for one failed batch
	maxBatchAttempts = 3
	// batchBackoffBase is the initial retry delay, doubled per attempt
	batchBackoffBase = 100 * time.Millisecond
)

// RecordStore enumerates one archive's records for indexing.
type RecordStore interface {
	ListAll(ctx context.Context) ([]domain.Record, error)
	LastModifiedAt(ctx context.Context) (time.Time, error)
}

// VectorIndex is the thin contract over the vector storage provider.
// Upsert is idempotent on (content_type, source_id, chunk_index).
type VectorIndex interface {
	Upsert(ctx context.Context, docs []domain.IndexedDocument) error
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]domain.ScoredDocument, error)
	Stats(ctx context.Context) (*domain.IndexStats, error)
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// MarkerRepository persists the freshness marker per index name.
type MarkerRepository interface {
	LastIndexedAt(ctx context.Context, name string) (*time.Time, error)
	SetLastIndexedAt(ctx context.Context, name string, t time.Time) error
}

// ReindexResult summarizes one reindex run.
type ReindexResult struct {
	IndexedCount  int    `json:"indexed_count"`
	SkippedCount  int    `json:"skipped_count"`
	FailedBatches int    `json:"failed_batches"`
	Message       string `json:"message"`
}

// IndexingService walks every record store, builds documents, and
// bulk-loads them into the vector index.
type IndexingService struct {
	stores    []RecordStore
	builder   *DocumentBuilder
	index     VectorIndex
	embedder  EmbeddingClient
	markers   MarkerRepository
	indexName string
	batchSize int

	// at-most-one concurrent reindex; questions may interleave freely
	mu sync.Mutex
}

// NewIndexingService creates a new IndexingService instance
func NewIndexingService(
	stores []RecordStore,
	builder *DocumentBuilder,
	index VectorIndex,
	embedder EmbeddingClient,
	markers MarkerRepository,
	indexName string,
	batchSize int,
) *IndexingService {
	if batchSize <= 0 {
		batchSize = DefaultIndexBatchSize
	}
	return &IndexingService{
		stores:    stores,
		builder:   builder,
		index:     index,
		embedder:  embedder,
		markers:   markers,
		indexName: indexName,
		batchSize: batchSize,
	}
}

// Reindex rebuilds the vector index from the record stores. When force
// is false and the freshness marker is newer than every store's last
// mutation, it returns a no-op result. The marker only advances on a
// fully clean run, so dropped batches are retried by the next call.
// A concurrent call receives ErrReindexInProgress instead of queueing.
func (s *IndexingService) Reindex(ctx context.Context, force bool) (*ReindexResult, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrReindexInProgress
	}
	defer s.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "IndexingService.Reindex", telemetry.SpanAttributes{
		Operation: "reindex",
	})
	defer span.End()

	if !force {
		current, err := s.isIndexCurrent(ctx)
		if err != nil {
			return nil, err
		}
		if current {
			return &ReindexResult{Message: "index is current, no reindexing needed"}, nil
		}
	}

	result := &ReindexResult{}
	batch := make([]domain.IndexedDocument, 0, s.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.submitBatch(ctx, batch); err != nil {
			log.Printf("reindex: batch of %d failed after %d attempts: %v", len(batch), maxBatchAttempts, err)
			result.FailedBatches++
		} else {
			result.IndexedCount += len(batch)
		}
		batch = batch[:0]
	}

	for _, store := range s.stores {
		records, err := store.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}

		for _, rec := range records {
			docs, err := s.builder.Build(rec)
			if err != nil {
				result.SkippedCount++
				continue
			}
			for _, doc := range docs {
				batch = append(batch, doc)
				if len(batch) >= s.batchSize {
					flush()
				}
			}
		}
	}
	flush()

	// Leave the marker stale when any batch was dropped so the next
	// non-force reindex picks those documents back up.
	if result.FailedBatches == 0 {
		if err := s.markers.SetLastIndexedAt(ctx, s.indexName, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("failed to update freshness marker: %w", err)
		}
		result.Message = "content indexed successfully"
	} else {
		result.Message = "content partially indexed, failed batches will be retried"
	}
	log.Printf("reindex: indexed=%d skipped=%d failed_batches=%d", result.IndexedCount, result.SkippedCount, result.FailedBatches)
	return result, nil
}

// isIndexCurrent compares the freshness marker against the most recent
// record mutation across all stores.
func (s *IndexingService) isIndexCurrent(ctx context.Context) (bool, error) {
	marker, err := s.markers.LastIndexedAt(ctx, s.indexName)
	if err != nil {
		return false, fmt.Errorf("failed to read freshness marker: %w", err)
	}
	if marker == nil {
		return false, nil
	}

	for _, store := range s.stores {
		modified, err := store.LastModifiedAt(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to read store mutation time: %w", err)
		}
		if modified.After(*marker) {
			return false, nil
		}
	}
	return true, nil
}

// submitBatch embeds and upserts one batch, retrying with exponential
// backoff before giving up on the batch.
func (s *IndexingService) submitBatch(ctx context.Context, batch []domain.IndexedDocument) error {
	var lastErr error
	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		if attempt > 0 {
			delay := batchBackoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if lastErr = s.trySubmit(ctx, batch); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (s *IndexingService) trySubmit(ctx context.Context, batch []domain.IndexedDocument) error {
	for i := range batch {
		if batch[i].Embedding != nil {
			continue
		}
		embedding, err := s.embedder.GenerateEmbedding(ctx, batch[i].Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of %s: %w", batch[i].ChunkIndex, batch[i].SourceID, err)
		}
		batch[i].Embedding = embedding
	}

	return s.index.Upsert(ctx, batch)
}
