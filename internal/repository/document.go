package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// DocumentRepository stores indexed document chunks with their
// embeddings and serves similarity queries over them.
type DocumentRepository struct {
	pool      *pgxpool.Pool
	markers   *MarkerRepository
	indexName string
	dimension int
}

func NewDocumentRepository(pool *pgxpool.Pool, markers *MarkerRepository, indexName string, dimension int) *DocumentRepository {
	return &DocumentRepository{
		pool:      pool,
		markers:   markers,
		indexName: indexName,
		dimension: dimension,
	}
}

// Upsert writes documents keyed by (content_type, source_id,
// chunk_index); resubmitting an identity overwrites in place.
func (r *DocumentRepository) Upsert(ctx context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, doc := range docs {
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}

		_, err = r.pool.Exec(ctx,
			`INSERT INTO documents
				(content_type, source_id, chunk_index, content, metadata, published_at, embedding, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			 ON CONFLICT (content_type, source_id, chunk_index) DO UPDATE SET
				content = EXCLUDED.content,
				metadata = EXCLUDED.metadata,
				published_at = EXCLUDED.published_at,
				embedding = EXCLUDED.embedding,
				updated_at = EXCLUDED.updated_at`,
			string(doc.ContentType),
			doc.SourceID,
			doc.ChunkIndex,
			doc.Content,
			meta,
			doc.PublishedAt,
			pgvector.NewVector(doc.Embedding),
			now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Query returns the k nearest documents by cosine similarity. Every
// filter entry becomes an exact-match predicate: content_type against
// its column, any other key against the metadata JSONB. Equal
// distances break toward the newer publish date.
func (r *DocumentRepository) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]domain.ScoredDocument, error) {
	if k <= 0 {
		k = 5
	}

	query := `
		SELECT content_type, source_id, chunk_index, content, metadata, published_at,
		       1 - (embedding <=> $1) AS score
		FROM documents`
	args := []any{pgvector.NewVector(vector)}

	var predicates []string
	for key, value := range filter {
		if value == "" {
			continue
		}
		if key == "content_type" {
			args = append(args, value)
			predicates = append(predicates, fmt.Sprintf("content_type = $%d", len(args)))
			continue
		}
		args = append(args, key, value)
		predicates = append(predicates, fmt.Sprintf("metadata->>$%d = $%d", len(args)-1, len(args)))
	}
	if len(predicates) > 0 {
		query += " WHERE " + strings.Join(predicates, " AND ")
	}

	query += fmt.Sprintf(`
		ORDER BY embedding <=> $1 ASC, published_at DESC
		LIMIT $%d`, len(args)+1)
	args = append(args, k)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.ScoredDocument, 0, k)
	for rows.Next() {
		var doc domain.IndexedDocument
		var contentType string
		var meta []byte
		var score float32
		if err := rows.Scan(&contentType, &doc.SourceID, &doc.ChunkIndex, &doc.Content, &meta, &doc.PublishedAt, &score); err != nil {
			return nil, err
		}
		doc.ContentType = domain.ContentType(contentType)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		results = append(results, domain.ScoredDocument{Document: doc, Score: score})
	}
	return results, rows.Err()
}

// Stats summarizes the index: vector count, dimension, and when the
// last full indexing run completed.
func (r *DocumentRepository) Stats(ctx context.Context) (*domain.IndexStats, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, err
	}

	stats := &domain.IndexStats{
		TotalVectors: total,
		Dimension:    r.dimension,
		Status:       "ready",
	}
	if total == 0 {
		stats.Status = "empty"
	}

	if r.markers != nil {
		lastIndexed, err := r.markers.LastIndexedAt(ctx, r.indexName)
		if err != nil {
			return nil, err
		}
		stats.LastIndexedAt = lastIndexed
	}
	return stats, nil
}
