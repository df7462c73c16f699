package repository

import (
	"context"

	"github.com/gregverse/gregverse/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatLogRepository stores answered questions for evaluation loops.
type ChatLogRepository struct {
	pool *pgxpool.Pool
}

func NewChatLogRepository(pool *pgxpool.Pool) *ChatLogRepository {
	return &ChatLogRepository{pool: pool}
}

func (r *ChatLogRepository) Record(ctx context.Context, entry domain.ChatLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_logs (question, answer, source_count, user_id, duration_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.Question,
		entry.Answer,
		entry.SourceCount,
		nullableString(entry.UserID),
		entry.Duration.Milliseconds(),
	)
	return err
}
