package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gregverse/gregverse/internal/api"
	"github.com/gregverse/gregverse/internal/api/middleware"
	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/service"
)

type ChatService interface {
	Answer(ctx context.Context, question, userID string) (*domain.ChatAnswer, error)
	Stats(ctx context.Context) (*domain.IndexStats, error)
}

type Indexer interface {
	Reindex(ctx context.Context, force bool) (*service.ReindexResult, error)
}

type ChatHandler struct {
	chat    ChatService
	indexer Indexer
}

func NewChatHandler(chat ChatService, indexer Indexer) *ChatHandler {
	return &ChatHandler{chat: chat, indexer: indexer}
}

type AskRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

type IndexRequest struct {
	Force bool `json:"force"`
}

type IndexStatsResponse struct {
	TotalVectors  int64  `json:"total_vectors"`
	Dimension     int    `json:"dimension"`
	LastIndexedAt string `json:"last_indexed_at,omitempty"`
	Status        string `json:"status"`
}

// Ask answers a question grounded in the content archive.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// the body field wins over the X-User-ID header
	userID := req.UserID
	if userID == "" {
		userID = middleware.GetUserID(r.Context())
	}

	answer, err := h.chat.Answer(r.Context(), req.Question, userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, answer)
}

// Index triggers a reindex of all content into the vector index.
func (h *ChatHandler) Index(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.indexer.Reindex(r.Context(), req.Force)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// Stats reports the shape of the vector index.
func (h *ChatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.chat.Stats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := IndexStatsResponse{
		TotalVectors: stats.TotalVectors,
		Dimension:    stats.Dimension,
		Status:       stats.Status,
	}
	if stats.LastIndexedAt != nil {
		resp.LastIndexedAt = stats.LastIndexedAt.UTC().Format(time.RFC3339)
	}

	api.Success(w, http.StatusOK, resp)
}
