package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gregverse/gregverse/internal/api"
	"github.com/gregverse/gregverse/internal/domain"
	"github.com/gregverse/gregverse/internal/service"
	"github.com/gregverse/gregverse/internal/stream"
)

type StatsProvider interface {
	YouTubeStats(ctx context.Context) (*service.YouTubeStatsResult, error)
	Overview(ctx context.Context) (*domain.StatsOverview, error)
}

type StatsHandler struct {
	svc StatsProvider
	hub *stream.Hub
}

func NewStatsHandler(svc StatsProvider, hub *stream.Hub) *StatsHandler {
	return &StatsHandler{svc: svc, hub: hub}
}

// YouTubeStats serves current channel stats, live when possible.
func (h *StatsHandler) YouTubeStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.YouTubeStats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// Overview serves combined channel and archive statistics.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.Overview(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, overview)
}

// Stream serves a server-sent event feed of periodic stats updates.
func (h *StatsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if h.hub == nil {
		api.Error(w, http.StatusServiceUnavailable, "stats stream not available")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// initial comment so clients see the stream open immediately
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: stats\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
