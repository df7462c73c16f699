package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gregverse/gregverse/internal/api"
	"github.com/gregverse/gregverse/internal/service"
)

type ContentLister interface {
	ListEpisodes(ctx context.Context, guest, tag string, page, perPage int) (*service.EpisodePage, error)
	ListGuests(ctx context.Context) ([]string, error)
	ListIdeas(ctx context.Context, category, difficulty string, page, perPage int) (*service.IdeaPage, error)
	ListTweets(ctx context.Context, page, perPage int) (*service.TweetPage, error)
}

type ContentHandler struct {
	svc ContentLister
}

func NewContentHandler(svc ContentLister) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func queryPage(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}

// ListEpisodes pages through podcast episodes.
func (h *ContentHandler) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPage(r)
	guest := r.URL.Query().Get("guest")
	tag := r.URL.Query().Get("tag")

	result, err := h.svc.ListEpisodes(r.Context(), guest, tag, page, perPage)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// ListGuests returns all distinct podcast guests.
func (h *ContentHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.svc.ListGuests(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]any{"guests": guests})
}

// ListIdeas pages through startup ideas.
func (h *ContentHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPage(r)
	category := r.URL.Query().Get("category")
	difficulty := r.URL.Query().Get("difficulty")

	result, err := h.svc.ListIdeas(r.Context(), category, difficulty, page, perPage)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// ListTweets pages through the tweet archive.
func (h *ContentHandler) ListTweets(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPage(r)

	result, err := h.svc.ListTweets(r.Context(), page, perPage)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
