package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gregverse/gregverse/internal/api/handlers"
	"github.com/gregverse/gregverse/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler    *handlers.ChatHandler
	SearchHandler  *handlers.SearchHandler
	ContentHandler *handlers.ContentHandler
	StatsHandler   *handlers.StatsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/chat", func(r chi.Router) {
			r.Post("/ask", cfg.ChatHandler.Ask)
			r.Post("/index", cfg.ChatHandler.Index)
			r.Get("/stats", cfg.ChatHandler.Stats)
		})

		r.Route("/search", func(r chi.Router) {
			r.Post("/videos", cfg.SearchHandler.SearchVideos)
			r.Get("/autocomplete", cfg.SearchHandler.Autocomplete)
			r.Get("/categories", cfg.SearchHandler.Categories)
			r.Get("/trending", cfg.SearchHandler.Trending)
		})

		r.Route("/episodes", func(r chi.Router) {
			r.Get("/", cfg.ContentHandler.ListEpisodes)
			r.Get("/guests", cfg.ContentHandler.ListGuests)
		})

		r.Get("/ideas", cfg.ContentHandler.ListIdeas)
		r.Get("/tweets", cfg.ContentHandler.ListTweets)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/youtube", cfg.StatsHandler.YouTubeStats)
			r.Get("/overview", cfg.StatsHandler.Overview)
			r.Get("/stream", cfg.StatsHandler.Stream)
		})
	})

	return r
}
