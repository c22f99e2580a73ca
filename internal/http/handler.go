package httpapp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/watchlist/internal/app"
	"github.com/cesargomez89/watchlist/internal/catalog"
	"github.com/cesargomez89/watchlist/internal/constants"
	"github.com/cesargomez89/watchlist/internal/logger"
	"github.com/cesargomez89/watchlist/internal/tools"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Watchlist *app.WatchlistService
	Provider  catalog.Provider
	Tools     *tools.Registry
	Store     Pinger
	Logger    *logger.Logger
}

func NewHandler(svc *app.WatchlistService, provider catalog.Provider, registry *tools.Registry, store Pinger, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Watchlist: svc,
		Provider:  provider,
		Tools:     registry,
		Store:     store,
		Logger:    log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/details/{type}/{id}", h.Details)
		r.Get("/trending/{type}/{window}", h.Trending)
		r.Get("/discover/{type}", h.Discover)
		r.Get("/genres/{type}", h.Genres)

		r.Get("/watchlist", h.ListWatchlist)
		r.Post("/watchlist", h.AddToWatchlist)
		r.Patch("/watchlist/{film_id}", h.UpdateWatchlistItem)
		r.Delete("/watchlist/{film_id}", h.DeleteWatchlistItem)

		r.Get("/tools", h.ListTools)
		r.Post("/tools/{name}", h.InvokeTool)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		if err := h.Store.Ping(r.Context()); err != nil {
			h.Logger.Error("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
