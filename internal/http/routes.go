package httpapp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/watchlist/internal/domain"
	"github.com/cesargomez89/watchlist/internal/http/dto"
)

const maxBodyBytes = 1 << 20

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	mediaType, err := domain.ParseMediaType(r.URL.Query().Get("type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.Provider.Search(r.Context(), query, mediaType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	mediaType, err := domain.ParseMediaType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	details, err := h.Provider.GetDetails(r.Context(), mediaType, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	mediaType, err := domain.ParseMediaType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	window := domain.TrendingWindow(chi.URLParam(r, "window"))

	results, err := h.Provider.GetTrending(r.Context(), mediaType, window)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	mediaType, err := domain.ParseMediaType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.Provider.Discover(r.Context(), mediaType, dto.DiscoverFiltersFromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	mediaType, err := domain.ParseMediaType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	genres, err := h.Provider.GetGenres(r.Context(), mediaType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Watchlist.ListWatchlist(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddToWatchlist accepts film_id and type as query parameters or as a JSON
// body.
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req *dto.AddWatchlistRequest
	if q := r.URL.Query(); q.Has("film_id") || q.Has("type") {
		var errs []dto.ValidationError
		req, errs = dto.AddRequestFromQuery(q)
		if len(errs) > 0 {
			h.writeValidationError(w, errs)
			return
		}
	} else {
		req = &dto.AddWatchlistRequest{}
		if err := decodeBody(w, r, req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidationError(w, errs)
		return
	}

	entry, err := h.Watchlist.AddByExternalID(r.Context(), *req.FilmID, req.MediaType())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) UpdateWatchlistItem(w http.ResponseWriter, r *http.Request) {
	filmID, err := parseID(chi.URLParam(r, "film_id"), "film_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req dto.UpdateWatchlistRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidationError(w, errs)
		return
	}

	entry, err := h.Watchlist.UpdateItem(r.Context(), filmID, req.ToPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteWatchlistItem(w http.ResponseWriter, r *http.Request) {
	filmID, err := parseID(chi.URLParam(r, "film_id"), "film_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Watchlist.RemoveItem(r.Context(), filmID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tools.List())
}

func (h *Handler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: reading body: %v", domain.ErrInvalidArgument, err))
		return
	}

	result, err := h.Tools.Invoke(r.Context(), chi.URLParam(r, "name"), json.RawMessage(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidArgument, field, raw)
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: request body is required", domain.ErrInvalidArgument)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
