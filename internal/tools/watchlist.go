package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cesargomez89/watchlist/internal/app"
	"github.com/cesargomez89/watchlist/internal/catalog"
	"github.com/cesargomez89/watchlist/internal/domain"
)

var (
	typeParam = Param{Name: "type", Type: "string", Enum: []string{"movie", "tv"}, Required: true,
		Description: "The type of media ('movie' or 'tv')."}
	filmIDParam = Param{Name: "film_id", Type: "integer", Required: true,
		Description: "The TMDB ID of the film or series."}
)

// NewWatchlistRegistry registers the catalog and watchlist tools. Each tool
// calls the provider or service directly.
func NewWatchlistRegistry(svc *app.WatchlistService, provider catalog.Provider) *Registry {
	r := NewRegistry()

	r.Register(Tool{
		Name:        "search_tmdb",
		Description: "Search TMDB for movies or TV series.",
		Params: []Param{
			{Name: "query", Type: "string", Required: true, Description: "Title to search for."},
			typeParam,
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Query string `json:"query"`
				Type  string `json:"type"`
			}
			mediaType, err := decodeTyped(raw, &args, &args.Type)
			if err != nil {
				return nil, err
			}
			return provider.Search(ctx, args.Query, mediaType)
		},
	})

	r.Register(Tool{
		Name:        "get_tmdb_details",
		Description: "Get detailed information for a specific movie or TV series from TMDB.",
		Params:      []Param{typeParam, {Name: "id", Type: "integer", Required: true, Description: "The TMDB ID."}},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Type string `json:"type"`
				ID   int64  `json:"id"`
			}
			mediaType, err := decodeTyped(raw, &args, &args.Type)
			if err != nil {
				return nil, err
			}
			return provider.GetDetails(ctx, mediaType, args.ID)
		},
	})

	r.Register(Tool{
		Name:        "get_tmdb_trending",
		Description: "Get trending movies or TV series from TMDB.",
		Params: []Param{
			typeParam,
			{Name: "window", Type: "string", Enum: []string{"day", "week"}, Required: true, Description: "Trending time window."},
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Type   string `json:"type"`
				Window string `json:"window"`
			}
			mediaType, err := decodeTyped(raw, &args, &args.Type)
			if err != nil {
				return nil, err
			}
			return provider.GetTrending(ctx, mediaType, domain.TrendingWindow(args.Window))
		},
	})

	r.Register(Tool{
		Name:        "discover_tmdb_media",
		Description: "Discover movies or TV series from TMDB based on filters.",
		Params: []Param{
			typeParam,
			{Name: "filters", Type: "object", Description: `Filter parameters, e.g. {"with_genres": [28, 12], "sort_by": "popularity.desc"}.`},
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Type    string         `json:"type"`
				Filters map[string]any `json:"filters"`
			}
			mediaType, err := decodeTyped(raw, &args, &args.Type)
			if err != nil {
				return nil, err
			}
			return provider.Discover(ctx, mediaType, args.Filters)
		},
	})

	r.Register(Tool{
		Name:        "get_tmdb_genres",
		Description: "Get the list of official genres for movies or TV series from TMDB.",
		Params:      []Param{typeParam},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Type string `json:"type"`
			}
			mediaType, err := decodeTyped(raw, &args, &args.Type)
			if err != nil {
				return nil, err
			}
			return provider.GetGenres(ctx, mediaType)
		},
	})

	r.Register(Tool{
		Name:        "get_my_watchlist",
		Description: "Retrieve all items from the local watchlist.",
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			if err := decodeArgs(raw, &struct{}{}); err != nil {
				return nil, err
			}
			return svc.ListWatchlist(ctx)
		},
	})

	r.Register(Tool{
		Name:        "add_to_my_watchlist",
		Description: "Add a film to the local watchlist by its TMDB id and type.",
		Params:      []Param{filmIDParam, typeParam},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Type   string `json:"type"`
				FilmID int64  `json:"film_id"`
			}
			mediaType, err := decodeTyped(raw, &args, &args.Type)
			if err != nil {
				return nil, err
			}
			return svc.AddByExternalID(ctx, args.FilmID, mediaType)
		},
	})

	r.Register(Tool{
		Name:        "update_my_watchlist_item",
		Description: "Update the status and/or watched date of an item in the local watchlist.",
		Params: []Param{
			filmIDParam,
			{Name: "status", Type: "string", Enum: []string{"PlanToWatch", "Watching", "Watched", "Dropped", "OnHold"},
				Description: "The new viewing status."},
			{Name: "watched_date", Type: "string",
				Description: "The new watched date (YYYY-MM-DD). Send null or an empty string to clear."},
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				Status      *domain.Status                   `json:"status"`
				WatchedDate domain.Optional[domain.NullDate] `json:"watched_date"`
				FilmID      int64                            `json:"film_id"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}

			// An empty status means "leave as is" for tool callers.
			patch := domain.FilmPatch{WatchedDate: args.WatchedDate}
			if args.Status != nil && *args.Status != "" {
				patch.Status = domain.Some(*args.Status)
			}
			if patch.IsEmpty() {
				return nil, fmt.Errorf("%w: no update data provided, supply status or watched_date", domain.ErrInvalidArgument)
			}
			return svc.UpdateItem(ctx, args.FilmID, patch)
		},
	})

	r.Register(Tool{
		Name:        "delete_from_my_watchlist",
		Description: "Delete an item from the local watchlist.",
		Params:      []Param{filmIDParam},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args struct {
				FilmID int64 `json:"film_id"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if err := svc.RemoveItem(ctx, args.FilmID); err != nil {
				return nil, err
			}
			return map[string]string{
				"status":  "success",
				"message": fmt.Sprintf("Film %d removed from the watchlist.", args.FilmID),
			}, nil
		},
	})

	return r
}

// decodeTyped decodes args into dst and parses the media type field.
func decodeTyped(raw json.RawMessage, dst any, mediaType *string) (domain.MediaType, error) {
	if err := decodeArgs(raw, dst); err != nil {
		return "", err
	}
	return domain.ParseMediaType(*mediaType)
}
