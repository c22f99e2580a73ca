package catalog

import (
	"context"

	"github.com/cesargomez89/watchlist/internal/domain"
)

// Provider is the remote metadata source. Results are normalized domain
// values; status defaults to PlanToWatch and watched date is absent.
type Provider interface {
	Search(ctx context.Context, query string, mediaType domain.MediaType) ([]domain.Film, error)
	GetDetails(ctx context.Context, mediaType domain.MediaType, id int64) (*domain.FilmDetails, error)
	GetTrending(ctx context.Context, mediaType domain.MediaType, window domain.TrendingWindow) ([]domain.Film, error)
	Discover(ctx context.Context, mediaType domain.MediaType, filters map[string]any) ([]domain.Film, error)
	GetGenres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error)
}
