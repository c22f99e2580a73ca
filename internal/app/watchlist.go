package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/cesargomez89/watchlist/internal/catalog"
	"github.com/cesargomez89/watchlist/internal/domain"
	"github.com/cesargomez89/watchlist/internal/logger"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListAll(ctx context.Context) ([]domain.WatchlistEntry, error)
	Insert(ctx context.Context, film domain.Film, meta domain.Meta, genres []string) (*domain.WatchlistEntry, error)
	UpdatePartial(ctx context.Context, filmID int64, patch domain.FilmPatch) (*domain.WatchlistEntry, error)
	Delete(ctx context.Context, filmID int64) error
}

type WatchlistService struct {
	Repo    Store
	Catalog catalog.Provider
	Logger  *logger.Logger
}

func NewWatchlistService(repo Store, provider catalog.Provider, log *logger.Logger) *WatchlistService {
	if log == nil {
		log = logger.Default()
	}
	return &WatchlistService{Repo: repo, Catalog: provider, Logger: log.WithComponent("watchlist")}
}

// AddByExternalID fetches the title from the remote service and stores it as
// a new PlanToWatch entry. A remote failure leaves the store untouched.
func (s *WatchlistService) AddByExternalID(ctx context.Context, filmID int64, mediaType domain.MediaType) (*domain.WatchlistEntry, error) {
	if filmID <= 0 {
		return nil, fmt.Errorf("%w: film_id must be positive, got %d", domain.ErrInvalidArgument, filmID)
	}
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: invalid media type %q", domain.ErrInvalidArgument, mediaType)
	}

	log := s.Logger.WithFilm(filmID, string(mediaType))

	details, err := s.Catalog.GetDetails(ctx, mediaType, filmID)
	if err != nil {
		log.Warn("Failed to fetch details", "error", err)
		return nil, err
	}

	film := details.Film
	film.FilmID = filmID
	film.MediaType = mediaType
	film.Status = domain.StatusPlanToWatch
	film.WatchedDate = domain.NullDate{}

	entry, err := s.Repo.Insert(ctx, film, details.Meta, details.Genres)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Info("Film already on watchlist")
		} else {
			log.Error("Failed to store film", "error", err)
		}
		return nil, err
	}

	log.Info("Film added", "title", entry.Title, "genres", len(entry.Genres))
	return entry, nil
}

func (s *WatchlistService) ListWatchlist(ctx context.Context) ([]domain.WatchlistEntry, error) {
	return s.Repo.ListAll(ctx)
}

func (s *WatchlistService) UpdateItem(ctx context.Context, filmID int64, patch domain.FilmPatch) (*domain.WatchlistEntry, error) {
	entry, err := s.Repo.UpdatePartial(ctx, filmID, patch)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Film updated", "film_id", filmID, "status", entry.Status, "watched_date", entry.WatchedDate.String())
	return entry, nil
}

func (s *WatchlistService) RemoveItem(ctx context.Context, filmID int64) error {
	if err := s.Repo.Delete(ctx, filmID); err != nil {
		return err
	}
	s.Logger.Info("Film removed", "film_id", filmID)
	return nil
}
