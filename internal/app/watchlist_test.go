package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cesargomez89/watchlist/internal/catalog"
	"github.com/cesargomez89/watchlist/internal/domain"
	"github.com/cesargomez89/watchlist/internal/logger"
	"github.com/cesargomez89/watchlist/internal/store"
)

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test_app.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupService(t *testing.T) (*WatchlistService, *catalog.MockProvider, *store.DB) {
	t.Helper()
	db := setupTestDB(t)
	provider := catalog.NewMockProvider()
	return NewWatchlistService(db, provider, logger.Discard()), provider, db
}

func TestWatchlistService_AddByExternalID(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	entry, err := svc.AddByExternalID(ctx, 438631, domain.MediaTypeMovie)
	if err != nil {
		t.Fatalf("AddByExternalID failed: %v", err)
	}
	if entry.Title != "Dune" || entry.MediaType != domain.MediaTypeMovie {
		t.Errorf("Unexpected entry: %+v", entry.Film)
	}
	if entry.Status != domain.StatusPlanToWatch || entry.WatchedDate.Valid {
		t.Errorf("Expected PlanToWatch with no watched date, got %s/%q", entry.Status, entry.WatchedDate)
	}
	if entry.Runtime == nil || *entry.Runtime != 155 {
		t.Errorf("Expected meta to be stored, got %+v", entry.Meta)
	}
	if len(entry.Genres) != 2 || entry.Genres[0] != "Science Fiction" {
		t.Errorf("Expected genres in remote order, got %v", entry.Genres)
	}

	series, err := svc.AddByExternalID(ctx, 1438, domain.MediaTypeSeries)
	if err != nil {
		t.Fatalf("AddByExternalID series failed: %v", err)
	}
	if series.MediaType != domain.MediaTypeSeries {
		t.Errorf("Expected series, got %s", series.MediaType)
	}

	entries, err := svc.ListWatchlist(ctx)
	if err != nil {
		t.Fatalf("ListWatchlist failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestWatchlistService_AddIgnoresRemoteUserState(t *testing.T) {
	svc, provider, _ := setupService(t)

	provider.Put(domain.FilmDetails{
		Film: domain.Film{
			FilmID:      603,
			Title:       "The Matrix",
			MediaType:   domain.MediaTypeMovie,
			Status:      domain.StatusWatched,
			WatchedDate: domain.NewDate(1999, time.March, 31),
		},
	})

	entry, err := svc.AddByExternalID(context.Background(), 603, domain.MediaTypeMovie)
	if err != nil {
		t.Fatalf("AddByExternalID failed: %v", err)
	}
	if entry.Status != domain.StatusPlanToWatch {
		t.Errorf("Expected forced PlanToWatch, got %s", entry.Status)
	}
	if entry.WatchedDate.Valid {
		t.Errorf("Expected watched date cleared, got %q", entry.WatchedDate)
	}
}

func TestWatchlistService_AddDuplicate(t *testing.T) {
	svc, provider, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.AddByExternalID(ctx, 438631, domain.MediaTypeMovie); err != nil {
		t.Fatalf("AddByExternalID failed: %v", err)
	}
	if _, err := svc.AddByExternalID(ctx, 438631, domain.MediaTypeMovie); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}
	if provider.Calls() != 2 {
		t.Errorf("Expected details to be re-fetched on every add, got %d calls", provider.Calls())
	}

	entries, _ := svc.ListWatchlist(ctx)
	if len(entries) != 1 {
		t.Errorf("Expected a single entry after duplicate add, got %d", len(entries))
	}
}

func TestWatchlistService_AddRemoteFailureLeavesStoreUntouched(t *testing.T) {
	svc, provider, _ := setupService(t)
	ctx := context.Background()

	provider.Err = &domain.RemoteError{StatusCode: 503, Body: "maintenance"}
	if _, err := svc.AddByExternalID(ctx, 438631, domain.MediaTypeMovie); !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("Expected ErrRemoteRejected, got %v", err)
	}

	provider.Err = nil
	if _, err := svc.AddByExternalID(ctx, 12345, domain.MediaTypeMovie); !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("Expected remote 404 as ErrRemoteRejected, got %v", err)
	}

	entries, err := svc.ListWatchlist(ctx)
	if err != nil {
		t.Fatalf("ListWatchlist failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries after remote failures, got %d", len(entries))
	}
}

func TestWatchlistService_AddInvalidInput(t *testing.T) {
	svc, provider, _ := setupService(t)

	if _, err := svc.AddByExternalID(context.Background(), 0, domain.MediaTypeMovie); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for zero id, got %v", err)
	}
	if _, err := svc.AddByExternalID(context.Background(), 1, "anime"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for bad type, got %v", err)
	}
	if provider.Calls() != 0 {
		t.Errorf("Expected no remote calls for invalid input, got %d", provider.Calls())
	}
}

func TestWatchlistService_UpdateAndRemove(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.AddByExternalID(ctx, 1438, domain.MediaTypeSeries); err != nil {
		t.Fatalf("AddByExternalID failed: %v", err)
	}

	updated, err := svc.UpdateItem(ctx, 1438, domain.FilmPatch{Status: domain.Some(domain.StatusWatching)})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Status != domain.StatusWatching {
		t.Errorf("Expected Watching, got %s", updated.Status)
	}

	if _, err := svc.UpdateItem(ctx, 1438, domain.FilmPatch{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty patch, got %v", err)
	}

	if err := svc.RemoveItem(ctx, 1438); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if err := svc.RemoveItem(ctx, 1438); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second remove, got %v", err)
	}
	if _, err := svc.UpdateItem(ctx, 1438, domain.FilmPatch{Status: domain.Some(domain.StatusWatched)}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating removed film, got %v", err)
	}
}
