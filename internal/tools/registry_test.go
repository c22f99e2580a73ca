package tools

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/cesargomez89/watchlist/internal/app"
	"github.com/cesargomez89/watchlist/internal/catalog"
	"github.com/cesargomez89/watchlist/internal/domain"
	"github.com/cesargomez89/watchlist/internal/logger"
	"github.com/cesargomez89/watchlist/internal/store"
)

func setupRegistry(t *testing.T) (*Registry, *catalog.MockProvider) {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "tools.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	provider := catalog.NewMockProvider()
	svc := app.NewWatchlistService(db, provider, logger.Discard())
	return NewWatchlistRegistry(svc, provider), provider
}

func TestRegistry_List(t *testing.T) {
	r, _ := setupRegistry(t)

	want := []string{
		"add_to_my_watchlist",
		"delete_from_my_watchlist",
		"discover_tmdb_media",
		"get_my_watchlist",
		"get_tmdb_details",
		"get_tmdb_genres",
		"get_tmdb_trending",
		"search_tmdb",
		"update_my_watchlist_item",
	}

	list := r.List()
	if len(list) != len(want) {
		t.Fatalf("Expected %d tools, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("tool %d = %s, want %s", i, list[i].Name, name)
		}
		if list[i].Description == "" {
			t.Errorf("tool %s has no description", list[i].Name)
		}
	}
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r, _ := setupRegistry(t)

	if _, err := r.Invoke(context.Background(), "rate_movie", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_InvokeRejectsBadArguments(t *testing.T) {
	r, provider := setupRegistry(t)

	tests := []struct {
		tool string
		args string
	}{
		{"search_tmdb", `{"query":"Dune","type":"anime"}`},
		{"search_tmdb", `{"query":"Dune","type":"movie","page":2}`},
		{"get_tmdb_details", `not json`},
		{"update_my_watchlist_item", `{"film_id":438631}`},
		{"update_my_watchlist_item", `{"film_id":438631,"watched_date":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.args, func(t *testing.T) {
			_, err := r.Invoke(context.Background(), tt.tool, json.RawMessage(tt.args))
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
		})
	}

	if provider.Calls() != 0 {
		t.Errorf("Expected no remote calls for rejected arguments, got %d", provider.Calls())
	}
}

func TestRegistry_WatchlistFlow(t *testing.T) {
	r, _ := setupRegistry(t)
	ctx := context.Background()

	res, err := r.Invoke(ctx, "add_to_my_watchlist", json.RawMessage(`{"film_id":438631,"type":"movie"}`))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := uuid.Parse(res.ID); err != nil {
		t.Errorf("Expected uuid invocation id, got %q", res.ID)
	}
	if res.Tool != "add_to_my_watchlist" {
		t.Errorf("Expected tool name in result, got %q", res.Tool)
	}
	added, ok := res.Output.(*domain.WatchlistEntry)
	if !ok || added.Title != "Dune" {
		t.Fatalf("Unexpected add output: %#v", res.Output)
	}

	res, err = r.Invoke(ctx, "update_my_watchlist_item", json.RawMessage(`{"film_id":438631,"status":"Watched","watched_date":"2024-03-01"}`))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated := res.Output.(*domain.WatchlistEntry)
	if updated.Status != domain.StatusWatched || updated.WatchedDate.String() != "2024-03-01" {
		t.Errorf("Unexpected update output: %+v", updated.Film)
	}

	res, err = r.Invoke(ctx, "update_my_watchlist_item", json.RawMessage(`{"film_id":438631,"status":null,"watched_date":""}`))
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cleared := res.Output.(*domain.WatchlistEntry)
	if cleared.WatchedDate.Valid || cleared.Status != domain.StatusWatched {
		t.Errorf("Expected date cleared and status kept, got %+v", cleared.Film)
	}

	res, err = r.Invoke(ctx, "get_my_watchlist", nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if entries := res.Output.([]domain.WatchlistEntry); len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}

	if _, err := r.Invoke(ctx, "delete_from_my_watchlist", json.RawMessage(`{"film_id":438631}`)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := r.Invoke(ctx, "delete_from_my_watchlist", json.RawMessage(`{"film_id":438631}`)); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRegistry_CatalogTools(t *testing.T) {
	r, _ := setupRegistry(t)
	ctx := context.Background()

	res, err := r.Invoke(ctx, "search_tmdb", json.RawMessage(`{"query":"wire","type":"tv"}`))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	films := res.Output.([]domain.Film)
	if len(films) != 1 || films[0].Title != "The Wire" {
		t.Errorf("Unexpected search output: %+v", films)
	}

	res, err = r.Invoke(ctx, "get_tmdb_genres", json.RawMessage(`{"type":"movie"}`))
	if err != nil {
		t.Fatalf("genres failed: %v", err)
	}
	if genres := res.Output.([]domain.Genre); len(genres) == 0 {
		t.Error("Expected genres")
	}

	if _, err := r.Invoke(ctx, "get_tmdb_trending", json.RawMessage(`{"type":"movie","window":"year"}`)); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for bad window, got %v", err)
	}

	if _, err := r.Invoke(ctx, "discover_tmdb_media", json.RawMessage(`{"type":"movie","filters":{"with_genres":{"id":28}}}`)); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nested filter, got %v", err)
	}

	res, err = r.Invoke(ctx, "get_tmdb_details", json.RawMessage(`{"type":"movie","id":438631}`))
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if d := res.Output.(*domain.FilmDetails); d.Title != "Dune" {
		t.Errorf("Unexpected details output: %+v", d)
	}
}
