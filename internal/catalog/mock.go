package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cesargomez89/watchlist/internal/domain"
)

// MockProvider is an in-memory Provider with a small fixed catalog. Err, when
// set, is returned from every call.
type MockProvider struct {
	mu      sync.Mutex
	details map[string]domain.FilmDetails
	calls   int

	Err error
}

func NewMockProvider() *MockProvider {
	runtime, rating := 155, 7.8
	plot, imdb := "Paul Atreides leads nomadic tribes in a battle to control the desert planet Arrakis.", "tt1160419"
	poster := "https://image.tmdb.org/t/p/w500/d5NXSklXo0qyIYkgV94XAgMIckC.jpg"

	p := &MockProvider{details: map[string]domain.FilmDetails{}}
	p.Put(domain.FilmDetails{
		Film: domain.Film{
			FilmID:      438631,
			Title:       "Dune",
			ReleaseDate: domain.NewDate(2021, time.September, 15),
			MediaType:   domain.MediaTypeMovie,
			Status:      domain.StatusPlanToWatch,
		},
		Meta:   domain.Meta{IMDbID: &imdb, Runtime: &runtime, Plot: &plot, Rating: &rating, PosterURL: &poster},
		Genres: []string{"Science Fiction", "Adventure"},
	})
	p.Put(domain.FilmDetails{
		Film: domain.Film{
			FilmID:      1438,
			Title:       "The Wire",
			ReleaseDate: domain.NewDate(2002, time.June, 2),
			MediaType:   domain.MediaTypeSeries,
			Status:      domain.StatusPlanToWatch,
		},
		Genres: []string{"Crime", "Drama"},
	})
	return p
}

// Put adds or replaces a catalog entry.
func (p *MockProvider) Put(d domain.FilmDetails) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.details[mockKey(d.MediaType, d.FilmID)] = d
}

// Calls returns how many Provider methods have been invoked.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockProvider) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.Err
}

func (p *MockProvider) Search(ctx context.Context, query string, mediaType domain.MediaType) ([]domain.Film, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidArgument)
	}
	return p.films(func(d domain.FilmDetails) bool {
		return d.MediaType == mediaType && strings.Contains(strings.ToLower(d.Title), strings.ToLower(query))
	}), nil
}

func (p *MockProvider) GetDetails(ctx context.Context, mediaType domain.MediaType, id int64) (*domain.FilmDetails, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	d, ok := p.details[mockKey(mediaType, id)]
	p.mu.Unlock()
	if !ok {
		return nil, &domain.RemoteError{StatusCode: 404, Body: `{"status_message":"The resource you requested could not be found."}`}
	}
	d.Genres = append([]string(nil), d.Genres...)
	return &d, nil
}

func (p *MockProvider) GetTrending(ctx context.Context, mediaType domain.MediaType, window domain.TrendingWindow) ([]domain.Film, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	if !window.Valid() {
		return nil, fmt.Errorf("%w: time window must be 'day' or 'week', got %q", domain.ErrInvalidArgument, window)
	}
	return p.films(func(d domain.FilmDetails) bool { return d.MediaType == mediaType }), nil
}

func (p *MockProvider) Discover(ctx context.Context, mediaType domain.MediaType, filters map[string]any) ([]domain.Film, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	if _, err := EncodeFilters(filters); err != nil {
		return nil, err
	}
	return p.films(func(d domain.FilmDetails) bool { return d.MediaType == mediaType }), nil
}

func (p *MockProvider) GetGenres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	if mediaType == domain.MediaTypeSeries {
		return []domain.Genre{{ID: 80, Name: "Crime"}, {ID: 18, Name: "Drama"}}, nil
	}
	return []domain.Genre{{ID: 12, Name: "Adventure"}, {ID: 878, Name: "Science Fiction"}}, nil
}

func (p *MockProvider) films(match func(domain.FilmDetails) bool) []domain.Film {
	p.mu.Lock()
	defer p.mu.Unlock()

	films := []domain.Film{}
	for _, d := range p.details {
		if match(d) {
			films = append(films, d.Film)
		}
	}
	sort.Slice(films, func(i, j int) bool { return films[i].FilmID < films[j].FilmID })
	return films
}

func mockKey(mediaType domain.MediaType, id int64) string {
	return fmt.Sprintf("%s/%d", mediaType, id)
}
