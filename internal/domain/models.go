package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaType is the local classification of a title.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// ParseMediaType accepts the remote API's "movie"/"tv" names as well as the
// local "series" name.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie, nil
	case "tv", "series":
		return MediaTypeSeries, nil
	}
	return "", fmt.Errorf("%w: media type must be 'movie' or 'tv', got %q", ErrInvalidArgument, s)
}

// RemoteType returns the path segment the remote API uses for this media type.
func (m MediaType) RemoteType() string {
	if m == MediaTypeSeries {
		return "tv"
	}
	return "movie"
}

func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeSeries
}

// Status is the user's viewing status for a watchlist entry.
type Status string

const (
	StatusPlanToWatch Status = "PlanToWatch"
	StatusWatching    Status = "Watching"
	StatusWatched     Status = "Watched"
	StatusDropped     Status = "Dropped"
	StatusOnHold      Status = "OnHold"
)

var validStatuses = map[Status]bool{
	StatusPlanToWatch: true,
	StatusWatching:    true,
	StatusWatched:     true,
	StatusDropped:     true,
	StatusOnHold:      true,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

// TrendingWindow is the time window accepted by the trending endpoint.
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

func (w TrendingWindow) Valid() bool {
	return w == TrendingDay || w == TrendingWeek
}

// Film is the root watchlist record. FilmID is the remote API's identifier.
type Film struct {
	FilmID      int64     `json:"film_id" db:"film_id"`
	Title       string    `json:"title" db:"title"`
	ReleaseDate NullDate  `json:"release_date" db:"release_date"`
	MediaType   MediaType `json:"type" db:"media_type"`
	Status      Status    `json:"status" db:"status"`
	WatchedDate NullDate  `json:"watched_date" db:"watched_date"`
}

// Meta holds remote-sourced details attached 1:1 to a Film. Every field is
// optional; nil means the remote service had no data.
type Meta struct {
	IMDbID    *string  `json:"imdb_id" db:"imdb_id"`
	Runtime   *int     `json:"runtime" db:"runtime"`
	Plot      *string  `json:"plot" db:"plot"`
	Rating    *float64 `json:"rating" db:"rating"`
	PosterURL *string  `json:"poster_url" db:"poster_url"`
}

// Genre is a remote genre listing entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FilmDetails is a normalized remote detail lookup.
type FilmDetails struct {
	Film
	Meta   Meta     `json:"meta_data"`
	Genres []string `json:"genres"`
}

// WatchlistEntry is a Film joined with its Meta and Genre rows.
type WatchlistEntry struct {
	Film
	Meta
	Genres    StringSlice `json:"genres" db:"genres"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// FilmPatch is a partial update of the user-owned Film fields.
// WatchedDate set to an invalid NullDate clears the stored date.
type FilmPatch struct {
	Status      Optional[Status]
	WatchedDate Optional[NullDate]
}

func (p FilmPatch) IsEmpty() bool {
	return !p.Status.Set && !p.WatchedDate.Set
}

// Validate rejects patches the store cannot apply.
func (p FilmPatch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalidArgument)
	}
	if p.Status.Set && !p.Status.Value.Valid() {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidArgument, p.Status.Value)
	}
	return nil
}
