package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cesargomez89/watchlist/internal/domain"
)

// AddWatchlistRequest identifies a remote title to add. It arrives either as
// a JSON body or as film_id/type query parameters.
type AddWatchlistRequest struct {
	FilmID *int64 `json:"film_id"`
	Type   string `json:"type"`
}

// AddRequestFromQuery reads film_id and type from query parameters. A
// non-numeric film_id is reported by Validate.
func AddRequestFromQuery(q url.Values) (*AddWatchlistRequest, []ValidationError) {
	req := &AddWatchlistRequest{Type: q.Get("type")}
	if raw := q.Get("film_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, []ValidationError{{Field: "film_id", Message: "must be a positive integer"}}
		}
		req.FilmID = &id
	}
	return req, nil
}

func (r *AddWatchlistRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateFilmID(r.FilmID)...)
	errs = append(errs, validateMediaType(r.Type)...)
	return errs
}

// MediaType returns the parsed type. Only meaningful after Validate.
func (r *AddWatchlistRequest) MediaType() domain.MediaType {
	mt, _ := domain.ParseMediaType(r.Type)
	return mt
}

// UpdateWatchlistRequest is a partial update. Omitted fields are left alone;
// watched_date null or "" clears the date; status null is rejected.
type UpdateWatchlistRequest struct {
	Status      domain.Optional[*string] `json:"status"`
	WatchedDate domain.Optional[*string] `json:"watched_date"`
}

func (r *UpdateWatchlistRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateStatus(r.Status)...)
	errs = append(errs, validateWatchedDate(r.WatchedDate)...)
	return errs
}

// ToPatch converts a validated request into a domain patch.
func (r *UpdateWatchlistRequest) ToPatch() domain.FilmPatch {
	var patch domain.FilmPatch
	if r.Status.Set && r.Status.Value != nil {
		patch.Status = domain.Some(domain.Status(*r.Status.Value))
	}
	if r.WatchedDate.Set {
		var d domain.NullDate
		if r.WatchedDate.Value != nil {
			d = domain.ParseDateLenient(*r.WatchedDate.Value)
		}
		patch.WatchedDate = domain.Some(d)
	}
	return patch
}

// DiscoverFiltersFromQuery turns query parameters into discover filters.
// Repeated keys become lists.
func DiscoverFiltersFromQuery(q url.Values) map[string]any {
	filters := make(map[string]any, len(q))
	for key, values := range q {
		switch len(values) {
		case 0:
		case 1:
			filters[key] = strings.TrimSpace(values[0])
		default:
			list := make([]string, 0, len(values))
			for _, v := range values {
				list = append(list, strings.TrimSpace(v))
			}
			filters[key] = list
		}
	}
	return filters
}
