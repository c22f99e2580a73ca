package dto

import (
	"fmt"
	"strings"

	"github.com/cesargomez89/watchlist/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// AsError folds validation failures into a single InvalidArgument error, or
// returns nil when there are none.
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, ToResponse(errs))
}

func validateFilmID(id *int64) []ValidationError {
	var errs []ValidationError
	if id == nil {
		errs = append(errs, ValidationError{Field: "film_id", Message: "is required"})
	} else if *id <= 0 {
		errs = append(errs, ValidationError{Field: "film_id", Message: "must be a positive integer"})
	}
	return errs
}

func validateMediaType(mediaType string) []ValidationError {
	var errs []ValidationError
	if mediaType == "" {
		errs = append(errs, ValidationError{Field: "type", Message: "is required"})
	} else if _, err := domain.ParseMediaType(mediaType); err != nil {
		errs = append(errs, ValidationError{Field: "type", Message: "must be 'movie' or 'tv'"})
	}
	return errs
}

func validateStatus(status domain.Optional[*string]) []ValidationError {
	var errs []ValidationError
	if !status.Set {
		return errs
	}
	if status.Value == nil {
		errs = append(errs, ValidationError{Field: "status", Message: "cannot be null"})
	} else if !domain.Status(*status.Value).Valid() {
		errs = append(errs, ValidationError{Field: "status", Message: "must be one of PlanToWatch, Watching, Watched, Dropped, OnHold"})
	}
	return errs
}

func validateWatchedDate(watchedDate domain.Optional[*string]) []ValidationError {
	var errs []ValidationError
	if !watchedDate.Set || watchedDate.Value == nil || *watchedDate.Value == "" {
		return errs
	}
	if _, err := domain.ParseDate(*watchedDate.Value); err != nil {
		errs = append(errs, ValidationError{Field: "watched_date", Message: "invalid date format (expected: YYYY-MM-DD)"})
	}
	return errs
}
