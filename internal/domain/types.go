package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cesargomez89/watchlist/internal/constants"
)

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(data, s)
}

// NullDate is an optional calendar date. The zero value is "no date".
type NullDate struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid NullDate for the given calendar day (UTC).
func NewDate(year int, month time.Month, day int) NullDate {
	return NullDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ParseDate parses a YYYY-MM-DD string strictly.
func ParseDate(s string) (NullDate, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return NullDate{}, err
	}
	return NullDate{Time: t, Valid: true}, nil
}

// ParseDateLenient maps empty or unparsable input to "no date".
func ParseDateLenient(s string) NullDate {
	d, err := ParseDate(s)
	if err != nil {
		return NullDate{}
	}
	return d
}

func (d NullDate) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(constants.DateLayout)
}

func (d NullDate) Equal(o NullDate) bool {
	return d.Valid == o.Valid && d.String() == o.String()
}

func (d NullDate) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.String(), nil
}

func (d *NullDate) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = NullDate{}
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
	case string:
		*d = scanDateText(v)
	case []byte:
		*d = scanDateText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into NullDate", value)
	}
	return nil
}

// scanDateText tolerates driver renderings that append a time part.
func scanDateText(s string) NullDate {
	if len(s) > len(constants.DateLayout) {
		s = s[:len(constants.DateLayout)]
	}
	return ParseDateLenient(s)
}

func (d NullDate) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null or "" as "no date" and rejects malformed dates.
func (d *NullDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = NullDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = NullDate{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	*d = parsed
	return nil
}

// Optional distinguishes "field omitted" (Set false) from a supplied value,
// including an explicit JSON null.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}
