// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort             = "8080"
	DefaultDBPath           = "watchlist.db"
	DefaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	DefaultTMDBImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultTMDBTimeout      = 10 * time.Second
	DefaultTMDBRateLimit    = 40.0 // requests per second
	DefaultLogMaxSizeMB     = 10
	DefaultShutdownTimeout  = 5 * time.Second
)

// Rate limit headers returned by the remote metadata service
const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitBuffer is the remaining-call count at or below which outgoing
// requests wait for the reset time.
const RateLimitBuffer = 1

// Remote API query parameters
const (
	ParamAPIKey           = "api_key"
	ParamAppendToResponse = "append_to_response"
	DetailsAppend         = "credits,external_ids"
)

// DateLayout is the calendar date format used by the remote API and the store.
const DateLayout = "2006-01-02"

// MaxErrorBodyBytes bounds how much of a failed remote response body is kept.
const MaxErrorBodyBytes = 64 * 1024

// Content types
const (
	ContentTypeJSON = "application/json"
)
