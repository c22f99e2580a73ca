package catalog

// Raw remote payloads. Only the fields the service reads are declared; they
// are normalized into domain types before leaving the package.

type apiListItem struct {
	ID           int64   `json:"id"`
	Title        *string `json:"title"`
	Name         *string `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

type apiListResponse struct {
	Results []apiListItem `json:"results"`
}

type apiGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type apiGenreList struct {
	Genres []apiGenre `json:"genres"`
}

type apiExternalIDs struct {
	IMDbID *string `json:"imdb_id"`
}

type apiDetails struct {
	apiListItem
	IMDbID         *string         `json:"imdb_id"`
	ExternalIDs    *apiExternalIDs `json:"external_ids"`
	Runtime        *int            `json:"runtime"`
	EpisodeRunTime []int           `json:"episode_run_time"`
	Overview       string          `json:"overview"`
	VoteAverage    *float64        `json:"vote_average"`
	PosterPath     string          `json:"poster_path"`
	Genres         []apiGenre      `json:"genres"`
}
