package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cesargomez89/watchlist/internal/constants"
	"github.com/cesargomez89/watchlist/internal/domain"
	"github.com/cesargomez89/watchlist/internal/httpclient"
	"github.com/cesargomez89/watchlist/internal/logger"
)

// untitled is the title recorded when the remote item carries none.
const untitled = "N/A"

type TMDBProvider struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Client       *httpclient.Client
	logger       *logger.Logger
}

func NewTMDBProvider(baseURL, imageBaseURL, apiKey string, client *httpclient.Client, log *logger.Logger) *TMDBProvider {
	if client == nil {
		client = httpclient.NewClient(nil, constants.DefaultTMDBRateLimit)
	}
	if log == nil {
		log = logger.Default()
	}
	if imageBaseURL == "" {
		imageBaseURL = constants.DefaultTMDBImageBaseURL
	}
	return &TMDBProvider{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		ImageBaseURL: imageBaseURL,
		APIKey:       apiKey,
		Client:       client,
		logger:       log.WithComponent("tmdb"),
	}
}

func (p *TMDBProvider) Search(ctx context.Context, query string, mediaType domain.MediaType) ([]domain.Film, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidArgument)
	}
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}

	var resp apiListResponse
	path := "/search/" + mediaType.RemoteType()
	if err := p.get(ctx, path, url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}
	return toFilms(resp.Results, mediaType), nil
}

func (p *TMDBProvider) GetDetails(ctx context.Context, mediaType domain.MediaType, id int64) (*domain.FilmDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive, got %d", domain.ErrInvalidArgument, id)
	}
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}

	var resp apiDetails
	path := fmt.Sprintf("/%s/%d", mediaType.RemoteType(), id)
	params := url.Values{constants.ParamAppendToResponse: {constants.DetailsAppend}}
	if err := p.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return p.toDetails(resp, mediaType), nil
}

func (p *TMDBProvider) GetTrending(ctx context.Context, mediaType domain.MediaType, window domain.TrendingWindow) ([]domain.Film, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	if !window.Valid() {
		return nil, fmt.Errorf("%w: time window must be 'day' or 'week', got %q", domain.ErrInvalidArgument, window)
	}

	var resp apiListResponse
	path := fmt.Sprintf("/trending/%s/%s", mediaType.RemoteType(), window)
	if err := p.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return toFilms(resp.Results, mediaType), nil
}

func (p *TMDBProvider) Discover(ctx context.Context, mediaType domain.MediaType, filters map[string]any) ([]domain.Film, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	params, err := EncodeFilters(filters)
	if err != nil {
		return nil, err
	}

	var resp apiListResponse
	if err := p.get(ctx, "/discover/"+mediaType.RemoteType(), params, &resp); err != nil {
		return nil, err
	}
	return toFilms(resp.Results, mediaType), nil
}

func (p *TMDBProvider) GetGenres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}

	var resp apiGenreList
	if err := p.get(ctx, "/genre/"+mediaType.RemoteType()+"/list", nil, &resp); err != nil {
		return nil, err
	}

	genres := make([]domain.Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

// EncodeFilters flattens discover filters into query parameters. List values
// are comma-joined; nested objects, empty keys and the credential key are
// rejected. Nil values are dropped.
func EncodeFilters(filters map[string]any) (url.Values, error) {
	params := url.Values{}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: filter keys must be non-empty", domain.ErrInvalidArgument)
		}
		if key == constants.ParamAPIKey {
			return nil, fmt.Errorf("%w: filter %q is reserved", domain.ErrInvalidArgument, key)
		}

		value := filters[key]
		if value == nil {
			continue
		}

		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Map, reflect.Struct:
			return nil, fmt.Errorf("%w: filter %q must be a scalar or a list", domain.ErrInvalidArgument, key)
		case reflect.Slice, reflect.Array:
			parts := make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				s, err := filterScalar(key, rv.Index(i).Interface())
				if err != nil {
					return nil, err
				}
				parts = append(parts, s)
			}
			params.Set(key, strings.Join(parts, ","))
		default:
			s, err := filterScalar(key, value)
			if err != nil {
				return nil, err
			}
			params.Set(key, s)
		}
	}
	return params, nil
}

func filterScalar(key string, v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("%w: filter %q has unsupported value of type %T", domain.ErrInvalidArgument, key, v)
}

func checkMediaType(mediaType domain.MediaType) error {
	if !mediaType.Valid() {
		return fmt.Errorf("%w: unsupported media type %q", domain.ErrInvalidArgument, mediaType)
	}
	return nil
}

// bearerToken reports whether the credential is a v4 read access token
// rather than a v3 api key.
func (p *TMDBProvider) bearerToken() bool {
	return strings.HasPrefix(p.APIKey, "eyJ")
}

func (p *TMDBProvider) get(ctx context.Context, path string, params url.Values, target interface{}) error {
	p.logger.Debug("API request", "path", path, "base_url", p.BaseURL)

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if !p.bearerToken() {
		query.Set(constants.ParamAPIKey, p.APIKey)
	}

	u := p.BaseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %v", domain.ErrInvalidArgument, path, err)
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if p.bearerToken() {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(ctx, req)
	if err != nil {
		p.logger.Warn("API request failed", "path", path, "error", redact(err.Error(), p.APIKey))
		return fmt.Errorf("%w: GET %s: %w", domain.ErrRemoteUnavailable, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // deferred cleanup

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodyBytes))
		p.logger.Warn("API request rejected", "path", path, "status", resp.StatusCode)
		return &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", domain.ErrRemoteUnavailable, path, err)
	}
	return nil
}

// redact keeps the credential out of logged transport errors, which embed
// the request URL.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}

func toFilms(items []apiListItem, mediaType domain.MediaType) []domain.Film {
	films := make([]domain.Film, 0, len(items))
	for _, item := range items {
		films = append(films, toFilm(item, mediaType))
	}
	return films
}

func toFilm(item apiListItem, mediaType domain.MediaType) domain.Film {
	title, released := item.Title, item.ReleaseDate
	if mediaType == domain.MediaTypeSeries {
		title, released = item.Name, item.FirstAirDate
	}

	film := domain.Film{
		FilmID:      item.ID,
		Title:       untitled,
		ReleaseDate: domain.ParseDateLenient(released),
		MediaType:   mediaType,
		Status:      domain.StatusPlanToWatch,
	}
	if title != nil && strings.TrimSpace(*title) != "" {
		film.Title = *title
	}
	return film
}

func (p *TMDBProvider) toDetails(d apiDetails, mediaType domain.MediaType) *domain.FilmDetails {
	details := &domain.FilmDetails{
		Film:   toFilm(d.apiListItem, mediaType),
		Genres: make([]string, 0, len(d.Genres)),
	}

	if d.ExternalIDs != nil && nonEmpty(d.ExternalIDs.IMDbID) {
		details.Meta.IMDbID = d.ExternalIDs.IMDbID
	} else if nonEmpty(d.IMDbID) {
		details.Meta.IMDbID = d.IMDbID
	}

	if mediaType == domain.MediaTypeMovie {
		details.Meta.Runtime = d.Runtime
	} else if len(d.EpisodeRunTime) > 0 {
		runtime := d.EpisodeRunTime[0]
		details.Meta.Runtime = &runtime
	}

	if d.Overview != "" {
		plot := d.Overview
		details.Meta.Plot = &plot
	}
	details.Meta.Rating = d.VoteAverage

	if poster := p.ensureAbsoluteURL(d.PosterPath); poster != "" {
		details.Meta.PosterURL = &poster
	}

	for _, g := range d.Genres {
		details.Genres = append(details.Genres, g.Name)
	}
	return details
}

func (p *TMDBProvider) ensureAbsoluteURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return p.ImageBaseURL + path
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
