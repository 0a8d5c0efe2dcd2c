// Package tmdb looks up age certifications for movies and TV shows.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/vmunix/seedsweep/pkg/media"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour

// ErrNotFound is returned when no result matches a search.
var ErrNotFound = errors.New("title not found")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	cache      *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the certification cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey, language string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: newCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResult struct {
	ID int64 `json:"id"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type releaseDatesResponse struct {
	Results []struct {
		Country      string `json:"iso_3166_1"`
		ReleaseDates []struct {
			Certification string `json:"certification"`
		} `json:"release_dates"`
	} `json:"results"`
}

type contentRatingsResponse struct {
	Results []struct {
		Country string `json:"iso_3166_1"`
		Rating  string `json:"rating"`
	} `json:"results"`
}

// MovieCertification returns the US certification (G, PG, PG-13, R, ...)
// for the best search match, or ErrNotFound when nothing matches or no US
// certification is recorded.
func (c *Client) MovieCertification(ctx context.Context, title string, year int) (string, error) {
	key := certKey("movie", title, year)
	if cert, ok := c.cache.get(key); ok {
		return cert, nil
	}

	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("year", fmt.Sprintf("%d", year))
	}

	var search searchResponse
	if err := c.get(ctx, "/3/search/movie", params, &search); err != nil {
		return "", err
	}
	if len(search.Results) == 0 {
		return "", fmt.Errorf("%w: movie %q (%d)", ErrNotFound, title, year)
	}

	var releases releaseDatesResponse
	path := fmt.Sprintf("/3/movie/%d/release_dates", search.Results[0].ID)
	if err := c.get(ctx, path, nil, &releases); err != nil {
		return "", err
	}

	for _, country := range releases.Results {
		if country.Country != "US" {
			continue
		}
		for _, rd := range country.ReleaseDates {
			if rd.Certification != "" {
				c.cache.set(key, rd.Certification)
				return rd.Certification, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no US certification for %q", ErrNotFound, title)
}

// TVCertification returns the US content rating (TV-Y, TV-PG, TV-14, ...)
// for the best search match.
func (c *Client) TVCertification(ctx context.Context, title string, year int) (string, error) {
	key := certKey("tv", title, year)
	if cert, ok := c.cache.get(key); ok {
		return cert, nil
	}

	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("first_air_date_year", fmt.Sprintf("%d", year))
	}

	var search searchResponse
	if err := c.get(ctx, "/3/search/tv", params, &search); err != nil {
		return "", err
	}
	if len(search.Results) == 0 {
		return "", fmt.Errorf("%w: series %q (%d)", ErrNotFound, title, year)
	}

	var ratings contentRatingsResponse
	path := fmt.Sprintf("/3/tv/%d/content_ratings", search.Results[0].ID)
	if err := c.get(ctx, path, nil, &ratings); err != nil {
		return "", err
	}

	for _, r := range ratings.Results {
		if r.Country == "US" && r.Rating != "" {
			c.cache.set(key, r.Rating)
			return r.Rating, nil
		}
	}
	return "", fmt.Errorf("%w: no US rating for %q", ErrNotFound, title)
}

// IsKids reports whether the title's certification is in kidsRatings.
// A missing certification defaults to not-kids: content is never routed to
// a kids library by omission. Lookup transport failures are returned so the
// caller can count the item as failed instead of guessing.
func (c *Client) IsKids(ctx context.Context, title string, year int, kind media.Kind, kidsRatings []string) (bool, error) {
	var cert string
	var err error
	if kind == media.KindSeries {
		cert, err = c.TVCertification(ctx, title, year)
	} else {
		cert, err = c.MovieCertification(ctx, title, year)
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return slices.Contains(kidsRatings, cert), nil
}

func certKey(kind, title string, year int) string {
	return fmt.Sprintf("%s:%s:%d", kind, title, year)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
