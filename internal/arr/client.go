// Package arr is a client for the v3 API shared by the movie and series
// library managers. One Client serves one manager instance.
package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
)

const defaultTimeout = 30 * time.Second

// Client is an HTTP client for one manager instance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	attempts   uint
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryAttempts bounds transient-failure retries on reads.
func WithRetryAttempts(n uint) Option {
	return func(c *Client) {
		c.attempts = n
	}
}

// NewClient creates a client for the manager at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		attempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// History returns one page of history records for the given event type.
// The managers cap pages at 10000 records; deeper history is not walked.
func (c *Client) History(ctx context.Context, eventType, pageSize int) ([]HistoryRecord, error) {
	params := url.Values{}
	params.Set("eventType", strconv.Itoa(eventType))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var page historyPage
	if err := c.get(ctx, "/api/v3/history", params, &page); err != nil {
		return nil, err
	}
	return page.Records, nil
}

// Movies returns the movie catalog, including attached file details.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := c.get(ctx, "/api/v3/movie", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// MovieFile resolves one attached movie file.
func (c *Client) MovieFile(ctx context.Context, id int64) (*MovieFile, error) {
	var mf MovieFile
	if err := c.get(ctx, fmt.Sprintf("/api/v3/moviefile/%d", id), nil, &mf); err != nil {
		return nil, err
	}
	return &mf, nil
}

// Series returns the series catalog.
func (c *Client) Series(ctx context.Context) ([]Series, error) {
	var series []Series
	if err := c.get(ctx, "/api/v3/series", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Episodes returns all episodes of a series.
func (c *Client) Episodes(ctx context.Context, seriesID int64) ([]Episode, error) {
	params := url.Values{}
	params.Set("seriesId", strconv.FormatInt(seriesID, 10))

	var episodes []Episode
	if err := c.get(ctx, "/api/v3/episode", params, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// EpisodeFile resolves one attached episode file. Multiple episodes may
// share a file id.
func (c *Client) EpisodeFile(ctx context.Context, id int64) (*EpisodeFile, error) {
	var ef EpisodeFile
	if err := c.get(ctx, fmt.Sprintf("/api/v3/episodefile/%d", id), nil, &ef); err != nil {
		return nil, err
	}
	return &ef, nil
}

// QualityProfiles lists the configured quality profiles.
func (c *Client) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := c.get(ctx, "/api/v3/qualityprofile", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// RootFolders lists the configured root folders.
func (c *Client) RootFolders(ctx context.Context) ([]RootFolder, error) {
	var folders []RootFolder
	if err := c.get(ctx, "/api/v3/rootfolder", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// LookupMovie searches the manager's metadata source. Results are ranked;
// callers use the first candidate's canonical id.
func (c *Client) LookupMovie(ctx context.Context, title string, year int) ([]MovieLookup, error) {
	params := url.Values{}
	params.Set("term", lookupTerm(title, year))

	var results []MovieLookup
	if err := c.get(ctx, "/api/v3/movie/lookup", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// LookupSeries searches the manager's metadata source.
func (c *Client) LookupSeries(ctx context.Context, title string, year int) ([]SeriesLookup, error) {
	params := url.Values{}
	params.Set("term", lookupTerm(title, year))

	var results []SeriesLookup
	if err := c.get(ctx, "/api/v3/series/lookup", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// AddMovie registers a movie. Not retried: a blind retry can create
// duplicate library entries.
func (c *Client) AddMovie(ctx context.Context, req AddMovieRequest) error {
	return c.post(ctx, "/api/v3/movie", req)
}

// AddSeries registers a series. Not retried for the same reason as AddMovie.
func (c *Client) AddSeries(ctx context.Context, req AddSeriesRequest) error {
	return c.post(ctx, "/api/v3/series", req)
}

func lookupTerm(title string, year int) string {
	if year > 0 {
		return fmt.Sprintf("%s %d", title, year)
	}
	return title
}

// get performs an idempotent read with bounded exponential backoff on
// transient failures. Auth and not-found failures are never retried.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return retry.Do(
		func() error { return c.do(ctx, http.MethodGet, path, params, nil, out) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrUnavailable)
		}),
	)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuth
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 300:
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
