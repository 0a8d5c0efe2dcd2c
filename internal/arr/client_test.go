package arr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/history", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "3", r.URL.Query().Get("eventType"))
		assert.Equal(t, "10000", r.URL.Query().Get("pageSize"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"page":         1,
			"totalRecords": 2,
			"records": []map[string]any{
				{
					"eventType":   3,
					"downloadId":  "ABCDEF0123456789",
					"sourceTitle": "Movie.2019.1080p",
					"data":        map[string]string{"droppedPath": "/downloads/_done/Movie.2019.1080p.mkv"},
				},
				{"eventType": 3, "downloadId": "cafebabe"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	records, err := client.History(context.Background(), EventImported, 10000)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ABCDEF0123456789", records[0].DownloadID)
	assert.Equal(t, "/downloads/_done/Movie.2019.1080p.mkv", records[0].Data.DroppedPath)
}

func TestAuthErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key")
	_, err := client.Movies(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, int32(1), calls.Load(), "auth failures must not be retried")
}

func TestTransientErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]Movie{{ID: 1, Title: "Movie", HasFile: true}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	movies, err := client.Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestTransientErrorExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", WithRetryAttempts(2))
	_, err := client.Movies(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEpisodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/episode", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("seriesId"))
		_ = json.NewEncoder(w).Encode([]Episode{
			{ID: 1, SeasonNumber: 1, EpisodeNumber: 2, HasFile: true, EpisodeFileID: 9},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	episodes, err := client.Episodes(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, int64(9), episodes[0].EpisodeFileID)
}

func TestLookupMovieTerm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/movie/lookup", r.URL.Path)
		assert.Equal(t, "The Lion King 1994", r.URL.Query().Get("term"))
		_ = json.NewEncoder(w).Encode([]MovieLookup{{TMDBID: 8587, Title: "The Lion King", Year: 1994}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	results, err := client.LookupMovie(context.Background(), "The Lion King", 1994)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(8587), results[0].TMDBID)
}

func TestAddMovie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/movie", r.URL.Path)

		var req AddMovieRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(8587), req.TMDBID)
		assert.Equal(t, "/media/kids_movies", req.RootFolderPath)
		assert.True(t, req.AddOptions.SearchForMovie)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	err := client.AddMovie(context.Background(), AddMovieRequest{
		TMDBID:           8587,
		Title:            "The Lion King",
		Year:             1994,
		QualityProfileID: 1,
		RootFolderPath:   "/media/kids_movies",
		Monitored:        true,
		AddOptions:       MovieAddOptions{SearchForMovie: true},
	})
	require.NoError(t, err)
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key")
	_, err := client.MovieFile(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
