// Package ledger assembles the proof-of-import record used to decide what is
// safe to delete. Everything it reads is read-only; a torrent or file absent
// from the ledger is never touched.
package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/seedsweep/internal/arr"
)

const historyPageSize = 10000

// MovieSource is the slice of the movie manager API the ledger reads.
type MovieSource interface {
	History(ctx context.Context, eventType, pageSize int) ([]arr.HistoryRecord, error)
	Movies(ctx context.Context) ([]arr.Movie, error)
}

// SeriesSource is the slice of the series manager API the ledger reads.
type SeriesSource interface {
	History(ctx context.Context, eventType, pageSize int) ([]arr.HistoryRecord, error)
	Series(ctx context.Context) ([]arr.Series, error)
	Episodes(ctx context.Context, seriesID int64) ([]arr.Episode, error)
	EpisodeFile(ctx context.Context, id int64) (*arr.EpisodeFile, error)
}

// Ledger is the union of both managers' import evidence.
type Ledger struct {
	// Hashes holds lowercased torrent hashes with an import event.
	Hashes map[string]struct{}
	// LibraryPaths holds absolute paths of files attached to the catalogs.
	LibraryPaths map[string]struct{}
	// StagingNames holds staging-relative names the managers imported from.
	StagingNames map[string]struct{}
}

// HasHash reports whether hash has a recorded import, case-insensitively.
func (l *Ledger) HasHash(hash string) bool {
	_, ok := l.Hashes[strings.ToLower(hash)]
	return ok
}

// HasLibraryBasename reports whether any library file shares name's basename.
func (l *Ledger) HasLibraryBasename(name string) bool {
	base := filepath.Base(name)
	for p := range l.LibraryPaths {
		if filepath.Base(p) == base {
			return true
		}
	}
	return false
}

// HasStagingName reports whether name was recorded as an import source.
func (l *Ledger) HasStagingName(name string) bool {
	_, ok := l.StagingNames[name]
	return ok
}

type managerLedger struct {
	hashes       map[string]struct{}
	libraryPaths map[string]struct{}
	stagingNames map[string]struct{}
}

// Build fetches history and file attachments from both managers and merges
// them. The two manager fetches run concurrently; results are merged only
// after both workers finish.
func Build(ctx context.Context, movies MovieSource, series SeriesSource, stagingDir string) (*Ledger, error) {
	var movieSide, seriesSide managerLedger

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	g.Go(func() error {
		side, err := buildMovieSide(ctx, movies, stagingDir)
		if err != nil {
			return fmt.Errorf("movie manager: %w", err)
		}
		movieSide = side
		return nil
	})
	g.Go(func() error {
		side, err := buildSeriesSide(ctx, series, stagingDir)
		if err != nil {
			return fmt.Errorf("series manager: %w", err)
		}
		seriesSide = side
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ledger := &Ledger{
		Hashes:       make(map[string]struct{}),
		LibraryPaths: make(map[string]struct{}),
		StagingNames: make(map[string]struct{}),
	}
	for _, side := range []managerLedger{movieSide, seriesSide} {
		for h := range side.hashes {
			ledger.Hashes[h] = struct{}{}
		}
		for p := range side.libraryPaths {
			ledger.LibraryPaths[p] = struct{}{}
		}
		for n := range side.stagingNames {
			ledger.StagingNames[n] = struct{}{}
		}
	}
	return ledger, nil
}

func buildMovieSide(ctx context.Context, src MovieSource, stagingDir string) (managerLedger, error) {
	side := newManagerLedger()

	records, err := src.History(ctx, arr.EventImported, historyPageSize)
	if err != nil {
		return side, fmt.Errorf("fetch history: %w", err)
	}
	side.addHistory(records, stagingDir)

	movies, err := src.Movies(ctx)
	if err != nil {
		return side, fmt.Errorf("fetch movies: %w", err)
	}
	for _, m := range movies {
		if m.HasFile && m.MovieFile != nil && m.MovieFile.Path != "" {
			side.libraryPaths[m.MovieFile.Path] = struct{}{}
		}
	}
	return side, nil
}

func buildSeriesSide(ctx context.Context, src SeriesSource, stagingDir string) (managerLedger, error) {
	side := newManagerLedger()

	records, err := src.History(ctx, arr.EventImported, historyPageSize)
	if err != nil {
		return side, fmt.Errorf("fetch history: %w", err)
	}
	side.addHistory(records, stagingDir)

	allSeries, err := src.Series(ctx)
	if err != nil {
		return side, fmt.Errorf("fetch series: %w", err)
	}

	// A multi-episode file is attached to several episodes under the same
	// file id. Fetch each id once.
	seen := make(map[int64]struct{})
	for _, s := range allSeries {
		episodes, err := src.Episodes(ctx, s.ID)
		if err != nil {
			return side, fmt.Errorf("fetch episodes for %q: %w", s.Title, err)
		}
		for _, ep := range episodes {
			if !ep.HasFile || ep.EpisodeFileID == 0 {
				continue
			}
			if _, ok := seen[ep.EpisodeFileID]; ok {
				continue
			}
			seen[ep.EpisodeFileID] = struct{}{}

			file, err := src.EpisodeFile(ctx, ep.EpisodeFileID)
			if err != nil {
				return side, fmt.Errorf("fetch episode file %d: %w", ep.EpisodeFileID, err)
			}
			if file.Path != "" {
				side.libraryPaths[file.Path] = struct{}{}
			}
		}
	}
	return side, nil
}

func newManagerLedger() managerLedger {
	return managerLedger{
		hashes:       make(map[string]struct{}),
		libraryPaths: make(map[string]struct{}),
		stagingNames: make(map[string]struct{}),
	}
}

func (m managerLedger) addHistory(records []arr.HistoryRecord, stagingDir string) {
	for _, rec := range records {
		if rec.EventType != arr.EventImported {
			continue
		}
		if rec.DownloadID != "" {
			m.hashes[strings.ToLower(rec.DownloadID)] = struct{}{}
		}
		if name, ok := stagingName(rec, stagingDir); ok {
			m.stagingNames[name] = struct{}{}
		}
	}
}

// stagingName extracts the staging-relative name an import consumed.
// A droppedPath under the staging dir is reduced to its basename. When the
// droppedPath is absent or points elsewhere, the source title still counts,
// but only as a bare filename, never as a path to guess at.
func stagingName(rec arr.HistoryRecord, stagingDir string) (string, bool) {
	root := strings.TrimSuffix(stagingDir, "/") + "/"
	if strings.HasPrefix(rec.Data.DroppedPath, root) {
		return filepath.Base(rec.Data.DroppedPath), true
	}
	if rec.SourceTitle == "" || strings.Contains(rec.SourceTitle, "/") {
		return "", false
	}
	return rec.SourceTitle, true
}
