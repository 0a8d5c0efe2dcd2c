package purge

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/seedsweep/internal/arr"
	"github.com/vmunix/seedsweep/internal/ledger"
	"github.com/vmunix/seedsweep/pkg/media"
)

// MovieCatalog is the slice of the movie manager API the fallback check uses.
type MovieCatalog interface {
	Movies(ctx context.Context) ([]arr.Movie, error)
}

// SeriesCatalog is the slice of the series manager API the fallback check uses.
type SeriesCatalog interface {
	Series(ctx context.Context) ([]arr.Series, error)
	Episodes(ctx context.Context, seriesID int64) ([]arr.Episode, error)
}

// purgeLocal deletes staging files with import evidence: a history record, or
// a live library entry with an attached file for manually imported content.
// The staging directory itself is never removed, only its contents.
func (o *Orchestrator) purgeLocal(ctx context.Context, led *ledger.Ledger) (PhaseStats, error) {
	staging := o.cfg.StagingDir
	if _, err := os.Stat(staging); err != nil {
		o.log.Warn("staging directory not found", "dir", staging)
		return PhaseStats{}, nil
	}

	var files, dirs []string
	err := filepath.WalkDir(staging, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != staging {
				dirs = append(dirs, path)
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return PhaseStats{}, err
	}
	o.log.Info("scanning staging directory", "dir", staging, "files", len(files))

	var stats PhaseStats
	classifier := media.Classifier{MinVideoSize: o.cfg.MinVideoSize}
	check := &libraryCheck{o: o}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			// Deleted underneath us, most likely picked up by an import.
			o.log.Debug("file vanished during scan", "path", path)
			continue
		}
		size := info.Size()
		name := filepath.Base(path)
		class := classifier.Classify(path, size)

		var reason string
		switch {
		case class == media.ClassExtra:
			reason = "extra file (trailer/sample/txt/nfo)"
		case led.HasStagingName(name):
			reason = "imported to library (confirmed via history)"
		case check.inLibrary(ctx, name):
			reason = "episode/movie exists in library (manual import detected)"
		default:
			o.log.Debug("keep local file, not imported yet", "path", path, "class", class)
			stats.Kept++
			continue
		}

		o.log.Info("delete local file",
			"path", path,
			"reason", reason,
			"size", humanize.IBytes(uint64(size)),
		)
		if !o.cfg.DryRun {
			if !underRoot(staging, path) {
				o.log.Error("refusing delete outside staging dir", "path", path)
				stats.Failed++
				continue
			}
			if err := os.Remove(path); err != nil {
				o.log.Error("local delete failed", "path", path, "error", err)
				stats.Failed++
				continue
			}
		}
		stats.Deleted++
		stats.BytesFreed += size
	}

	if !o.cfg.DryRun && stats.Deleted > 0 {
		o.removeEmptyDirs(staging, dirs)
	}
	return stats, nil
}

// removeEmptyDirs prunes empty subdirectories bottom-up. The staging root is
// not in dirs and is never removed.
func (o *Orchestrator) removeEmptyDirs(staging string, dirs []string) {
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		if !underRoot(staging, dir) {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			o.log.Debug("could not remove directory", "dir", dir, "error", err)
			continue
		}
		o.log.Info("removed empty directory", "dir", dir)
	}
}

func underRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, "../")
}

// libraryCheck resolves whether a staging file's content is already in a
// library with a file attached. Catalogs are fetched once per phase; a fetch
// failure means "not found", which retains the file.
type libraryCheck struct {
	o *Orchestrator

	movies       []arr.Movie
	moviesLoaded bool
	series       []arr.Series
	seriesLoaded bool
}

func (lc *libraryCheck) inLibrary(ctx context.Context, filename string) bool {
	ident, err := media.ParseIdentity(filename)
	if err != nil {
		return false
	}
	if ident.Kind == media.KindMovie {
		return lc.movieInLibrary(ctx, ident)
	}
	return lc.episodeInLibrary(ctx, ident)
}

func (lc *libraryCheck) movieInLibrary(ctx context.Context, ident media.Identity) bool {
	if !lc.moviesLoaded {
		movies, err := lc.o.movies.Movies(ctx)
		if err != nil {
			lc.o.log.Debug("movie catalog fetch failed", "error", err)
			return false
		}
		lc.movies = movies
		lc.moviesLoaded = true
	}

	for _, m := range rankByTitle(lc.movies, ident.Title, func(m arr.Movie) string { return m.Title }) {
		if ident.Year != 0 && m.Year != ident.Year {
			continue
		}
		if m.HasFile {
			lc.o.log.Debug("found movie in library", "title", m.Title, "year", m.Year)
			return true
		}
	}
	return false
}

func (lc *libraryCheck) episodeInLibrary(ctx context.Context, ident media.Identity) bool {
	if ident.Episode == 0 {
		return false
	}
	if !lc.seriesLoaded {
		series, err := lc.o.series.Series(ctx)
		if err != nil {
			lc.o.log.Debug("series catalog fetch failed", "error", err)
			return false
		}
		lc.series = series
		lc.seriesLoaded = true
	}

	for _, s := range rankByTitle(lc.series, ident.Title, func(s arr.Series) string { return s.Title }) {
		episodes, err := lc.o.series.Episodes(ctx, s.ID)
		if err != nil {
			lc.o.log.Debug("episode fetch failed", "series", s.Title, "error", err)
			continue
		}
		for _, ep := range episodes {
			if ep.SeasonNumber == ident.Season && ep.EpisodeNumber == ident.Episode && ep.HasFile {
				lc.o.log.Debug("found episode in library",
					"series", s.Title,
					"season", ident.Season,
					"episode", ident.Episode,
				)
				return true
			}
		}
	}
	return false
}

// rankByTitle filters the catalog to containment matches and orders them
// best-first by similarity. Ranking affects probe order only, never whether
// a title matches.
func rankByTitle[T any](items []T, title string, titleOf func(T) string) []T {
	var matched []T
	for _, item := range items {
		if media.TitlesOverlap(title, titleOf(item)) {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return media.Similarity(title, titleOf(matched[i])) > media.Similarity(title, titleOf(matched[j]))
	})
	return matched
}
