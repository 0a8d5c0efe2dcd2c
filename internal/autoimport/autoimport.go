// Package autoimport registers unmanaged staging videos with the library
// managers, routing kids content to the kids root folders.
package autoimport

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/seedsweep/internal/arr"
	"github.com/vmunix/seedsweep/pkg/media"
)

//go:generate mockgen -destination=mocks/mock_managers.go -package=mocks github.com/vmunix/seedsweep/internal/autoimport MovieManager,SeriesManager,RatingLookup

const maxWorkers = 5

// MovieManager is the slice of the movie manager API auto-import uses.
type MovieManager interface {
	Movies(ctx context.Context) ([]arr.Movie, error)
	QualityProfiles(ctx context.Context) ([]arr.QualityProfile, error)
	LookupMovie(ctx context.Context, title string, year int) ([]arr.MovieLookup, error)
	AddMovie(ctx context.Context, req arr.AddMovieRequest) error
}

// SeriesManager is the slice of the series manager API auto-import uses.
type SeriesManager interface {
	Series(ctx context.Context) ([]arr.Series, error)
	QualityProfiles(ctx context.Context) ([]arr.QualityProfile, error)
	LookupSeries(ctx context.Context, title string, year int) ([]arr.SeriesLookup, error)
	AddSeries(ctx context.Context, req arr.AddSeriesRequest) error
}

// RatingLookup classifies a title as kids content by its age certification.
type RatingLookup interface {
	IsKids(ctx context.Context, title string, year int, kind media.Kind, kidsRatings []string) (bool, error)
}

// Config carries the routing and threshold settings for one run.
type Config struct {
	StagingDir        string
	MoviesRoot        string
	SeriesRoot        string
	KidsMoviesRoot    string
	KidsSeriesRoot    string
	KidsMovieRatings  []string
	KidsSeriesRatings []string
	MinVideoSize      int64
	DryRun            bool
}

// Result aggregates the per-file outcomes of a run.
type Result struct {
	MoviesImported int
	SeriesImported int
	Skipped        int
	Failed         int
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeMovieImported
	outcomeSeriesImported
	outcomeFailed
)

// Importer drives one auto-import pass over the staging directory.
type Importer struct {
	movies  MovieManager
	series  SeriesManager
	ratings RatingLookup
	cfg     Config
	log     *slog.Logger
}

func New(movies MovieManager, series SeriesManager, ratings RatingLookup, cfg Config, log *slog.Logger) *Importer {
	return &Importer{
		movies:  movies,
		series:  series,
		ratings: ratings,
		cfg:     cfg,
		log:     log,
	}
}

// Run scans the staging directory and imports every video not yet tracked by
// either manager. Per-file decisions run under a bounded worker pool; each
// worker writes only its own outcome slot and the results are reduced here.
func (imp *Importer) Run(ctx context.Context) (Result, error) {
	videos, err := imp.findVideos()
	if err != nil {
		return Result{}, fmt.Errorf("scan staging dir: %w", err)
	}
	if len(videos) == 0 {
		imp.log.Info("no staging videos found", "dir", imp.cfg.StagingDir)
		return Result{}, nil
	}

	cat, err := imp.fetchCatalog(ctx)
	if err != nil {
		return Result{}, err
	}

	imp.log.Info("processing staging videos",
		"count", len(videos),
		"workers", maxWorkers,
		"quality_profile_movie", cat.movieProfile,
		"quality_profile_series", cat.seriesProfile,
	)

	outcomes := make([]outcome, len(videos))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, name := range videos {
		i, name := i, name
		g.Go(func() error {
			outcomes[i] = imp.processFile(ctx, name, cat)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var result Result
	for _, o := range outcomes {
		switch o {
		case outcomeMovieImported:
			result.MoviesImported++
		case outcomeSeriesImported:
			result.SeriesImported++
		case outcomeFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

// catalog is the per-run snapshot of manager state shared by all workers.
// Read-only after fetchCatalog returns.
type catalog struct {
	movieTitles   map[string]struct{}
	seriesTitles  map[string]struct{}
	movieProfile  int64
	seriesProfile int64
}

func (imp *Importer) fetchCatalog(ctx context.Context) (*catalog, error) {
	movies, err := imp.movies.Movies(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch movie catalog: %w", err)
	}
	series, err := imp.series.Series(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch series catalog: %w", err)
	}
	movieProfiles, err := imp.movies.QualityProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch movie quality profiles: %w", err)
	}
	seriesProfiles, err := imp.series.QualityProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch series quality profiles: %w", err)
	}
	if len(movieProfiles) == 0 || len(seriesProfiles) == 0 {
		return nil, fmt.Errorf("no quality profiles configured")
	}

	c := &catalog{
		movieTitles:  make(map[string]struct{}, len(movies)),
		seriesTitles: make(map[string]struct{}, len(series)),
		// First profile is the default, matching manual adds.
		movieProfile:  movieProfiles[0].ID,
		seriesProfile: seriesProfiles[0].ID,
	}
	for _, m := range movies {
		c.movieTitles[strings.ToLower(m.Title)] = struct{}{}
	}
	for _, s := range series {
		c.seriesTitles[strings.ToLower(s.Title)] = struct{}{}
	}
	return c, nil
}

func (imp *Importer) findVideos() ([]string, error) {
	classifier := media.Classifier{MinVideoSize: imp.cfg.MinVideoSize}
	var videos []string
	err := filepath.WalkDir(imp.cfg.StagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		size := media.SizeUnknown
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		if classifier.Classify(path, size) == media.ClassVideo {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (imp *Importer) processFile(ctx context.Context, path string, cat *catalog) outcome {
	name := filepath.Base(path)

	ident, err := media.ParseIdentity(name)
	if err != nil {
		imp.log.Debug("could not parse filename", "file", name)
		return outcomeSkipped
	}

	titleKey := strings.ToLower(ident.Title)
	if ident.Kind == media.KindMovie {
		if _, ok := cat.movieTitles[titleKey]; ok {
			imp.log.Debug("already in movie catalog", "title", ident.Title)
			return outcomeSkipped
		}
	} else {
		if _, ok := cat.seriesTitles[titleKey]; ok {
			imp.log.Debug("already in series catalog", "title", ident.Title)
			return outcomeSkipped
		}
	}

	kidsRatings := imp.cfg.KidsMovieRatings
	if ident.Kind == media.KindSeries {
		kidsRatings = imp.cfg.KidsSeriesRatings
	}
	kids, err := imp.ratings.IsKids(ctx, ident.Title, ident.Year, ident.Kind, kidsRatings)
	if err != nil {
		imp.log.Error("rating lookup failed", "title", ident.Title, "error", err)
		return outcomeFailed
	}

	rootFolder := imp.rootFolder(ident.Kind, kids)
	category := "adult"
	if kids {
		category = "kids"
	}
	imp.log.Info("importing",
		"kind", ident.Kind,
		"title", ident.Title,
		"year", ident.Year,
		"category", category,
		"root_folder", rootFolder,
		"dry_run", imp.cfg.DryRun,
	)

	if imp.cfg.DryRun {
		if ident.Kind == media.KindMovie {
			return outcomeMovieImported
		}
		return outcomeSeriesImported
	}

	if ident.Kind == media.KindMovie {
		return imp.addMovie(ctx, ident, rootFolder, cat.movieProfile)
	}
	return imp.addSeries(ctx, ident, rootFolder, cat.seriesProfile)
}

func (imp *Importer) rootFolder(kind media.Kind, kids bool) string {
	switch {
	case kind == media.KindMovie && kids:
		return imp.cfg.KidsMoviesRoot
	case kind == media.KindMovie:
		return imp.cfg.MoviesRoot
	case kids:
		return imp.cfg.KidsSeriesRoot
	default:
		return imp.cfg.SeriesRoot
	}
}

func (imp *Importer) addMovie(ctx context.Context, ident media.Identity, rootFolder string, profileID int64) outcome {
	results, err := imp.movies.LookupMovie(ctx, ident.Title, ident.Year)
	if err != nil {
		imp.log.Error("movie lookup failed", "title", ident.Title, "error", err)
		return outcomeFailed
	}
	if len(results) == 0 || results[0].TMDBID == 0 {
		imp.log.Warn("no canonical id for movie", "title", ident.Title, "year", ident.Year)
		return outcomeFailed
	}

	year := ident.Year
	if year == 0 {
		year = results[0].Year
	}
	err = imp.movies.AddMovie(ctx, arr.AddMovieRequest{
		TMDBID:           results[0].TMDBID,
		Title:            ident.Title,
		Year:             year,
		QualityProfileID: profileID,
		RootFolderPath:   rootFolder,
		Monitored:        true,
		AddOptions:       arr.MovieAddOptions{SearchForMovie: true},
	})
	if err != nil {
		imp.log.Error("add movie failed", "title", ident.Title, "error", err)
		return outcomeFailed
	}
	return outcomeMovieImported
}

func (imp *Importer) addSeries(ctx context.Context, ident media.Identity, rootFolder string, profileID int64) outcome {
	results, err := imp.series.LookupSeries(ctx, ident.Title, ident.Year)
	if err != nil {
		imp.log.Error("series lookup failed", "title", ident.Title, "error", err)
		return outcomeFailed
	}
	if len(results) == 0 || results[0].TVDBID == 0 {
		imp.log.Warn("no canonical id for series", "title", ident.Title, "year", ident.Year)
		return outcomeFailed
	}

	year := ident.Year
	if year == 0 {
		year = results[0].Year
	}
	err = imp.series.AddSeries(ctx, arr.AddSeriesRequest{
		TVDBID:           results[0].TVDBID,
		Title:            ident.Title,
		Year:             year,
		QualityProfileID: profileID,
		RootFolderPath:   rootFolder,
		Monitored:        true,
		AddOptions:       arr.SeriesAddOptions{SearchForMissingEpisodes: true},
	})
	if err != nil {
		imp.log.Error("add series failed", "title", ident.Title, "error", err)
		return outcomeFailed
	}
	return outcomeSeriesImported
}
