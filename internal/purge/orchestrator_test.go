package purge_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/seedsweep/internal/arr"
	"github.com/vmunix/seedsweep/internal/autoimport"
	"github.com/vmunix/seedsweep/internal/ledger"
	"github.com/vmunix/seedsweep/internal/notify"
	"github.com/vmunix/seedsweep/internal/purge"
	"github.com/vmunix/seedsweep/internal/rtorrent"
	"github.com/vmunix/seedsweep/internal/seedbox"
)

type fakeLock struct {
	err      error
	acquired int
}

func (l *fakeLock) Acquire() (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() {}, nil
}

type fakeImporter struct {
	result autoimport.Result
	err    error
	runs   int
}

func (f *fakeImporter) Run(context.Context) (autoimport.Result, error) {
	f.runs++
	return f.result, f.err
}

type fakeTorrents struct {
	mu       sync.Mutex
	seeding  []string
	torrents map[string]*rtorrent.Torrent
	deleted  []string
	checkErr error
	listErr  error
}

func (f *fakeTorrents) Check(context.Context) error { return f.checkErr }

func (f *fakeTorrents) Seeding(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.seeding, nil
}

func (f *fakeTorrents) Torrent(_ context.Context, hash string) (*rtorrent.Torrent, error) {
	t, ok := f.torrents[hash]
	if !ok {
		return nil, errors.New("unknown hash")
	}
	return t, nil
}

func (f *fakeTorrents) Delete(_ context.Context, hash string, withFiles bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, hash)
	return nil
}

type fakeRemote struct {
	files     map[string][]seedbox.File
	deleted   []string
	emptyDirs []string
	listErr   error
	protected [][]string
}

func (f *fakeRemote) PathExists(_ context.Context, path string) (bool, error) {
	_, ok := f.files[path]
	return ok, nil
}

func (f *fakeRemote) ListFiles(_ context.Context, path string, _ int) ([]seedbox.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files[path], nil
}

func (f *fakeRemote) DeleteFile(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeRemote) DeleteEmptyDirs(_ context.Context, path string, protected []string) (int, error) {
	f.emptyDirs = append(f.emptyDirs, path)
	f.protected = append(f.protected, protected)
	return 0, nil
}

func (f *fakeRemote) DiskUsage(context.Context) (*seedbox.DiskUsage, error) {
	return &seedbox.DiskUsage{TotalGB: 100, UsedGB: 50, AvailableGB: 50, PercentUsed: 50}, nil
}

type fakeCatalog struct {
	movies   []arr.Movie
	series   []arr.Series
	episodes map[int64][]arr.Episode
}

func (f *fakeCatalog) Movies(context.Context) ([]arr.Movie, error) { return f.movies, nil }
func (f *fakeCatalog) Series(context.Context) ([]arr.Series, error) {
	return f.series, nil
}
func (f *fakeCatalog) Episodes(_ context.Context, id int64) ([]arr.Episode, error) {
	return f.episodes[id], nil
}

type fixture struct {
	lock     *fakeLock
	importer *fakeImporter
	torrents *fakeTorrents
	remote   *fakeRemote
	catalog  *fakeCatalog
	led      *ledger.Ledger
	logBuf   *bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		lock:     &fakeLock{},
		importer: &fakeImporter{},
		torrents: &fakeTorrents{torrents: map[string]*rtorrent.Torrent{}},
		remote:   &fakeRemote{files: map[string][]seedbox.File{}},
		catalog:  &fakeCatalog{episodes: map[int64][]arr.Episode{}},
		led:      newLedger(nil, nil, nil),
		logBuf:   &bytes.Buffer{},
	}
}

func newLedger(hashes, paths, names []string) *ledger.Ledger {
	led := &ledger.Ledger{
		Hashes:       map[string]struct{}{},
		LibraryPaths: map[string]struct{}{},
		StagingNames: map[string]struct{}{},
	}
	for _, h := range hashes {
		led.Hashes[strings.ToLower(h)] = struct{}{}
	}
	for _, p := range paths {
		led.LibraryPaths[p] = struct{}{}
	}
	for _, n := range names {
		led.StagingNames[n] = struct{}{}
	}
	return led
}

func (f *fixture) orchestrator(cfg purge.Config) *purge.Orchestrator {
	log := slog.New(slog.NewTextHandler(f.logBuf, nil))
	deps := purge.Deps{
		Lock:     f.lock,
		Ledger:   func(context.Context) (*ledger.Ledger, error) { return f.led, nil },
		Importer: f.importer,
		Torrents: f.torrents,
		Remote: func(context.Context) (purge.RemoteStore, func(), error) {
			return f.remote, func() {}, nil
		},
		Movies:   f.catalog,
		Series:   f.catalog,
		Notifier: notify.Noop{},
	}
	return purge.New(deps, cfg, log)
}

func baseConfig() purge.Config {
	return purge.Config{
		MinRatio:     1.5,
		MinSeedDays:  2,
		MinVideoSize: 1,
	}
}

func TestRun_LockFailureAborts(t *testing.T) {
	f := newFixture()
	f.lock.err = errors.New("another instance is running")

	summary, err := f.orchestrator(baseConfig()).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, purge.StateAborted, summary.State)
	assert.Zero(t, f.importer.runs)
}

func TestRun_TorrentDeletedByRatioPolicy(t *testing.T) {
	f := newFixture()
	f.led = newLedger([]string{"ABCDEF0123456789"}, nil, nil)
	f.torrents.seeding = []string{"ABCDEF0123456789", "FFFF000011112222"}
	f.torrents.torrents["ABCDEF0123456789"] = &rtorrent.Torrent{
		Hash: "ABCDEF0123456789", Name: "Heat.1995.1080p", Ratio: 2.0,
		SizeBytes: 4 << 30, FinishedAt: time.Now().Add(-time.Hour),
	}
	// Not in the ledger; would match policy but must never be considered.
	f.torrents.torrents["FFFF000011112222"] = &rtorrent.Torrent{
		Hash: "FFFF000011112222", Name: "Unimported", Ratio: 9.9,
	}

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipRemote = true
	cfg.SkipLocal = true

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, purge.StateDone, summary.State)
	assert.Equal(t, []string{"ABCDEF0123456789"}, f.torrents.deleted)
	assert.Equal(t, 1, summary.Torrents.Deleted)
	assert.Equal(t, 1, summary.Torrents.Kept)
	assert.Equal(t, int64(4<<30), summary.Torrents.BytesFreed)
	assert.Contains(t, f.logBuf.String(), `reason="ratio 2.00 >= 1.5"`)
}

func TestRun_DryRunIssuesNoMutations(t *testing.T) {
	staging := t.TempDir()
	writeFile(t, staging, "Imported.Movie.2020.1080p.mkv")

	f := newFixture()
	f.led = newLedger(
		[]string{"aaaa"},
		[]string{"/movies/Old.Movie.2019.mkv"},
		[]string{"Imported.Movie.2020.1080p.mkv"},
	)
	f.torrents.seeding = []string{"AAAA"}
	f.torrents.torrents["AAAA"] = &rtorrent.Torrent{Name: "seeded", Ratio: 3.0}
	f.remote.files["/downloads/_ready"] = []seedbox.File{
		{Path: "/downloads/_ready/Old.Movie.2019.mkv", Size: 100},
	}

	cfg := baseConfig()
	cfg.DryRun = true
	cfg.SkipAutoImport = true
	cfg.StagingDir = staging
	cfg.RemotePrimary = "/downloads/_ready"

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.torrents.deleted)
	assert.Empty(t, f.remote.deleted)
	assert.Empty(t, f.remote.emptyDirs)
	assert.FileExists(t, filepath.Join(staging, "Imported.Movie.2020.1080p.mkv"))

	// Decisions are still made and counted.
	assert.Equal(t, 1, summary.Torrents.Deleted)
	assert.Equal(t, 1, summary.Remote.Deleted)
	assert.Equal(t, 1, summary.Local.Deleted)
}

func TestRun_RemoteFailureIsFailSafe(t *testing.T) {
	f := newFixture()
	f.led = newLedger(nil, []string{"/movies/Some.Movie.mkv"}, nil)
	f.remote.files["/downloads/_ready"] = []seedbox.File{
		{Path: "/downloads/_ready/Some.Movie.mkv", Size: 10},
	}
	f.remote.listErr = errors.New("connection reset")

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipLocal = true
	cfg.RemotePrimary = "/downloads/_ready"

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.remote.deleted, "uncertainty must retain, never delete")
	assert.Zero(t, summary.Remote.Deleted)
	assert.Contains(t, summary.FailedPhases, "remote-purge")
	assert.Equal(t, purge.StateDone, summary.State)
}

func TestRun_PhaseFailureDoesNotBlockLaterPhases(t *testing.T) {
	staging := t.TempDir()
	writeFile(t, staging, "Done.Show.S01E01.mkv")

	f := newFixture()
	f.led = newLedger(nil, nil, []string{"Done.Show.S01E01.mkv"})
	f.torrents.checkErr = rtorrent.ErrAuth

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipRemote = true
	cfg.StagingDir = staging

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, summary.FailedPhases, "torrent-purge")
	assert.Equal(t, 1, summary.Local.Deleted, "local phase ran despite torrent failure")
	assert.NoFileExists(t, filepath.Join(staging, "Done.Show.S01E01.mkv"))
}

func TestRun_ProtectedRemotePathsUntouched(t *testing.T) {
	f := newFixture()
	f.led = newLedger(nil, []string{"/movies/Keep.Me.2020.mkv"}, nil)
	f.remote.files["/downloads/_ready"] = []seedbox.File{
		{Path: "/downloads/_ready/keep-forever/Keep.Me.2020.mkv", Size: 10},
		{Path: "/downloads/_ready/keep-forever/trailer.mp4", Size: 5},
		{Path: "/downloads/_ready/other/trailer.mp4", Size: 5},
	}

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipLocal = true
	cfg.RemotePrimary = "/downloads/_ready"
	cfg.Protected = []string{"keep-forever"}

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"/downloads/_ready/other/trailer.mp4"}, f.remote.deleted)
	assert.Equal(t, 1, summary.Remote.Deleted)
	// The exclusion list reaches the empty-dir cleanup too.
	require.Len(t, f.remote.protected, 1)
	assert.Equal(t, []string{"keep-forever"}, f.remote.protected[0])
}

func TestRun_RemoteExtraDeletedRegardlessOfLibrary(t *testing.T) {
	f := newFixture()
	f.remote.files["/downloads/_ready"] = []seedbox.File{
		{Path: "/downloads/_ready/Movie.2020/trailer.mp4", Size: 5},
		{Path: "/downloads/_ready/Movie.2020/Movie.2020.1080p.mkv", Size: 10},
	}

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipLocal = true
	cfg.RemotePrimary = "/downloads/_ready"

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"/downloads/_ready/Movie.2020/trailer.mp4"}, f.remote.deleted)
	assert.Equal(t, 1, summary.Remote.Kept, "unimported main video is kept for transfer")
}

func TestRun_FallbackDirSkippedWhenAncestorOfPrimary(t *testing.T) {
	f := newFixture()
	f.remote.files["/downloads/_ready"] = []seedbox.File{}
	f.remote.files["/downloads"] = []seedbox.File{
		{Path: "/downloads/trailer.mp4", Size: 5},
	}

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipLocal = true
	cfg.RemotePrimary = "/downloads/_ready"
	cfg.RemoteFallback = "/downloads"

	_, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.remote.deleted, "ancestor fallback dir must not be processed")
}

func TestRun_LocalManualImportFallback(t *testing.T) {
	staging := t.TempDir()
	writeFile(t, staging, "Show.S01E02.1080p.mkv")

	f := newFixture()
	f.catalog.series = []arr.Series{{ID: 7, Title: "Show"}}
	f.catalog.episodes[7] = []arr.Episode{
		{SeasonNumber: 1, EpisodeNumber: 1, HasFile: true},
		{SeasonNumber: 1, EpisodeNumber: 2, HasFile: true},
	}

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipRemote = true
	cfg.StagingDir = staging

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Local.Deleted)
	assert.NoFileExists(t, filepath.Join(staging, "Show.S01E02.1080p.mkv"))
	assert.Contains(t, f.logBuf.String(), "manual import detected")
}

func TestRun_LocalRetainsWhenEpisodeHasNoFile(t *testing.T) {
	staging := t.TempDir()
	writeFile(t, staging, "Show.S01E03.1080p.mkv")

	f := newFixture()
	f.catalog.series = []arr.Series{{ID: 7, Title: "Show"}}
	f.catalog.episodes[7] = []arr.Episode{
		{SeasonNumber: 1, EpisodeNumber: 3, HasFile: false},
	}

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipRemote = true
	cfg.StagingDir = staging

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Local.Deleted)
	assert.FileExists(t, filepath.Join(staging, "Show.S01E03.1080p.mkv"))
}

func TestRun_LocalPurgeIsIdempotent(t *testing.T) {
	staging := t.TempDir()
	sub := filepath.Join(staging, "Imported.Movie.2020")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "Imported.Movie.2020.1080p.mkv")
	writeFile(t, staging, "Unimported.Movie.2021.1080p.mkv")

	f := newFixture()
	f.led = newLedger(nil, nil, []string{"Imported.Movie.2020.1080p.mkv"})

	cfg := baseConfig()
	cfg.SkipAutoImport = true
	cfg.SkipTorrents = true
	cfg.SkipRemote = true
	cfg.StagingDir = staging

	first, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Local.Deleted)
	assert.NoDirExists(t, sub, "emptied subdirectory is pruned")
	assert.DirExists(t, staging, "staging root is never deleted")

	second, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Local.Deleted, "second run has nothing left to delete")
	assert.FileExists(t, filepath.Join(staging, "Unimported.Movie.2021.1080p.mkv"))
}

func TestRun_AutoImportResultInSummary(t *testing.T) {
	f := newFixture()
	f.importer.result = autoimport.Result{MoviesImported: 2, SeriesImported: 1, Skipped: 3}

	cfg := baseConfig()
	cfg.SkipTorrents = true
	cfg.SkipRemote = true
	cfg.SkipLocal = true

	summary, err := f.orchestrator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.importer.runs)
	assert.Equal(t, 3, summary.TotalImported())
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("0123456789"), 0o644))
}
