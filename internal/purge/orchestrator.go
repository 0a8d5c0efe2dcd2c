package purge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/seedsweep/internal/autoimport"
	"github.com/vmunix/seedsweep/internal/ledger"
	"github.com/vmunix/seedsweep/internal/notify"
)

// State is the orchestrator's position in the phase sequence.
type State int

const (
	StateIdle State = iota
	StateLockAcquired
	StateAutoImport
	StateTorrentPurge
	StateRemotePurge
	StateLocalPurge
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLockAcquired:
		return "lock-acquired"
	case StateAutoImport:
		return "auto-import"
	case StateTorrentPurge:
		return "torrent-purge"
	case StateRemotePurge:
		return "remote-purge"
	case StateLocalPurge:
		return "local-purge"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Locker provides session-level exclusivity. Acquire fails immediately when
// another run holds the lock; it is never retried.
type Locker interface {
	Acquire() (release func(), err error)
}

// AutoImporter runs phase 0.
type AutoImporter interface {
	Run(ctx context.Context) (autoimport.Result, error)
}

// RemoteDialer opens the remote storage connection for phase 2. The close
// func is invoked when the phase finishes.
type RemoteDialer func(ctx context.Context) (RemoteStore, func(), error)

// LedgerFunc builds the import ledger shared by phases 1 through 3.
type LedgerFunc func(ctx context.Context) (*ledger.Ledger, error)

// Config carries the run mode and thresholds.
type Config struct {
	DryRun bool

	SkipAutoImport bool
	SkipTorrents   bool
	SkipRemote     bool
	SkipLocal      bool

	MinRatio     float64
	MinSeedDays  int
	MinVideoSize int64

	StagingDir     string
	RemotePrimary  string
	RemoteFallback string
	Protected      []string

	NotifyOnSuccess bool
}

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	Lock     Locker
	Ledger   LedgerFunc
	Importer AutoImporter
	Torrents TorrentClient
	Remote   RemoteDialer
	Movies   MovieCatalog
	Series   SeriesCatalog
	Notifier notify.Notifier
}

// Orchestrator sequences the four phases. Phases never overlap; all
// concurrency lives inside a phase.
type Orchestrator struct {
	cfg         Config
	lock        Locker
	buildLedger LedgerFunc
	importer    AutoImporter
	torrents    TorrentClient
	remoteDial  RemoteDialer
	movies      MovieCatalog
	series      SeriesCatalog
	notifier    notify.Notifier
	log         *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

func New(deps Deps, cfg Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		lock:        deps.Lock,
		buildLedger: deps.Ledger,
		importer:    deps.Importer,
		torrents:    deps.Torrents,
		remoteDial:  deps.Remote,
		movies:      deps.Movies,
		series:      deps.Series,
		notifier:    deps.Notifier,
		log:         log,
		now:         time.Now,
	}
}

// Run executes the phase sequence. A phase failure is recorded and later
// phases still run; Run returns an error only when the whole run aborts
// (lock held elsewhere, or the import ledger cannot be built).
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{State: StateIdle}

	mode := "execute"
	if o.cfg.DryRun {
		mode = "dry-run"
	}
	o.log.Info("starting cleanup",
		"mode", mode,
		"skip_auto_import", o.cfg.SkipAutoImport,
		"skip_torrents", o.cfg.SkipTorrents,
		"skip_remote", o.cfg.SkipRemote,
		"skip_local", o.cfg.SkipLocal,
	)

	release, err := o.lock.Acquire()
	if err != nil {
		summary.State = StateAborted
		return summary, fmt.Errorf("acquire run lock: %w", err)
	}
	defer release()
	summary.State = StateLockAcquired
	o.log.Info("lock acquired")

	var led *ledger.Ledger
	if !(o.cfg.SkipTorrents && o.cfg.SkipRemote && o.cfg.SkipLocal) {
		led, err = o.buildLedger(ctx)
		if err != nil {
			summary.State = StateAborted
			o.notifyError(ctx, fmt.Sprintf("import ledger build failed: %v", err))
			return summary, fmt.Errorf("build import ledger: %w", err)
		}
		o.log.Info("import ledger built",
			"hashes", len(led.Hashes),
			"library_files", len(led.LibraryPaths),
			"staging_names", len(led.StagingNames),
		)
	}

	if o.cfg.SkipAutoImport {
		o.log.Info("skipping phase 0: auto-import")
	} else {
		summary.State = StateAutoImport
		o.log.Info("phase 0: auto-import")
		if res, err := o.importer.Run(ctx); err != nil {
			o.phaseFailed(ctx, summary, "auto-import", err)
		} else {
			summary.AutoImport = res
		}
	}

	if o.cfg.SkipTorrents {
		o.log.Info("skipping phase 1: torrent purge")
	} else {
		summary.State = StateTorrentPurge
		o.log.Info("phase 1: torrent purge")
		if err := o.torrents.Check(ctx); err != nil {
			o.phaseFailed(ctx, summary, "torrent-purge", fmt.Errorf("torrent client unreachable: %w", err))
		} else if stats, err := o.purgeTorrents(ctx, led); err != nil {
			o.phaseFailed(ctx, summary, "torrent-purge", err)
		} else {
			summary.Torrents = stats
		}
	}

	if o.cfg.SkipRemote {
		o.log.Info("skipping phase 2: remote purge")
	} else {
		summary.State = StateRemotePurge
		o.log.Info("phase 2: remote purge")
		if store, closeStore, err := o.remoteDial(ctx); err != nil {
			o.phaseFailed(ctx, summary, "remote-purge", fmt.Errorf("remote connection failed: %w", err))
		} else {
			stats, err := o.purgeRemote(ctx, led, store)
			closeStore()
			if err != nil {
				o.phaseFailed(ctx, summary, "remote-purge", err)
			} else {
				summary.Remote = stats
			}
		}
	}

	if o.cfg.SkipLocal {
		o.log.Info("skipping phase 3: local purge")
	} else {
		summary.State = StateLocalPurge
		o.log.Info("phase 3: local purge")
		if stats, err := o.purgeLocal(ctx, led); err != nil {
			o.phaseFailed(ctx, summary, "local-purge", err)
		} else {
			summary.Local = stats
		}
	}

	summary.State = StateDone
	o.logSummary(summary)

	if !o.cfg.DryRun && o.cfg.NotifyOnSuccess && len(summary.FailedPhases) == 0 &&
		(summary.TotalDeleted() > 0 || summary.TotalImported() > 0) {
		msg := fmt.Sprintf("imported %d items, deleted %d, freed %s",
			summary.TotalImported(), summary.TotalDeleted(),
			humanize.IBytes(uint64(summary.TotalBytesFreed())))
		if err := o.notifier.Success(ctx, "cleanup completed", msg); err != nil {
			o.log.Warn("success notification failed", "error", err)
		}
	}
	return summary, nil
}

func (o *Orchestrator) phaseFailed(ctx context.Context, summary *Summary, phase string, err error) {
	summary.FailedPhases = append(summary.FailedPhases, phase)
	o.log.Error("phase failed", "phase", phase, "error", err)
	o.notifyError(ctx, fmt.Sprintf("%s failed: %v", phase, err))
}

func (o *Orchestrator) notifyError(ctx context.Context, message string) {
	if err := o.notifier.Error(ctx, "cleanup failed", message); err != nil {
		o.log.Warn("error notification failed", "error", err)
	}
}

func (o *Orchestrator) logSummary(summary *Summary) {
	o.log.Info("run summary",
		"imported_movies", summary.AutoImport.MoviesImported,
		"imported_series", summary.AutoImport.SeriesImported,
		"torrents_deleted", summary.Torrents.Deleted,
		"remote_deleted", summary.Remote.Deleted,
		"local_deleted", summary.Local.Deleted,
		"total_deleted", summary.TotalDeleted(),
		"space_freed", humanize.IBytes(uint64(summary.TotalBytesFreed())),
		"failed_phases", summary.FailedPhases,
	)
}
