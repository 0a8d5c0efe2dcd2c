package purge

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/seedsweep/internal/ledger"
	"github.com/vmunix/seedsweep/internal/seedbox"
	"github.com/vmunix/seedsweep/pkg/media"
)

// RemoteStore is the slice of the remote storage transport phase 2 uses.
type RemoteStore interface {
	PathExists(ctx context.Context, path string) (bool, error)
	ListFiles(ctx context.Context, path string, olderThanDays int) ([]seedbox.File, error)
	DeleteFile(ctx context.Context, path string) error
	DeleteEmptyDirs(ctx context.Context, path string, protected []string) (int, error)
	DiskUsage(ctx context.Context) (*seedbox.DiskUsage, error)
}

// remoteDirs returns the directories to clean in priority order. The broader
// fallback area is skipped when it is an ancestor of the primary dir, which
// would otherwise process the same files twice.
func (o *Orchestrator) remoteDirs() []string {
	var dirs []string
	if o.cfg.RemotePrimary != "" {
		dirs = append(dirs, o.cfg.RemotePrimary)
	}
	if o.cfg.RemoteFallback != "" {
		if strings.HasPrefix(o.cfg.RemotePrimary, o.cfg.RemoteFallback+"/") {
			o.log.Info("skipping fallback dir, ancestor of primary",
				"fallback", o.cfg.RemoteFallback,
				"primary", o.cfg.RemotePrimary,
			)
		} else {
			dirs = append(dirs, o.cfg.RemoteFallback)
		}
	}
	return dirs
}

// purgeRemote deletes remote files that are extras or already present in the
// library. Anything else is kept for the transfer step to fetch. Any listing
// failure aborts the phase with zero deletions.
func (o *Orchestrator) purgeRemote(ctx context.Context, led *ledger.Ledger, store RemoteStore) (PhaseStats, error) {
	dirs := o.remoteDirs()
	if len(dirs) == 0 {
		o.log.Warn("no remote directories configured")
		return PhaseStats{}, nil
	}

	if du, err := store.DiskUsage(ctx); err == nil {
		o.log.Info("remote disk usage",
			"used_gb", du.UsedGB,
			"available_gb", du.AvailableGB,
			"percent_used", du.PercentUsed,
		)
	}

	var stats PhaseStats
	classifier := media.Classifier{MinVideoSize: o.cfg.MinVideoSize}

	for _, dir := range dirs {
		exists, err := store.PathExists(ctx, dir)
		if err != nil {
			return PhaseStats{}, fmt.Errorf("check %s: %w", dir, err)
		}
		if !exists {
			o.log.Info("remote directory does not exist", "dir", dir)
			continue
		}

		files, err := store.ListFiles(ctx, dir, 0)
		if err != nil {
			return PhaseStats{}, fmt.Errorf("list %s: %w", dir, err)
		}
		o.log.Info("scanning remote directory", "dir", dir, "files", len(files))

		dirStats := o.purgeRemoteFiles(ctx, led, store, classifier, files)

		if !o.cfg.DryRun && dirStats.Deleted > 0 {
			removed, err := store.DeleteEmptyDirs(ctx, dir, o.cfg.Protected)
			if err != nil {
				o.log.Error("empty dir cleanup failed", "dir", dir, "error", err)
			} else {
				o.log.Info("removed empty remote directories", "dir", dir, "count", removed)
			}
		}
		stats.merge(dirStats)
	}
	return stats, nil
}

func (o *Orchestrator) purgeRemoteFiles(ctx context.Context, led *ledger.Ledger, store RemoteStore, classifier media.Classifier, files []seedbox.File) PhaseStats {
	var stats PhaseStats
	for _, f := range files {
		if seedbox.IsProtected(f.Path, o.cfg.Protected) {
			o.log.Debug("protected", "path", f.Path)
			continue
		}

		var reason string
		switch {
		case classifier.Classify(f.Path, f.Size) == media.ClassExtra:
			reason = "extra file (trailer/sample/txt/nfo)"
		case led.HasLibraryBasename(f.Path):
			reason = "imported to library"
		default:
			o.log.Debug("keep remote file, not imported yet", "path", f.Path)
			stats.Kept++
			continue
		}

		o.log.Info("delete remote file",
			"path", f.Path,
			"reason", reason,
			"size", humanize.IBytes(uint64(f.Size)),
		)
		if !o.cfg.DryRun {
			if err := store.DeleteFile(ctx, f.Path); err != nil {
				o.log.Error("remote delete failed", "path", f.Path, "error", err)
				stats.Failed++
				continue
			}
		}
		stats.Deleted++
		stats.BytesFreed += f.Size
	}
	return stats
}
