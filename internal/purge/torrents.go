package purge

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/seedsweep/internal/ledger"
	"github.com/vmunix/seedsweep/internal/rtorrent"
)

// Detail fetches and deletes are one RPC round trip each.
const torrentWorkers = 10

// TorrentClient is the slice of the torrent RPC surface phase 1 uses.
type TorrentClient interface {
	Check(ctx context.Context) error
	Seeding(ctx context.Context) ([]string, error)
	Torrent(ctx context.Context, hash string) (*rtorrent.Torrent, error)
	Delete(ctx context.Context, hash string, withFiles bool) error
}

type torrentOutcome struct {
	deleted bool
	failed  bool
	bytes   int64
}

// purgeTorrents deletes imported seeding torrents that meet the ratio/age
// policy. Only hashes the ledger proves imported are candidates; everything
// else is kept untouched.
func (o *Orchestrator) purgeTorrents(ctx context.Context, led *ledger.Ledger) (PhaseStats, error) {
	hashes, err := o.torrents.Seeding(ctx)
	if err != nil {
		return PhaseStats{}, fmt.Errorf("list seeding torrents: %w", err)
	}

	var candidates []string
	for _, h := range hashes {
		if led.HasHash(h) {
			candidates = append(candidates, h)
		}
	}
	notImported := len(hashes) - len(candidates)
	o.log.Info("seeding torrents",
		"total", len(hashes),
		"imported", len(candidates),
		"not_imported", notImported,
	)

	outcomes := make([]torrentOutcome, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(torrentWorkers)
	for i, hash := range candidates {
		i, hash := i, hash
		g.Go(func() error {
			outcomes[i] = o.processTorrent(gctx, hash)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PhaseStats{}, err
	}

	stats := PhaseStats{Kept: notImported}
	for _, out := range outcomes {
		switch {
		case out.failed:
			stats.Failed++
		case out.deleted:
			stats.Deleted++
			stats.BytesFreed += out.bytes
		default:
			stats.Kept++
		}
	}
	return stats, nil
}

func (o *Orchestrator) processTorrent(ctx context.Context, hash string) torrentOutcome {
	t, err := o.torrents.Torrent(ctx, hash)
	if err != nil {
		o.log.Warn("could not fetch torrent detail", "hash", hash, "error", err)
		return torrentOutcome{failed: true}
	}

	d := DecideTorrent(*t, o.cfg.MinRatio, o.cfg.MinSeedDays, o.now())
	if !d.Delete {
		o.log.Debug("keep torrent", "name", t.Name, "reason", d.Reason)
		return torrentOutcome{}
	}

	o.log.Info("delete torrent",
		"name", t.Name,
		"hash", hash,
		"reason", d.Reason,
		"size", humanize.IBytes(uint64(t.SizeBytes)),
	)
	if !o.cfg.DryRun {
		if err := o.torrents.Delete(ctx, hash, true); err != nil {
			o.log.Error("torrent delete failed", "name", t.Name, "error", err)
			return torrentOutcome{failed: true}
		}
	}
	return torrentOutcome{deleted: true, bytes: t.SizeBytes}
}
