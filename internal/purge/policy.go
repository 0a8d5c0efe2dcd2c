// Package purge drives the four-phase cleanup across the torrent client,
// the remote download area and the local staging directory.
package purge

import (
	"fmt"
	"time"

	"github.com/vmunix/seedsweep/internal/rtorrent"
)

// Decision is a retain-or-delete verdict with its audit reason.
type Decision struct {
	Delete bool
	Reason string
}

// DecideTorrent applies the seeding policy: delete when ratio >= minRatio OR
// age >= minDays. OR, not AND; a well-seeded young torrent and an old
// under-seeded one both qualify. Age is zero while the torrent has not
// finished. The reason discloses which clause fired and the measured value.
func DecideTorrent(t rtorrent.Torrent, minRatio float64, minDays int, now time.Time) Decision {
	var ageDays float64
	if !t.FinishedAt.IsZero() {
		ageDays = now.Sub(t.FinishedAt).Seconds() / 86400
	}

	if t.Ratio >= minRatio {
		return Decision{Delete: true, Reason: fmt.Sprintf("ratio %.2f >= %v", t.Ratio, minRatio)}
	}
	if ageDays >= float64(minDays) {
		return Decision{Delete: true, Reason: fmt.Sprintf("age %.1f days >= %d", ageDays, minDays)}
	}
	return Decision{Reason: fmt.Sprintf("ratio %.2f, age %.1f days", t.Ratio, ageDays)}
}
