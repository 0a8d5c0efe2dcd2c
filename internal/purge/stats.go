package purge

import "github.com/vmunix/seedsweep/internal/autoimport"

// PhaseStats aggregates the per-item outcomes of one phase.
type PhaseStats struct {
	Deleted    int
	Kept       int
	Failed     int
	BytesFreed int64
}

func (s *PhaseStats) merge(o PhaseStats) {
	s.Deleted += o.Deleted
	s.Kept += o.Kept
	s.Failed += o.Failed
	s.BytesFreed += o.BytesFreed
}

// Summary is the end-of-run report across all phases.
type Summary struct {
	State      State
	AutoImport autoimport.Result
	Torrents   PhaseStats
	Remote     PhaseStats
	Local      PhaseStats

	// FailedPhases names phases that failed fatally. Later phases still ran.
	FailedPhases []string
}

func (s *Summary) TotalDeleted() int {
	return s.Torrents.Deleted + s.Remote.Deleted + s.Local.Deleted
}

func (s *Summary) TotalBytesFreed() int64 {
	return s.Torrents.BytesFreed + s.Remote.BytesFreed + s.Local.BytesFreed
}

func (s *Summary) TotalImported() int {
	return s.AutoImport.MoviesImported + s.AutoImport.SeriesImported
}
