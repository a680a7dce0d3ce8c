package augment

import (
	"sync/atomic"

	"github.com/menta2k/image-augmentor/pkg/types"
)

// Stats accumulates run-wide counters. Every worker updates it on completion.
type Stats struct {
	collected  atomic.Int64
	duplicated atomic.Int64
	skipped    atomic.Int64
	failed     atomic.Int64
}

// record folds one outcome into the counters
func (s *Stats) record(out types.Outcome) {
	switch out.Status {
	case types.StatusOK:
		s.collected.Add(int64(out.Saved))
	case types.StatusDuplicate:
		s.duplicated.Add(1)
	case types.StatusSkipped:
		s.skipped.Add(1)
	case types.StatusError:
		s.failed.Add(1)
	}
}

// Snapshot returns the current counter values
func (s *Stats) Snapshot() types.Stats {
	return types.Stats{
		ImagesCollected:  s.collected.Load(),
		ImagesDuplicated: s.duplicated.Load(),
		ImagesSkipped:    s.skipped.Load(),
		ImagesFailed:     s.failed.Load(),
	}
}
