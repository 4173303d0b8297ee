package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics counts transactions per action. It is safe for concurrent use.
type Metrics struct {
	mu      sync.Mutex
	panics  uint64
	actions map[Action]*ActionStats
}

// ActionStats aggregates the transactions of one action.
type ActionStats struct {
	Action    Action
	Count     uint64
	Committed uint64
	NoOps     uint64
	Cancelled uint64
	Errors    uint64
	Applied   uint64
	Skipped   uint64
	Warnings  uint64
	Total     time.Duration
	Max       time.Duration
}

// Mean returns the average transaction duration.
func (s ActionStats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot is a copy of the counters at one point in time.
type Snapshot struct {
	Dispatches uint64
	Committed  uint64
	Errors     uint64
	Warnings   uint64
	Panics     uint64

	// Actions is ordered by count, busiest first.
	Actions []ActionStats
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[Action]*ActionStats)}
}

// RecordDispatch adds one finished transaction.
func (m *Metrics) RecordDispatch(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.actions[res.Action]
	if s == nil {
		s = &ActionStats{Action: res.Action}
		m.actions[res.Action] = s
	}
	s.Count++
	s.Applied += uint64(res.Applied)
	s.Skipped += uint64(res.Skipped)
	s.Warnings += uint64(len(res.Warnings))
	s.Total += res.Duration
	s.Max = max(s.Max, res.Duration)
	switch res.Status {
	case StatusOK:
		s.Committed++
	case StatusNoOp:
		s.NoOps++
	case StatusCancelled:
		s.Cancelled++
	case StatusError:
		s.Errors++
	}
}

// RecordPanic counts a recovered panic.
func (m *Metrics) RecordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{Panics: m.panics, Actions: make([]ActionStats, 0, len(m.actions))}
	for _, s := range m.actions {
		snap.Dispatches += s.Count
		snap.Committed += s.Committed
		snap.Errors += s.Errors
		snap.Warnings += s.Warnings
		snap.Actions = append(snap.Actions, *s)
	}
	sort.Slice(snap.Actions, func(i, j int) bool {
		a, b := snap.Actions[i], snap.Actions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Action < b.Action
	})
	return snap
}
