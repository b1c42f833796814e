// Package timing records how long the table and plot operations take.
package timing

import (
	"sort"
	"sync"
	"time"

	"table2spatial/internal/logger"
)

// Stats summarises the runs of one operation.
type Stats struct {
	Count int
	Total time.Duration
	Max   time.Duration
}

func (s Stats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Tracker accumulates operation durations. A nil Tracker records nothing.
type Tracker struct {
	mu     sync.RWMutex
	stats  map[string]Stats
	logger logger.Logger
}

func NewTracker(log logger.Logger) *Tracker {
	return &Tracker{
		stats:  make(map[string]Stats),
		logger: log,
	}
}

// Start begins timing operation. The returned func stops the clock, records
// the run and returns its duration.
func (t *Tracker) Start(operation string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		if t == nil {
			return d
		}

		t.mu.Lock()
		s := t.stats[operation]
		s.Count++
		s.Total += d
		if d > s.Max {
			s.Max = d
		}
		t.stats[operation] = s
		t.mu.Unlock()

		t.logger.Debug("Timing", "operation completed", map[string]interface{}{
			"operation":   operation,
			"duration_ms": d.Milliseconds(),
		})
		return d
	}
}

func (t *Tracker) Stats(operation string) (Stats, bool) {
	if t == nil {
		return Stats{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.stats[operation]
	return s, ok
}

// Operations lists the recorded operations in name order.
func (t *Tracker) Operations() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	ops := make([]string, 0, len(t.stats))
	for op := range t.stats {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Reset forgets one operation, or all of them when operation is empty.
func (t *Tracker) Reset(operation string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if operation == "" {
		t.stats = make(map[string]Stats)
	} else {
		delete(t.stats, operation)
	}
}

// Shutdown logs a summary line per operation.
func (t *Tracker) Shutdown() {
	for _, op := range t.Operations() {
		s, _ := t.Stats(op)
		t.logger.Info("Timing", "operation summary", map[string]interface{}{
			"operation": op,
			"runs":      s.Count,
			"avg_ms":    s.Average().Milliseconds(),
			"max_ms":    s.Max.Milliseconds(),
		})
	}
}
