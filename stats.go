package stripchart

import (
	"log/slog"
	"sync"
	"time"
)

// Stats accumulates the number and duration of draws per DrawMode.
// It is safe for concurrent use.
type Stats struct {
	mu     sync.Mutex
	counts [2]int
	totals [2]time.Duration
}

// Record adds one draw of the given mode.
func (s *Stats) Record(mode DrawMode, d time.Duration) {
	if mode != DrawModeFull && mode != DrawModeIncremental {
		return
	}
	s.mu.Lock()
	s.counts[mode]++
	s.totals[mode] += d
	s.mu.Unlock()
}

// Count returns the number of draws of the given mode.
func (s *Stats) Count(mode DrawMode) int {
	if mode != DrawModeFull && mode != DrawModeIncremental {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[mode]
}

// Average returns the mean draw duration of the given mode, or 0.
func (s *Stats) Average(mode DrawMode) time.Duration {
	if mode != DrawModeFull && mode != DrawModeIncremental {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[mode] == 0 {
		return 0
	}
	return s.totals[mode] / time.Duration(s.counts[mode])
}

// FPS returns how many draws of the given mode fit in one second at the
// average duration, or 0 if none were recorded.
func (s *Stats) FPS(mode DrawMode) float64 {
	avg := s.Average(mode)
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Reset clears all counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	s.counts = [2]int{}
	s.totals = [2]time.Duration{}
	s.mu.Unlock()
}

// LogValue implements slog.LogValuer.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("full", s.Count(DrawModeFull)),
		slog.Duration("full_avg", s.Average(DrawModeFull)),
		slog.Int("incremental", s.Count(DrawModeIncremental)),
		slog.Duration("incremental_avg", s.Average(DrawModeIncremental)),
	)
}
