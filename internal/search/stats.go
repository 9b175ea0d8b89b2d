package search

import (
	"sort"
	"sync"
	"time"
)

// Pass kinds recorded by Stats.
const (
	PassInput     = "input"
	PassHighlight = "highlight"
)

type pass struct {
	at      time.Time
	kind    string
	took    time.Duration
	markers int
}

// StatsSnapshot aggregates the search passes still inside the window.
// Latencies are in microseconds; percentiles use the nearest rank.
type StatsSnapshot struct {
	Count   int            `json:"count"`
	Markers int            `json:"markers"`
	ByKind  map[string]int `json:"by_kind,omitempty"`
	MinUs   int64          `json:"min_us"`
	MaxUs   int64          `json:"max_us"`
	AvgUs   float64        `json:"avg_us"`
	P50Us   int64          `json:"p50_us"`
	P95Us   int64          `json:"p95_us"`
	P99Us   int64          `json:"p99_us"`
}

// Stats keeps the search passes of the last window, oldest first. It is
// shared by every session of a server. A nil *Stats records nothing.
type Stats struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	passes []pass
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// Track starts timing one pass of the given kind. Calling the returned
// func ends the pass and records how many markers it left in the page.
func (s *Stats) Track(kind string) func(markers int) {
	if s == nil {
		return func(int) {}
	}
	start := s.now()
	return func(markers int) {
		s.add(kind, s.now().Sub(start), markers)
	}
}

func (s *Stats) add(kind string, took time.Duration, markers int) {
	if took < 0 {
		took = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.passes = append(s.expireLocked(now), pass{at: now, kind: kind, took: took, markers: markers})
}

// expireLocked drops passes older than the window. Passes are stamped under
// the lock, so the live ones are always a suffix.
func (s *Stats) expireLocked(now time.Time) []pass {
	cutoff := now.Add(-s.window)
	i := sort.Search(len(s.passes), func(i int) bool { return !s.passes[i].at.Before(cutoff) })
	if i > 0 {
		s.passes = append(s.passes[:0], s.passes[i:]...)
	}
	return s.passes
}

func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	s.mu.Lock()
	live := s.expireLocked(s.now())
	snap := StatsSnapshot{Count: len(live)}
	took := make([]time.Duration, len(live))
	var total time.Duration
	for i, p := range live {
		if snap.ByKind == nil {
			snap.ByKind = make(map[string]int)
		}
		snap.ByKind[p.kind]++
		snap.Markers += p.markers
		took[i] = p.took
		total += p.took
	}
	s.mu.Unlock()

	if len(took) == 0 {
		return snap
	}
	sort.Slice(took, func(i, j int) bool { return took[i] < took[j] })
	snap.MinUs = took[0].Microseconds()
	snap.MaxUs = took[len(took)-1].Microseconds()
	snap.AvgUs = float64(total.Microseconds()) / float64(len(took))
	snap.P50Us = nearestRank(took, 50)
	snap.P95Us = nearestRank(took, 95)
	snap.P99Us = nearestRank(took, 99)
	return snap
}

func nearestRank(sorted []time.Duration, pct int) int64 {
	i := (pct*len(sorted)+99)/100 - 1
	if i < 0 {
		i = 0
	}
	return sorted[i].Microseconds()
}
