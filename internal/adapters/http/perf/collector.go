package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes page requests, upstream API calls and credential-store queries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindUpstream
	KindQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /paperdoll", "GET /gear/{id}" or "QueryRowContext"
	StatusCode int    // 0 for queries and transport failures
	DurationMs float64
	Timestamp  time.Time
}

// Failed reports whether the entry represents an unsuccessful call.
func (e Entry) Failed() bool {
	if e.Kind == KindQuery {
		return false
	}
	return e.StatusCode == 0 || e.StatusCode >= 400
}

// Collector is a fixed-size ring buffer for timing entries.
// Writes never block on readers; when full, the oldest entries are overwritten.
// Aggregation happens only on read (Snapshot).
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0 (non-positive falls back to DefaultRingSize)
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e.Timestamp is set
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRecorded   int64
	RequestP50Ms    float64
	RequestP95Ms    float64
	RequestP99Ms    float64
	UpstreamP95Ms   float64
	UpstreamErrors  int
	SlowestPages    []PathStat
	SlowestUpstream []PathStat
	SlowestQueries  []PathStat
}

// PathStat aggregates timing for a single page route, upstream endpoint or query op.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	Errors  int
	TotalMs float64
}

// Snapshot computes aggregated stats from the ring buffer.
// Sorting makes this the expensive path; only the /debug/perf page calls it.
// PRE: topN > 0
// POST: Returns a Snapshot with percentiles and top-N lists per kind
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	durations := map[EntryKind][]float64{}
	stats := map[EntryKind]map[string]*PathStat{
		KindRequest:  {},
		KindUpstream: {},
		KindQuery:    {},
	}
	upstreamErrors := 0

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		byPath, ok := stats[e.Kind]
		if !ok {
			continue
		}
		durations[e.Kind] = append(durations[e.Kind], e.DurationMs)

		s, ok := byPath[e.Path]
		if !ok {
			s = &PathStat{Path: e.Path}
			byPath[e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		if e.DurationMs > s.MaxMs {
			s.MaxMs = e.DurationMs
		}
		if e.Failed() {
			s.Errors++
			if e.Kind == KindUpstream {
				upstreamErrors++
			}
		}
	}

	for _, byPath := range stats {
		for _, s := range byPath {
			s.AvgMs = s.TotalMs / float64(s.Count)
		}
	}

	snap := Snapshot{
		TotalRecorded:   c.TotalRecorded(),
		UpstreamErrors:  upstreamErrors,
		SlowestPages:    topByAvg(stats[KindRequest], topN),
		SlowestUpstream: topByAvg(stats[KindUpstream], topN),
		SlowestQueries:  topByAvg(stats[KindQuery], topN),
	}

	if req := durations[KindRequest]; len(req) > 0 {
		sort.Float64s(req)
		snap.RequestP50Ms = percentile(req, 50)
		snap.RequestP95Ms = percentile(req, 95)
		snap.RequestP99Ms = percentile(req, 99)
	}
	if up := durations[KindUpstream]; len(up) > 0 {
		sort.Float64s(up)
		snap.UpstreamP95Ms = percentile(up, 95)
	}

	return snap
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N paths sorted by average duration (descending).
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Path < list[j].Path
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
