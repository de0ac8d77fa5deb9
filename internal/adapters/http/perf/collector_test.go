package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_SnapshotSplitsKinds verifies pages, upstream calls and queries aggregate separately.
func TestCollector_SnapshotSplitsKinds(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /master_list", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /master_list", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindUpstream, Path: "GET /gear", StatusCode: 200, DurationMs: 8, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "QueryRowContext", DurationMs: 1, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 4 {
		t.Errorf("TotalRecorded = %d, want 4", snap.TotalRecorded)
	}
	if len(snap.SlowestPages) != 1 || snap.SlowestPages[0].AvgMs != 20 {
		t.Fatalf("SlowestPages = %+v, want one entry averaging 20", snap.SlowestPages)
	}
	if len(snap.SlowestUpstream) != 1 || snap.SlowestUpstream[0].Path != "GET /gear" {
		t.Errorf("SlowestUpstream = %+v", snap.SlowestUpstream)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries len = %d, want 1", len(snap.SlowestQueries))
	}
}

// TestCollector_UpstreamErrors verifies failed upstream calls are counted.
func TestCollector_UpstreamErrors(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindUpstream, Path: "GET /gear", StatusCode: 500, DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindUpstream, Path: "GET /gear", StatusCode: 0, DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindUpstream, Path: "GET /gear", StatusCode: 200, DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.UpstreamErrors != 2 {
		t.Errorf("UpstreamErrors = %d, want 2", snap.UpstreamErrors)
	}
	if snap.SlowestUpstream[0].Errors != 2 {
		t.Errorf("Errors = %d, want 2", snap.SlowestUpstream[0].Errors)
	}
}

// TestCollector_RingBuffer_Overwrites verifies oldest entries are overwritten when full.
func TestCollector_RingBuffer_Overwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /paperdoll", DurationMs: float64(i), Timestamp: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPages) != 1 {
		t.Fatalf("SlowestPages len = %d, want 1", len(snap.SlowestPages))
	}
	if snap.SlowestPages[0].Count != 3 {
		t.Errorf("Count = %d, want 3 (ring buffer kept last 3)", snap.SlowestPages[0].Count)
	}
}

// TestCollector_Percentiles verifies P50/P95/P99 calculation.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()

	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /p", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 94 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
	if snap.UpstreamP95Ms != 0 {
		t.Errorf("UpstreamP95Ms = %v, want 0 with no upstream entries", snap.UpstreamP95Ms)
	}
}

// TestCollector_Snapshot_FiltersBySince verifies old entries are excluded.
func TestCollector_Snapshot_FiltersBySince(t *testing.T) {
	c := NewCollector(100)
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 100, Timestamp: old})
	c.Record(Entry{Kind: KindRequest, Path: "GET /new", DurationMs: 10, Timestamp: recent})

	snap := c.Snapshot(time.Now().Add(-1*time.Hour), 10)
	if len(snap.SlowestPages) != 1 {
		t.Fatalf("SlowestPages len = %d, want 1 (old entry filtered)", len(snap.SlowestPages))
	}
	if snap.SlowestPages[0].Path != "GET /new" {
		t.Errorf("Path = %q, want GET /new", snap.SlowestPages[0].Path)
	}
}

// TestCollector_ConcurrentWrites verifies goroutine safety of Record.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.Record(Entry{Kind: KindUpstream, Path: "GET /locations", DurationMs: float64(n), Timestamp: now})
			}
		}(i)
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

// BenchmarkCollectorRecord measures per-call cost of Record().
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindUpstream, Path: "GET /gear", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}

// BenchmarkCollectorSnapshot measures cost of computing percentiles + top-N.
func BenchmarkCollectorSnapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := 0; i < DefaultRingSize; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /bench", StatusCode: 200, DurationMs: float64(i % 100), Timestamp: now})
	}
	since := now.Add(-time.Hour)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot(since, 10)
	}
}
