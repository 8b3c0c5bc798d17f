// Package metrics provides latency histograms for the kernel
// boundary. Counters and gauges are kept with
// github.com/codahale/metrics directly by the packages that own them.
//
// Defined metrics:
//   jets.hit, jets.miss, jets.punt, jets.verify (counters)
//   kernel.peek, kernel.poke, kernel.fail (counters)
//   kernel.event (gauge)
//   arena.words (gauge)
package metrics

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

// Period is the size of a RotatingLatency bucket.
// Each RotatingLatency will rotate once per Period.
var Period = time.Minute

// Bucket is the exported form of one rotation's worth of samples.
type Bucket struct {
	Timestamp int64
	Histogram *hdrhistogram.Snapshot
	Over      int // number of values greater than max
}

// A RotatingLatency holds a rotating circular buffer of hdrhistograms,
// each one covering Period. It is safe for concurrent use.
type RotatingLatency struct {
	mu      sync.Mutex
	max     int64
	buckets []*hdrhistogram.Histogram
	over    []int
	stamps  []int64
	n       int // number of rotations
}

// NewRotatingLatency returns a new rotating latency recorder
// with n buckets of history. Durations greater than max
// are counted in the Over field of each bucket.
func NewRotatingLatency(n int, max time.Duration) *RotatingLatency {
	r := &RotatingLatency{
		max:     int64(max),
		buckets: make([]*hdrhistogram.Histogram, n),
		over:    make([]int, n),
		stamps:  make([]int64, n),
	}
	for i := range r.buckets {
		r.buckets[i] = hdrhistogram.New(0, int64(max), 2)
	}
	r.stamps[0] = time.Now().Unix()
	return r
}

// Record attempts to record a duration in the current bucket.
func (r *RotatingLatency) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.n % len(r.buckets)
	if int64(d) > r.max {
		r.over[i]++
		return
	}
	r.buckets[i].RecordValue(int64(d))
}

// RecordSince records the duration elapsed since t0.
func (r *RotatingLatency) RecordSince(t0 time.Time) {
	r.Record(time.Since(t0))
}

// Rotate starts a new bucket, discarding the oldest one.
func (r *RotatingLatency) Rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	i := r.n % len(r.buckets)
	r.buckets[i].Reset()
	r.over[i] = 0
	r.stamps[i] = time.Now().Unix()
}

// RotateEvery rotates each of ls once per Period until done is closed.
func RotateEvery(done <-chan struct{}, ls ...*RotatingLatency) {
	t := time.NewTicker(Period)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			for _, l := range ls {
				l.Rotate()
			}
		}
	}
}

// Merged returns a histogram of every sample currently held.
func (r *RotatingLatency) Merged() *hdrhistogram.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := hdrhistogram.New(0, r.max, 2)
	for _, b := range r.buckets {
		m.Merge(b)
	}
	return m
}

// String returns the live buckets as JSON, oldest first.
// It satisfies expvar.Var.
func (r *RotatingLatency) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := struct {
		NumRot  int
		Buckets []Bucket
	}{NumRot: r.n}
	k := len(r.buckets)
	first := r.n - k + 1
	if first < 0 {
		first = 0
	}
	for rot := first; rot <= r.n; rot++ {
		i := rot % k
		v.Buckets = append(v.Buckets, Bucket{
			Timestamp: r.stamps[i],
			Histogram: r.buckets[i].Export(),
			Over:      r.over[i],
		})
	}
	b, _ := json.Marshal(v)
	return string(b)
}
