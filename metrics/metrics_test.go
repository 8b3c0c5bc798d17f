package metrics

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRotatingLatency(t *testing.T) {
	r := NewRotatingLatency(3, time.Second)
	r.Record(10 * time.Millisecond)
	r.Record(20 * time.Millisecond)
	r.Record(2 * time.Second)

	if got := r.Merged().TotalCount(); got != 2 {
		t.Fatalf("TotalCount = %d want 2", got)
	}

	var v struct {
		NumRot  int
		Buckets []Bucket
	}
	if err := json.Unmarshal([]byte(r.String()), &v); err != nil {
		t.Fatal(err)
	}
	if len(v.Buckets) != 1 || v.Buckets[0].Over != 1 {
		t.Fatalf("buckets = %+v, want one bucket with Over=1", v.Buckets)
	}

	for i := 0; i < 3; i++ {
		r.Rotate()
	}
	if got := r.Merged().TotalCount(); got != 0 {
		t.Errorf("after full rotation TotalCount = %d want 0", got)
	}
	if err := json.Unmarshal([]byte(r.String()), &v); err != nil {
		t.Fatal(err)
	}
	if v.NumRot != 3 || len(v.Buckets) != 3 {
		t.Errorf("NumRot=%d len(Buckets)=%d want 3, 3", v.NumRot, len(v.Buckets))
	}
}

func BenchmarkRecordSince(b *testing.B) {
	r := NewRotatingLatency(5, time.Second)
	t0 := time.Now()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.RecordSince(t0)
	}
}
