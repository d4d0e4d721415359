package systems

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestNewPoolRejectsNegativeWorkers(t *testing.T) {
	if _, err := NewPool(-1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("expected ErrNoWorkers, got %v", err)
	}
}

func TestNewPoolDefaultsToGOMAXPROCS(t *testing.T) {
	p, err := NewPool(0)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("expected at least one worker, got %d", p.Workers())
	}
}

func TestPoolRunCoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		p, err := NewPool(workers)
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range []int{0, 1, 63, 64, 1000} {
			hits := make([]int32, n)
			p.Run(n, func(i0, i1 int) {
				for i := i0; i < i1; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("workers=%d n=%d: index %d visited %d times", workers, n, i, h)
				}
			}
		}
		p.Close()
	}
}

func TestPoolCloseIsIdempotent(t *testing.T) {
	p, err := NewPool(2)
	if err != nil {
		t.Fatal(err)
	}
	p.Run(200, func(int, int) {})
	p.Close()
	p.Close()

	// Run after Close restarts the workers
	var total atomic.Int64
	p.Run(200, func(i0, i1 int) { total.Add(int64(i1 - i0)) })
	p.Close()
	if total.Load() != 200 {
		t.Errorf("expected 200 items after restart, got %d", total.Load())
	}
}
