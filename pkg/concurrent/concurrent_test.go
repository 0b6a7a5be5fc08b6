package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/geomsync/geomsync/pkg/sequence"
)

func TestConcurrentRunsAll(t *testing.T) {
	var sum int64
	err := Concurrent(sequence.From([]int{1, 2, 3, 4}), func(v int) error {
		atomic.AddInt64(&sum, int64(v))
		return nil
	})
	if err != nil {
		t.Fatalf("Concurrent() = %v", err)
	}
	if sum != 10 {
		t.Errorf("sum = %d, want 10", sum)
	}
}

func TestConcurrentPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Concurrent(sequence.From([]int{1, 2, 3}), func(v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Concurrent() = %v, want boom", err)
	}
}

func TestConcurrentEmpty(t *testing.T) {
	if err := Concurrent(sequence.From([]int(nil)), func(int) error { return nil }); err != nil {
		t.Errorf("Concurrent() on empty = %v", err)
	}
}
