package perfectrand

import (
	"sync"
	"testing"
)

func TestIteratorExhaustion(t *testing.T) {
	t.Parallel()

	const rng = 1000
	s, err := New(rng, 3, 4)
	if err != nil {
		t.Fatalf("failed to create shuffler: %v", err)
	}

	iter := s.Iterator()
	if iter.Size() != rng {
		t.Fatalf("Size() = %d, want %d", iter.Size(), rng)
	}

	seen := make(map[uint64]bool)
	for {
		value, ok := iter.Next()
		if !ok {
			break
		}
		if value >= rng {
			t.Fatalf("iterator produced %d, out of range [0, %d)", value, rng)
		}
		if seen[value] {
			t.Fatalf("iterator produced %d twice", value)
		}
		seen[value] = true
	}

	if len(seen) != rng {
		t.Errorf("iterator produced %d values, want %d", len(seen), rng)
	}

	// A drained iterator stays drained.
	if value, ok := iter.Next(); ok {
		t.Errorf("drained iterator produced %d", value)
	}
}

func TestIteratorConcurrent(t *testing.T) {
	t.Parallel()

	const rng = 10000
	const workers = 8

	s, err := New(rng, 11, 4)
	if err != nil {
		t.Fatalf("failed to create shuffler: %v", err)
	}
	iter := s.Iterator()

	var mu sync.Mutex
	seen := make(map[uint64]bool)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				value, ok := iter.Next()
				if !ok {
					return
				}
				mu.Lock()
				if seen[value] {
					t.Errorf("value %d delivered to more than one caller", value)
				}
				seen[value] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != rng {
		t.Errorf("workers received %d distinct values, want %d", len(seen), rng)
	}
}

func TestIteratorsIndependent(t *testing.T) {
	t.Parallel()

	s, err := New(100, 5, 3)
	if err != nil {
		t.Fatalf("failed to create shuffler: %v", err)
	}

	first := s.Iterator()
	for i := 0; i < 50; i++ {
		first.Next()
	}

	// A fresh iterator starts over from the beginning.
	second := s.Iterator()
	count := 0
	for {
		if _, ok := second.Next(); !ok {
			break
		}
		count++
	}
	if count != 100 {
		t.Errorf("fresh iterator produced %d values, want 100", count)
	}
}

func BenchmarkIterator(b *testing.B) {
	s, err := New(1<<32, 12345, 4)
	if err != nil {
		b.Fatalf("failed to create shuffler: %v", err)
	}
	iter := s.Iterator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		iter.Next()
	}
}
