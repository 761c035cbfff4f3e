package perfectrand

import "sync/atomic"

// Iterator walks a Shuffler's permutation from the start, handing out each
// value exactly once. It is safe for concurrent use: any number of
// goroutines may call Next and each shuffled value is delivered to exactly
// one of them.
//
// Example usage:
//
//	r, _ := perfectrand.FromRange(1000000)
//	iter := r.Iterator()
//
//	var wg sync.WaitGroup
//	for i := 0; i < 10; i++ {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        for {
//	            value, ok := iter.Next()
//	            if !ok {
//	                break
//	            }
//	            // Process value
//	        }
//	    }()
//	}
//	wg.Wait()
type Iterator struct {
	s     *Shuffler
	index uint64 // accessed atomically
}

// Iterator returns a new Iterator positioned at the start of the
// permutation. Multiple Iterators over the same Shuffler are independent
// and each yields the full sequence.
func (s *Shuffler) Iterator() *Iterator {
	return &Iterator{s: s}
}

// Next returns the next value of the permutation, or false once every value
// in [0, Size()) has been handed out.
func (it *Iterator) Next() (uint64, bool) {
	idx := atomic.AddUint64(&it.index, 1) - 1
	if idx >= it.s.rng {
		return 0, false
	}
	return it.s.Shuffle(idx), true
}

// Size returns the total number of values the Iterator will produce.
func (it *Iterator) Size() uint64 {
	return it.s.rng
}
