package aggregate

import (
	"sync"

	"github.com/Alain-L/logmerge/record"
)

// FIFO delivers entries in arrival order regardless of which reader
// open set is still producing, per spec.md §4.G.
type FIFO struct {
	names

	mu      sync.Mutex
	cond    *sync.Cond
	q       []record.Entry
	open    map[int]bool
	stopped bool
}

func NewFIFO(readerCount int) *FIFO {
	f := &FIFO{open: make(map[int]bool, readerCount)}
	f.cond = sync.NewCond(&f.mu)
	for i := 0; i < readerCount; i++ {
		f.open[i] = true
	}
	return f
}

func (f *FIFO) Add(e record.Entry) {
	f.mu.Lock()
	f.q = append(f.q, e)
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *FIFO) EOF(readerID int) {
	f.mu.Lock()
	delete(f.open, readerID)
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *FIFO) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.q)
}

func (f *FIFO) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *FIFO) Next() (record.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if f.stopped {
			return record.Entry{}, false
		}
		if len(f.q) > 0 {
			e := f.q[0]
			f.q = f.q[1:]
			return e, true
		}
		if len(f.open) == 0 {
			return record.Entry{}, false
		}
		f.cond.Wait()
	}
}

// DrainUpTo pops at minimum(max, Len()) entries without blocking,
// resolving the open question in spec.md §9 about the Redis shipper's
// bounded drain: original_source/logfire.py's LogAggregator only
// exposes a lazy, unbounded drain, so the documented intent —
// min(MAX_CHUNK_SIZE, len) — is implemented directly here rather than
// reconstructed by slicing an iterator.
func (f *FIFO) DrainUpTo(max int) []record.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := max
	if len(f.q) < n {
		n = len(f.q)
	}
	out := append([]record.Entry(nil), f.q[:n]...)
	f.q = f.q[n:]
	return out
}
