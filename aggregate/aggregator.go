// Package aggregate merges entries from N concurrent readers into a
// single delivery order — either globally timestamp-ordered (Ordered)
// or plain arrival order (FIFO) — and coordinates end-of-file across
// producers. It is the sole shared mutable state in the pipeline (see
// spec.md §5): Add/EOF/Len/Next must be safe under concurrent
// producers and a single consumer.
package aggregate

import "github.com/Alain-L/logmerge/record"

// Aggregator is the interface both variants satisfy.
type Aggregator interface {
	// Add enqueues an entry from a reader. Never blocks.
	Add(e record.Entry)
	// EOF marks a reader as finished; it is removed from the open set.
	EOF(readerID int)
	// Len reports the current queue depth.
	Len() int
	// Next blocks until an entry is available for delivery, returning
	// (entry, true), or returns (zero, false) once every reader has
	// signalled EOF and the queue is empty, or after Stop.
	Next() (record.Entry, bool)
	// Stop unblocks any in-progress or future Next call, causing it to
	// return (zero, false). Used by the signal watcher to halt draining.
	Stop()
}

// SetDisplayNames attaches a reader_id -> display name mapping,
// satisfied by both variants independently (see names.go).
type DisplayNamer interface {
	SetDisplayNames(names map[int]string)
	DisplayName(readerID int) string
}
