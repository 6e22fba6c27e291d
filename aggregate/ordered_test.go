package aggregate

import (
	"testing"
	"time"

	"github.com/Alain-L/logmerge/record"
)

func entryAt(readerID int, idx int64, ts string) record.Entry {
	return record.Entry{TimestampText: ts, ReaderID: readerID, EntryIndex: idx}
}

func TestOrderedMergesByTimestampAcrossReaders(t *testing.T) {
	agg := NewOrdered(2)

	agg.Add(entryAt(0, 0, "2000-01-01 00:00:01,000"))
	agg.Add(entryAt(1, 0, "2000-01-01 00:00:00,000"))
	agg.EOF(0)
	agg.EOF(1)

	first, ok := agg.Next()
	if !ok || first.ReaderID != 1 {
		t.Fatalf("first = %+v, ok=%v, want reader 1's earlier entry", first, ok)
	}
	second, ok := agg.Next()
	if !ok || second.ReaderID != 0 {
		t.Fatalf("second = %+v, ok=%v", second, ok)
	}
	if _, ok := agg.Next(); ok {
		t.Fatalf("expected drained aggregator to report EOF")
	}
}

func TestOrderedBlocksUntilEveryOpenReaderHasAnEntry(t *testing.T) {
	agg := NewOrdered(2)
	agg.Add(entryAt(0, 0, "2000-01-01 00:00:00,000"))

	done := make(chan record.Entry, 1)
	go func() {
		e, ok := agg.Next()
		if ok {
			done <- e
		}
	}()

	select {
	case <-done:
		t.Fatalf("Next() returned before reader 1 produced anything")
	case <-time.After(50 * time.Millisecond):
		// expected: still blocked
	}

	agg.Add(entryAt(1, 0, "2000-01-01 00:00:05,000"))

	select {
	case e := <-done:
		if e.ReaderID != 0 {
			t.Errorf("expected reader 0's earlier entry, got %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatalf("Next() never unblocked after reader 1 produced an entry")
	}
}

func TestOrderedEOFWithoutFurtherEntriesUnblocks(t *testing.T) {
	agg := NewOrdered(1)
	agg.EOF(0)

	if _, ok := agg.Next(); ok {
		t.Fatalf("expected immediate EOF with no readers open and nothing queued")
	}
}

func TestOrderedStopUnblocksNext(t *testing.T) {
	agg := NewOrdered(1)

	done := make(chan bool, 1)
	go func() {
		_, ok := agg.Next()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	agg.Stop()

	select {
	case ok := <-done:
		if ok {
			t.Errorf("expected Next to report false after Stop")
		}
	case <-time.After(time.Second):
		t.Fatalf("Stop() did not unblock Next()")
	}
}
