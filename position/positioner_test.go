package position

import (
	"fmt"
	"testing"
)

// memFile is an in-memory position.File backed by a byte slice, letting
// SeekTail/SeekTime be exercised without touching the filesystem.
type memFile struct {
	data []byte
	pos  int64
}

func newMemFile(data string) *memFile {
	return &memFile{data: []byte(data)}
}

func (m *memFile) SeekAbsolute(offset int64) error {
	m.pos = offset
	return nil
}

func (m *memFile) ReadChunk(n int) ([]byte, error) {
	if m.pos >= int64(len(m.data)) {
		return nil, nil
	}
	end := m.pos + int64(n)
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	out := m.data[m.pos:end]
	m.pos = end
	return out, nil
}

func (m *memFile) Size() (int64, error) {
	return int64(len(m.data)), nil
}

func (m *memFile) Unread(n int64) error {
	m.pos -= n
	if m.pos < 0 {
		m.pos = 0
	}
	return nil
}

func header(ts string, n int) string {
	return fmt.Sprintf("%s FlowID INFO Thread C.m(C.java:%d): entry %d\n", ts, n, n)
}

func buildLog(n int) (string, []string) {
	var timestamps []string
	var out string
	for i := 0; i < n; i++ {
		ts := fmt.Sprintf("2000-01-01 00:00:%02d,000", i)
		timestamps = append(timestamps, ts)
		out += header(ts, i)
	}
	return out, timestamps
}

func TestSeekTailLandsOnNthFromLastHeader(t *testing.T) {
	data, timestamps := buildLog(10)
	f := newMemFile(data)
	p := New(f)

	if err := p.SeekTail(3); err != nil {
		t.Fatalf("SeekTail: %v", err)
	}
	wantTS := timestamps[7] // 3rd from last of 10 entries (indices 7,8,9)
	got := string(f.data[f.pos : f.pos+23])
	if got != wantTS {
		t.Errorf("SeekTail(3) landed at %q, want %q", got, wantTS)
	}
}

func TestSeekTailExceedingLineCountSeeksToZero(t *testing.T) {
	data, _ := buildLog(3)
	f := newMemFile(data)
	p := New(f)

	if err := p.SeekTail(100); err != nil {
		t.Fatalf("SeekTail: %v", err)
	}
	if f.pos != 0 {
		t.Errorf("pos = %d, want 0", f.pos)
	}
}

func TestSeekTailSkipsContinuationLines(t *testing.T) {
	data := header("2000-01-01 00:00:00,000", 0) +
		"        at D.n(D.java:1)\n" +
		header("2000-01-01 00:00:01,000", 1)
	f := newMemFile(data)
	p := New(f)

	if err := p.SeekTail(1); err != nil {
		t.Fatalf("SeekTail: %v", err)
	}
	got := string(f.data[f.pos : f.pos+23])
	if got != "2000-01-01 00:00:01,000" {
		t.Errorf("landed at %q, want the second header", got)
	}
}

func TestSeekTimeFindsFirstEntryAtOrAfterTarget(t *testing.T) {
	data, timestamps := buildLog(50)
	f := newMemFile(data)
	p := New(f)

	target := timestamps[30]
	if err := p.SeekTime(target); err != nil {
		t.Fatalf("SeekTime: %v", err)
	}
	got := string(f.data[f.pos : f.pos+23])
	if got != target {
		t.Errorf("SeekTime(%q) landed at %q", target, got)
	}
}

func TestSeekTimeBetweenEntriesLandsOnNext(t *testing.T) {
	data, timestamps := buildLog(20)
	f := newMemFile(data)
	p := New(f)

	// A target strictly between two timestamps must land on the next one.
	target := timestamps[10] + "1" // lexicographically just after [10], before [11]
	if err := p.SeekTime(target); err != nil {
		t.Fatalf("SeekTime: %v", err)
	}
	got := string(f.data[f.pos : f.pos+23])
	if got != timestamps[11] {
		t.Errorf("landed at %q, want %q", got, timestamps[11])
	}
}

func TestSeekTimePastEndLandsAtEOF(t *testing.T) {
	data, _ := buildLog(5)
	f := newMemFile(data)
	p := New(f)

	if err := p.SeekTime(sentinelGreaterThanAny); err != nil {
		t.Fatalf("SeekTime: %v", err)
	}
	if f.pos != int64(len(data)) {
		t.Errorf("pos = %d, want EOF at %d", f.pos, len(data))
	}
}
