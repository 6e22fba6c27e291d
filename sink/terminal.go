// Package sink holds the external-collaborator writers that consume
// entries drained from the aggregator: a colorized terminal writer, a
// JSON encoder, and a Redis batch shipper. None of these are part of
// the core reader+parser+merge pipeline (spec.md §1 names them as
// out-of-core-scope collaborators).
package sink

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/Alain-L/logmerge/aggregate"
	"github.com/Alain-L/logmerge/record"
)

// ANSI color codes per level, grounded on
// original_source/logfire.py's OutputThread color scheme.
const (
	colorReset    = "\033[0m"
	colorFatal    = "\033[95m"
	colorError    = "\033[91m"
	colorWarn     = "\033[93m"
	colorInfo     = "\033[92m"
	colorDefault  = "\033[94m"
	colorTimeText = "\033[97m"
)

func colorFor(l record.Level) string {
	switch l {
	case record.FATAL:
		return colorFatal
	case record.ERROR:
		return colorError
	case record.WARN:
		return colorWarn
	case record.INFO:
		return colorInfo
	default:
		return colorDefault
	}
}

// Terminal writes entries as colorized, width-aware lines.
type Terminal struct {
	w       *bufio.Writer
	colors  bool
	names   aggregate.DisplayNamer
	width   int
	counts  map[record.Level]int
	perFile map[int]int
}

// NewTerminal builds a Terminal writer over out. Color is enabled only
// when out is a terminal, matching the teacher's query_table.go
// term.GetSize-gated styling.
func NewTerminal(out *os.File, names aggregate.DisplayNamer) *Terminal {
	width := 120
	isTTY := term.IsTerminal(int(out.Fd()))
	if isTTY {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return &Terminal{
		w:       bufio.NewWriter(out),
		colors:  isTTY,
		names:   names,
		width:   width,
		counts:  make(map[record.Level]int),
		perFile: make(map[int]int),
	}
}

// Write formats and emits one entry, and accumulates it into the
// end-of-run summary counters (adapted from the teacher's
// analysis/summary.go accumulate-while-draining pattern, applied here
// to log-level counts instead of PostgreSQL query counts).
func (t *Terminal) Write(e record.Entry) error {
	t.counts[e.Level]++
	t.perFile[e.ReaderID]++

	name := ""
	if t.names != nil {
		name = t.names.DisplayName(e.ReaderID)
	}

	if t.colors {
		fmt.Fprintf(t.w, "%s%s%s %s[%-5s]%s %s %s%s\n",
			colorTimeText, e.TimestampText, colorReset,
			colorFor(e.Level), e.Level, colorReset,
			name, formatLocation(e), e.Message)
	} else {
		fmt.Fprintf(t.w, "%s [%-5s] %s %s%s\n",
			e.TimestampText, e.Level, name, formatLocation(e), e.Message)
	}
	return t.w.Flush()
}

func formatLocation(e record.Entry) string {
	if e.ClassName == "" && e.Method == "" {
		return ""
	}
	return fmt.Sprintf("%s.%s ", e.ClassName, e.Method)
}

// Summary returns a one-line end-of-run count of entries per level.
func (t *Terminal) Summary() string {
	var b []byte
	b = append(b, "summary: "...)
	for _, lvl := range []record.Level{record.TRACE, record.DEBUG, record.INFO, record.WARN, record.ERROR, record.FATAL} {
		if t.counts[lvl] == 0 {
			continue
		}
		b = append(b, fmt.Sprintf("%s=%d ", lvl, t.counts[lvl])...)
	}
	return string(b)
}
