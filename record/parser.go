package record

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const timestampLen = 23

// LineSource is the byte-stream contract the parser needs from a file
// source: sequential line reads plus the ability to put a line back by
// seeking backward over it. Implemented by source.File.
type LineSource interface {
	// ReadLine returns the next line without its trailing newline, and
	// whether a trailing newline was present. An empty line with
	// hasNewline=false and err=nil signals EOF.
	ReadLine() (line string, hasNewline bool, err error)
	// Unread seeks backward by exactly n bytes, so the next ReadLine
	// re-reads what was just consumed. Used to put back a line that
	// terminates the current record.
	Unread(n int64) error
}

// Config is the column layout a Parser uses to split a header line's
// post-timestamp columns. Index fields are -1 when the column is absent.
type Config struct {
	Delimiter     byte
	ColumnCount   int
	IndexFlowID   int
	IndexLevel    int
	IndexThread   int
	IndexLocation int
	IndexMessage  int
}

// IsHeaderLine reports whether line begins a new record: its first two
// bytes are "20" and its 24th byte (index 23) is a space.
func IsHeaderLine(line string) bool {
	if len(line) <= timestampLen {
		return false
	}
	return line[0:2] == "20" && line[timestampLen] == ' '
}

// ExtractTimestamp returns the 23-char timestamp prefix of a header line.
func ExtractTimestamp(headerLine string) string {
	if len(headerLine) < timestampLen {
		return headerLine
	}
	return headerLine[:timestampLen]
}

// Parser turns a LineSource into a sequence of Entry values, pulled one
// at a time via Next. It is not safe for concurrent use — one Parser
// serves exactly one reader goroutine, matching the single-threaded,
// generator-style parsing in the source this was modeled on.
type Parser struct {
	cfg      Config
	src      LineSource
	readerID int
	log      *slog.Logger

	nextIndex int64
}

// NewParser builds a Parser bound to one reader's source and config.
func NewParser(cfg Config, src LineSource, readerID int, log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{cfg: cfg, src: src, readerID: readerID, log: log}
}

// Next returns the next well-formed entry, skipping malformed lines
// (logged at WARN, per spec — no error escapes a normal read). ok is
// false at EOF.
func (p *Parser) Next() (entry Entry, ok bool, err error) {
	for {
		line, hasNewline, rerr := p.src.ReadLine()
		if rerr != nil {
			return Entry{}, false, rerr
		}
		if line == "" && !hasNewline {
			return Entry{}, false, nil
		}
		if !IsHeaderLine(line) {
			p.log.Warn("parse line rejected: not a header", "line", truncateForLog(line))
			continue
		}
		e, perr := p.parseHeader(line)
		if perr != nil {
			p.log.Warn("parse line rejected", "error", perr, "line", truncateForLog(line))
			continue
		}
		message, gerr := p.gatherMessage(e.Message)
		if gerr != nil {
			return Entry{}, false, gerr
		}
		e.Message = message
		e.ReaderID = p.readerID
		e.EntryIndex = p.nextIndex
		p.nextIndex++
		return e, true, nil
	}
}

// gatherMessage reads continuation lines following a header line's
// message column until the next header line or EOF, putting back
// whichever line terminated the record.
func (p *Parser) gatherMessage(firstLine string) (string, error) {
	var b strings.Builder
	b.WriteString(firstLine)
	for {
		line, hasNewline, err := p.src.ReadLine()
		if err != nil {
			return "", err
		}
		if line == "" && !hasNewline {
			// True EOF: nothing to put back.
			break
		}
		if IsHeaderLine(line) {
			consumed := int64(len(line))
			if hasNewline {
				consumed++
			}
			if err := p.src.Unread(consumed); err != nil {
				return "", err
			}
			break
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), " \t\r\n"), nil
}

// parseHeader extracts every field but the continuation-gathered
// message from a single header line, per the field extraction rules.
func (p *Parser) parseHeader(line string) (Entry, error) {
	ts := line[:timestampLen]
	if ts[0:2] != "20" {
		return Entry{}, fmt.Errorf("%w: timestamp does not start with 20", ErrParseLineRejected)
	}
	rest := line[timestampLen+1:]

	cols := splitN(rest, p.cfg.Delimiter, p.cfg.ColumnCount-1)
	if len(cols) < p.cfg.ColumnCount {
		return Entry{}, fmt.Errorf("%w: expected %d columns, got %d", ErrParseLineRejected, p.cfg.ColumnCount, len(cols))
	}

	e := Entry{TimestampText: ts, SourceLine: -1}

	if p.cfg.IndexFlowID >= 0 {
		e.FlowID = strings.TrimSuffix(cols[p.cfg.IndexFlowID], ":")
	}
	e.Level = LevelFromToken(cols[p.cfg.IndexLevel])
	if p.cfg.IndexThread >= 0 {
		e.Thread = strings.TrimSuffix(cols[p.cfg.IndexThread], ":")
	}

	location := cols[p.cfg.IndexLocation]
	class, method, file, srcLine := parseLocation(location)
	e.ClassName, e.Method, e.SourceFile, e.SourceLine = class, method, file, srcLine

	if p.cfg.IndexMessage < len(cols) {
		e.Message = cols[p.cfg.IndexMessage]
	}
	return e, nil
}

// parseLocation parses a code-location column of the form
// "Class.method(File:Line):" per field extraction rule 6.
func parseLocation(col string) (class, method, file string, line int) {
	col = strings.TrimSuffix(col, ":")
	col = strings.TrimSuffix(col, ")")

	openParen := strings.LastIndexByte(col, '(')
	var classAndMethod, fileAndLine string
	if openParen >= 0 {
		classAndMethod = col[:openParen]
		fileAndLine = col[openParen+1:]
	} else {
		classAndMethod = col
	}

	if dot := strings.LastIndexByte(classAndMethod, '.'); dot >= 0 {
		class = classAndMethod[:dot]
		method = classAndMethod[dot+1:]
	} else {
		method = classAndMethod
	}

	line = -1
	if colon := strings.IndexByte(fileAndLine, ':'); colon >= 0 {
		file = fileAndLine[:colon]
		if n, err := strconv.Atoi(fileAndLine[colon+1:]); err == nil {
			line = n
		}
	} else {
		file = fileAndLine
	}
	return class, method, file, line
}

// splitN splits s on delim, at most maxSplits times (so the result has
// at most maxSplits+1 elements, with the final element retaining any
// further delimiters), matching a str.split(delim, maxsplit) semantics.
func splitN(s string, delim byte, maxSplits int) []string {
	if maxSplits <= 0 {
		return []string{s}
	}
	parts := make([]string, 0, maxSplits+1)
	for i := 0; i < maxSplits; i++ {
		idx := strings.IndexByte(s, delim)
		if idx < 0 {
			break
		}
		parts = append(parts, s[:idx])
		s = s[idx+1:]
	}
	parts = append(parts, s)
	return parts
}

func truncateForLog(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
