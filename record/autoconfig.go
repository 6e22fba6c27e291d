package record

import "strings"

// Prober is the minimal capability AutoConfigure needs from a file
// source: read one line, then restore the read position to the start.
// Restoring to start matters only on first open, before any entry has
// been consumed — autoconfiguration must not advance the stream.
type Prober interface {
	ReadLine() (line string, hasNewline bool, err error)
	SeekStart() error
}

// AutoConfigure inspects the first line of a file and derives a Config
// by locating the code-location column among offsets 1, 2, and 3 of
// the space-split columns following the timestamp. This replaces the
// legacy try-parse/catch/reconfigure loop (see DESIGN.md) with a
// single first-line probe, as directed by the design notes: once the
// first line has been read, the stream position is restored to the
// start before returning, whether or not a layout is found.
func AutoConfigure(p Prober) (Config, error) {
	line, _, err := p.ReadLine()
	if err != nil {
		return Config{}, err
	}
	if err := p.SeekStart(); err != nil {
		return Config{}, err
	}
	if len(line) <= timestampLen+1 {
		return Config{}, ErrAutoconfigFailed
	}

	rest := line[timestampLen+1:]
	cols := strings.Split(rest, " ")

	for offset := 1; offset <= 3; offset++ {
		if offset >= len(cols) {
			continue
		}
		class, method, file, srcLine := parseLocation(cols[offset])
		if class != "" && method != "" && file != "" && srcLine >= 0 {
			return configForLocationIndex(offset), nil
		}
	}
	return Config{}, ErrAutoconfigFailed
}

// configForLocationIndex builds the Config for a code-location column
// found at the given offset, per the fixed index table: column_count =
// offset + 2, index_of_message = offset + 1.
func configForLocationIndex(offset int) Config {
	cfg := Config{
		Delimiter:     ' ',
		ColumnCount:   offset + 2,
		IndexLocation: offset,
		IndexMessage:  offset + 1,
		IndexFlowID:   -1,
		IndexLevel:    -1,
		IndexThread:   -1,
	}
	switch cfg.ColumnCount {
	case 3:
		cfg.IndexLevel = 0
	case 4:
		cfg.IndexLevel = 0
		cfg.IndexThread = 1
	case 5:
		cfg.IndexFlowID = 0
		cfg.IndexLevel = 1
		cfg.IndexThread = 2
	}
	return cfg
}
