package cmd

import (
	"fmt"
	"strings"
	"time"
)

// canonicalTimestampLayout matches the log4j-shaped 23-char timestamp
// format entries are compared against lexicographically
// (record.Filter.TimeFrom/TimeTo).
const canonicalTimestampLayout = "2006-01-02 15:04:05,000"

// normalizeTimestamp accepts either the full 23-char
// "YYYY-MM-DD HH:MM:SS,mmm" form or a millisecond-free
// "YYYY-MM-DD HH:MM:SS" form for --from/--to, and returns the
// canonical comma-millisecond string entries are compared against.
// Adapted from the teacher's cmd/parsing.go --begin/--end parser,
// generalized to this module's comma-millisecond timestamp format
// instead of a plain "2006-01-02 15:04:05" PostgreSQL log timestamp.
func normalizeTimestamp(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if strings.Contains(s, ",") {
		if _, err := time.Parse("2006-01-02 15:04:05,000", s); err != nil {
			return "", fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return s, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.Format(canonicalTimestampLayout), nil
}
