package record

import "strings"

// extractValue finds "key=value" in line and returns value, stopping
// at the first separator rune among the set below and trimming
// surrounding quotes — adapted directly from the teacher's
// parser/filter.go extractValue, reused here to pull structured
// attributes (db=, user=, app=) out of a log4j message column instead
// of a PostgreSQL log line.
func extractValue(line, key string) (string, bool) {
	needle := key + "="
	idx := strings.Index(line, needle)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(needle):]
	end := strings.IndexAny(rest, " ,[]()")
	if end >= 0 {
		rest = rest[:end]
	}
	rest = strings.Trim(rest, `"'`)
	return rest, rest != ""
}

func matchesAny(value string, candidates []string) bool {
	for _, c := range candidates {
		if value == c {
			return true
		}
	}
	return false
}
