package record

import "strings"

// Filter selects entries. An empty Levels set accepts every level.
// Grep, TimeFrom, and TimeTo are optional (empty string = unset).
// Grounded on original_source/logreader.py's LogFilter and the
// teacher's parser/filter.go filter-ordering-for-performance idiom.
type Filter struct {
	Levels   map[Level]struct{}
	Grep     []string
	TimeFrom string
	TimeTo   string

	// DB/User/ExcludeUser/App match against db=/user=/app= attributes
	// extracted from the message column, an enrichment beyond
	// spec.md's base Filter that exercises the teacher's
	// extractValue idiom against structured log4j messages.
	DB          []string
	User        []string
	ExcludeUser []string
	App         []string
}

// Matches reports whether entry e passes the filter. Checks are
// ordered cheapest-first: time window, then level, then attribute
// filters, then grep, mirroring the teacher's documented
// filter-order-for-performance comment.
func (f Filter) Matches(e Entry) bool {
	if f.TimeFrom != "" && e.TimestampText < f.TimeFrom {
		return false
	}
	if f.TimeTo != "" && e.TimestampText >= f.TimeTo {
		return false
	}
	if len(f.Levels) > 0 {
		if _, ok := f.Levels[e.Level]; !ok {
			return false
		}
	}
	if !f.matchesAttributes(e) {
		return false
	}
	if len(f.Grep) > 0 {
		if !containsAllPatterns(e.Message, e.ClassName, f.Grep) {
			return false
		}
	}
	return true
}

func (f Filter) matchesAttributes(e Entry) bool {
	if len(f.ExcludeUser) > 0 {
		if v, ok := extractValue(e.Message, "user"); ok && matchesAny(v, f.ExcludeUser) {
			return false
		}
	}
	if len(f.User) > 0 {
		v, ok := extractValue(e.Message, "user")
		if !ok || !matchesAny(v, f.User) {
			return false
		}
	}
	if len(f.DB) > 0 {
		v, ok := extractValue(e.Message, "db")
		if !ok || !matchesAny(v, f.DB) {
			return false
		}
	}
	if len(f.App) > 0 {
		v, ok := extractValue(e.Message, "app")
		if !ok || !matchesAny(v, f.App) {
			return false
		}
	}
	return true
}

func containsAllPatterns(message, className string, patterns []string) bool {
	for _, p := range patterns {
		if !strings.Contains(message, p) && !strings.Contains(className, p) {
			return false
		}
	}
	return true
}
