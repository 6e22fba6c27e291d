package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FileArg is one parsed command-line file argument: either a bare
// path, or an explicit "name:path" form that pins the display name.
type FileArg struct {
	Path         string
	ExplicitName string // empty when not given explicitly
}

// ParseFileArg splits a "name:path" argument, grounded on
// original_source/logfire.py's main() display-name handling. A bare
// path (no colon, or a colon that looks like a Windows drive letter)
// is returned with ExplicitName empty.
func ParseFileArg(arg string) FileArg {
	if idx := strings.IndexByte(arg, ':'); idx > 1 {
		return FileArg{ExplicitName: arg[:idx], Path: arg[idx+1:]}
	}
	return FileArg{Path: arg}
}

// DeriveDisplayNames assigns a reader_id -> short display name for
// each file argument, in order. The default name is the last 4
// characters of the base name without its extension, uppercased;
// duplicates are disambiguated with a numeric suffix — exactly
// original_source/logfire.py's main() scheme (name[-4:].upper() plus a
// duplicate counter).
func DeriveDisplayNames(args []FileArg) map[int]string {
	names := make(map[int]string, len(args))
	seen := make(map[string]int)

	for i, a := range args {
		base := a.ExplicitName
		if base == "" {
			base = defaultName(a.Path)
		}
		count := seen[base]
		seen[base] = count + 1
		if count == 0 {
			names[i] = base
		} else {
			names[i] = base + strconv.Itoa(count)
		}
	}
	return names
}

func defaultName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if len(base) > 4 {
		base = base[len(base)-4:]
	}
	return strings.ToUpper(base)
}

// Validate is a convenience the CLI layer can use to surface a clearer
// error for an empty path.
func (f FileArg) Validate() error {
	if f.Path == "" {
		return fmt.Errorf("empty file path in argument")
	}
	return nil
}
