// Package cmd implements the command-line interface for logmerge.
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alain-L/logmerge/config"
)

// collectFiles gathers all log file arguments, adapted from the
// teacher's cmd/files.go: arguments may be individual files, glob
// patterns, or directories (scanned non-recursively for supported log
// files). Each argument is first split by ParseFileArg, and glob/
// directory expansion applies only to the path portion. An explicit
// "name:" is kept only when the pattern matches exactly one file or
// none; files found by directory scan or by a multi-file glob get
// default display names.
func collectFiles(args []string, log *slog.Logger) []config.FileArg {
	var out []config.FileArg

	for _, arg := range args {
		fa := config.ParseFileArg(arg)

		info, err := os.Stat(fa.Path)
		if err == nil && info.IsDir() {
			dirFiles, err := gatherLogFiles(fa.Path)
			if err != nil {
				log.Warn("failed to read directory", "dir", fa.Path, "error", err)
				continue
			}
			for _, f := range dirFiles {
				out = append(out, config.FileArg{Path: f})
			}
			continue
		}

		matches, err := filepath.Glob(fa.Path)
		if err != nil {
			log.Warn("invalid glob pattern", "pattern", fa.Path, "error", err)
			continue
		}
		if len(matches) == 0 {
			if fa.ExplicitName != "" {
				out = append(out, fa)
			} else {
				log.Warn("no files match pattern", "pattern", fa.Path)
			}
			continue
		}
		if len(matches) == 1 && fa.ExplicitName != "" {
			out = append(out, config.FileArg{Path: matches[0], ExplicitName: fa.ExplicitName})
			continue
		}
		for _, m := range matches {
			out = append(out, config.FileArg{Path: m})
		}
	}

	return out
}

// gatherLogFiles scans a directory for supported log files
// (non-recursive), per the teacher's gatherLogFiles.
func gatherLogFiles(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}

	var logFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isSupportedLogFile(entry.Name()) {
			logFiles = append(logFiles, filepath.Join(dir, entry.Name()))
		}
	}
	return logFiles, nil
}

// isSupportedLogFile reports whether name looks like a tailable log
// file: a plain file (any extension is accepted as a log, since the
// format is determined by content, not name) or a transparently
// decompressible .gz/.zst/.zstd variant. Other names starting with '.'
// are skipped.
func isSupportedLogFile(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".gz") || strings.HasSuffix(lower, ".zst") || strings.HasSuffix(lower, ".zstd") {
		return true
	}
	return !strings.HasPrefix(name, ".")
}
