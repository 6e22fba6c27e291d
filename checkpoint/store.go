// Package checkpoint persists and loads per-file "sincedb" records so
// that a restarted reader can resume where it left off. The on-disk
// format is kept byte-for-byte compatible with
// original_source/logreader.py's _save_progress/_load_progress, per
// spec.md §9's instruction to preserve the legacy sincedb format.
package checkpoint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Alain-L/logmerge/record"
)

// Record is a loaded checkpoint: the tailed file's path, its identity
// at save time, and the byte position/size it had reached.
type Record struct {
	Path     string
	Identity string
	Position int64
	Size     int64
}

// Store reads and writes sincedb files under a path prefix.
type Store struct {
	prefix string
	log    *slog.Logger

	mu    sync.Mutex
	cache *lru.Cache[string, Record]
}

// cacheSize bounds the read-cache; a handful of concurrently tailed
// files is the common case, a few hundred an upper bound worth
// amortizing lookups for.
const cacheSize = 256

// New builds a Store rooted at prefix (e.g. "/var/run/logmerge/").
// Every checkpoint file lives at prefix + "f" + sha1_hex(path).
func New(prefix string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	c, _ := lru.New[string, Record](cacheSize) // error only on invalid (<=0) size
	return &Store{prefix: prefix, log: log, cache: c}
}

// pathFor returns the sincedb file path for a tailed log path.
func (s *Store) pathFor(logPath string) string {
	sum := sha1.Sum([]byte(logPath))
	return s.prefix + "f" + hex.EncodeToString(sum[:])
}

// Save writes the checkpoint for logPath. Failures are logged at WARN
// and swallowed — per spec.md §4.D/§7, checkpoint writes are
// best-effort and the next tick retries.
func (s *Store) Save(logPath, identity string, position, size int64) {
	line := fmt.Sprintf("%s %s %d %d", logPath, identity, position, size)
	dest := s.pathFor(logPath)
	if err := os.WriteFile(dest, []byte(line), 0o644); err != nil {
		s.log.Warn("checkpoint write failed", "path", logPath, "error", fmt.Errorf("%w: %v", record.ErrCheckpointWriteFail, err))
		return
	}
	s.mu.Lock()
	s.cache.Add(logPath, Record{Path: logPath, Identity: identity, Position: position, Size: size})
	s.mu.Unlock()
}

// Load reads back the checkpoint for logPath. A missing or corrupt
// checkpoint is reported as record.ErrCheckpointReadFailed, which
// callers treat as "no checkpoint — start from byte 0".
func (s *Store) Load(logPath string) (Record, error) {
	s.mu.Lock()
	if rec, ok := s.cache.Get(logPath); ok {
		s.mu.Unlock()
		return rec, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(logPath))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", record.ErrCheckpointReadFailed, err)
	}
	rec, err := parseRecord(string(data))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", record.ErrCheckpointReadFailed, err)
	}

	s.mu.Lock()
	s.cache.Add(logPath, rec)
	s.mu.Unlock()
	return rec, nil
}

// parseRecord parses "{path} {identity} {position} {size}", splitting
// from the right so a path containing spaces is preserved intact —
// the Go equivalent of Python's `line.rsplit(None, 3)`.
func parseRecord(line string) (Record, error) {
	fields := rsplitWhitespace(line, 3)
	if len(fields) != 4 {
		return Record{}, fmt.Errorf("malformed checkpoint line %q", line)
	}
	position, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("malformed position in %q: %w", line, err)
	}
	size, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("malformed size in %q: %w", line, err)
	}
	return Record{Path: fields[0], Identity: fields[1], Position: position, Size: size}, nil
}

// rsplitWhitespace splits s on runs of whitespace from the right into
// at most n+1 pieces, mirroring Python's str.rsplit(None, n): the
// first piece retains any embedded whitespace.
func rsplitWhitespace(s string, n int) []string {
	trimmed := strings.TrimSpace(s)
	tail := make([]string, 0, n)
	for i := 0; i < n; i++ {
		trimmed = strings.TrimRight(trimmed, " \t")
		idx := strings.LastIndexAny(trimmed, " \t")
		if idx < 0 {
			break
		}
		tail = append([]string{trimmed[idx+1:]}, tail...)
		trimmed = trimmed[:idx]
	}
	return append([]string{trimmed}, tail...)
}
