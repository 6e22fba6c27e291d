// Package housekeep implements the rotation/truncation detection and
// periodic checkpoint-save logic each reader runs against its own
// file, grounded on original_source/logreader.py's
// _do_housekeeping/_ensure_file_is_good.
package housekeep

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/Alain-L/logmerge/checkpoint"
	"github.com/Alain-L/logmerge/record"
	"github.com/Alain-L/logmerge/source"
)

// Rate-gating intervals, named directly in spec.md §4.F.
const (
	HealthInterval     = 2 * time.Second
	CheckpointInterval = 5 * time.Second
)

// Target is the file state a Housekeeper inspects and mutates.
type Target interface {
	Path() string
	Identity() string
	Tell() int64
	Size() (int64, error)
	Reopen() (string, error)
	SeekStart() error
}

// Housekeeper runs the two periodic actions for one reader's file.
type Housekeeper struct {
	target         Target
	store          *checkpoint.Store // nil when checkpointing is disabled
	log            *slog.Logger
	lastHealth     time.Time
	lastCheckpoint time.Time
}

func New(target Target, store *checkpoint.Store, log *slog.Logger) *Housekeeper {
	if log == nil {
		log = slog.Default()
	}
	return &Housekeeper{target: target, store: store, log: log}
}

// MaybeRun runs ensure_file_is_good and save_progress if their
// respective intervals have elapsed. Returns whether the file was
// found to be in good standing (false after a rotation, removal,
// truncation or failed stat, true otherwise, including when the health
// check was skipped because its interval had not elapsed — matching
// original_source/logreader.py's return value of _do_housekeeping).
func (h *Housekeeper) MaybeRun(now time.Time) bool {
	good := true
	if h.lastHealth.IsZero() || now.Sub(h.lastHealth) > HealthInterval {
		h.lastHealth = now
		good = h.ensureFileIsGood()
	}

	if h.store != nil && (h.lastCheckpoint.IsZero() || now.Sub(h.lastCheckpoint) > CheckpointInterval) {
		h.lastCheckpoint = now
		h.saveProgress()
	}

	return good
}

// ensureFileIsGood implements the state machine from spec.md §4.F.
func (h *Housekeeper) ensureFileIsGood() bool {
	path := h.target.Path()
	actualIdentity, err := source.StatIdentity(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.log.Info("file removed", "path", path, "kind", record.ErrFileRemoved)
			return false
		}
		h.log.Warn("stat failed", "path", path, "error", err)
		return false
	}

	if actualIdentity != h.target.Identity() {
		h.log.Info("file rotated", "path", path, "kind", record.ErrFileRotated)
		if _, err := h.target.Reopen(); err != nil {
			h.log.Warn("reopen after rotation failed", "path", path, "error", err)
		}
		return false
	}

	size, err := source.StatSize(path)
	if err != nil {
		h.log.Warn("stat failed", "path", path, "error", err)
		return false
	}
	if h.target.Tell() > size {
		h.log.Info("file truncated", "path", path, "kind", record.ErrFileTruncated)
		if err := h.target.SeekStart(); err != nil {
			h.log.Warn("seek after truncation failed", "path", path, "error", err)
		}
		return false
	}

	return true
}

// saveProgress writes the current position/size to the checkpoint
// store. Failures are logged by the store itself (best-effort).
func (h *Housekeeper) saveProgress() {
	size, err := h.target.Size()
	if err != nil {
		h.log.Warn("failed to gather progress information", "path", h.target.Path(), "error", err)
		return
	}
	h.store.Save(h.target.Path(), h.target.Identity(), h.target.Tell(), size)
}
