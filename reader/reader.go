// Package reader drives one tailed file end-to-end: it owns a
// source.File, a record.Parser, a position.Positioner, and a
// housekeep.Housekeeper, and forwards filtered entries to an
// aggregate.Aggregator. One Reader runs per goroutine, per spec.md §5.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alain-L/logmerge/aggregate"
	"github.com/Alain-L/logmerge/checkpoint"
	"github.com/Alain-L/logmerge/housekeep"
	"github.com/Alain-L/logmerge/position"
	"github.com/Alain-L/logmerge/record"
	"github.com/Alain-L/logmerge/source"
)

// noEntriesSleepInterval is the follow-mode idle sleep named in
// spec.md §4.E.
const noEntriesSleepInterval = 100 * time.Millisecond

// housekeepingStride runs housekeeping every 1024 entries, per
// spec.md §4.E's "entry_count & 1023 == 0".
const housekeepingStride = 1024

// Options configures a Reader.
type Options struct {
	ID         int
	Path       string
	TailLength int // 0 = no backlog; >0 = tail-N
	Follow     bool
	Filter     record.Filter
	Store      *checkpoint.Store // nil disables checkpointing
	Aggregator aggregate.Aggregator
	Log        *slog.Logger
}

// Reader owns one tailed file for its whole lifetime.
type Reader struct {
	opt  Options
	log  *slog.Logger
	file *source.File
}

func New(opt Options) *Reader {
	log := opt.Log
	if log == nil {
		log = slog.Default()
	}
	return &Reader{opt: opt, log: log.With("reader_id", opt.ID, "path", opt.Path)}
}

// Start opens the file, autoconfigures the parser, and seeks to the
// starting position — the I/O-heavy startup phase a caller may want to
// bound across many concurrently-starting readers (see
// cmd/execute.go's startup semaphore). On failure it closes whatever it
// opened and signals EOF to the aggregator itself, since the caller
// never reaches Loop in that case.
func (r *Reader) Start(ctx context.Context) (*record.Parser, *housekeep.Housekeeper, error) {
	f, err := source.Open(r.opt.Path)
	if err != nil {
		r.log.Error("open failed", "error", fmt.Errorf("%w: %v", record.ErrOpenFailed, err))
		r.opt.Aggregator.EOF(r.opt.ID)
		return nil, nil, err
	}
	r.file = f

	cfg, err := record.AutoConfigure(f)
	if err != nil {
		r.log.Error("autoconfigure failed", "error", err)
		f.Close()
		r.opt.Aggregator.EOF(r.opt.ID)
		return nil, nil, err
	}

	if err := r.seekStart(f); err != nil {
		r.log.Warn("initial seek failed, starting from byte 0", "error", err)
		_ = f.SeekStart()
	}

	parser := record.NewParser(cfg, f, r.opt.ID, r.log)
	hk := housekeep.New(f, r.opt.Store, r.log)
	return parser, hk, nil
}

// Loop runs the main read/filter/forward loop until ctx is cancelled
// (follow mode) or EOF is reached (non-follow mode), then signals EOF
// to the aggregator and closes the file. Call only after a successful
// Start.
func (r *Reader) Loop(ctx context.Context, parser *record.Parser, hk *housekeep.Housekeeper) error {
	defer r.opt.Aggregator.EOF(r.opt.ID)
	defer r.file.Close()
	return r.loop(ctx, parser, hk)
}

// Run is Start immediately followed by Loop, for callers that have no
// need to bound the startup phase separately from the run loop (e.g.
// tests). It always signals EOF to the aggregator before returning, so
// the aggregator's open-reader bookkeeping never leaks a phantom
// producer.
func (r *Reader) Run(ctx context.Context) error {
	parser, hk, err := r.Start(ctx)
	if err != nil {
		return err
	}
	return r.Loop(ctx, parser, hk)
}

// seekStart dispatches the positioning strategies in the priority
// order from spec.md §4.C.
func (r *Reader) seekStart(f *source.File) error {
	if r.opt.Store != nil {
		rec, err := r.opt.Store.Load(r.opt.Path)
		if err == nil {
			f.SetIdentity(rec.Identity)
			return f.SeekAbsolute(rec.Position)
		}
		if !errors.Is(err, record.ErrCheckpointReadFailed) {
			return err
		}
		r.log.Warn("failed to read the sincedb file", "error", err)
	}

	if r.opt.TailLength == 0 {
		size, err := f.Size()
		if err != nil {
			return err
		}
		return f.SeekAbsolute(size)
	}

	pos := position.New(f)
	if r.opt.TailLength > 0 {
		return pos.SeekTail(r.opt.TailLength)
	}
	if r.opt.Filter.TimeFrom != "" {
		return pos.SeekTime(r.opt.Filter.TimeFrom)
	}
	return nil
}

func (r *Reader) loop(ctx context.Context, parser *record.Parser, hk *housekeep.Housekeeper) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		entryCount := 0
		for {
			entry, ok, err := parser.Next()
			if err != nil {
				r.log.Error("read failed", "error", err)
				return err
			}
			if !ok {
				break
			}
			if r.opt.Filter.Matches(entry) {
				r.opt.Aggregator.Add(entry)
			}
			entryCount++
			if entryCount%housekeepingStride == 0 {
				hk.MaybeRun(time.Now())
			}
			if ctx.Err() != nil {
				return nil
			}
		}

		if !r.opt.Follow {
			return nil
		}

		if entryCount == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(noEntriesSleepInterval):
			}
			hk.MaybeRun(time.Now())
		}
	}
}
