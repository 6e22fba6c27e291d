package sink

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Alain-L/logmerge/aggregate"
	"github.com/Alain-L/logmerge/record"
)

// MaxChunkSize bounds how many entries the shipper pushes per
// interval, per spec.md §5's backpressure note.
const MaxChunkSize = 500

// pushInterval is the shipper's wait between drains: after each pushed
// batch, and before polling again when nothing was drained.
const pushInterval = 1 * time.Second

// sinkTransientRetryDelay is the 5s retry sleep named in spec.md §7
// for SinkTransient.
const sinkTransientRetryDelay = 5 * time.Second

// RedisShipper batches drained entries as JSON and RPUSHes them onto a
// Redis list, grounded on github.com/redis/go-redis/v9 (found in
// _examples/influxdb-telegraf/go.mod).
type RedisShipper struct {
	client *redis.Client
	list   string
	names  aggregate.DisplayNamer
	log    *slog.Logger
}

func NewRedisShipper(addr, list string, names aggregate.DisplayNamer, log *slog.Logger) *RedisShipper {
	if log == nil {
		log = slog.Default()
	}
	return &RedisShipper{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}),
		list: list,
		names: names,
		log:  log,
	}
}

// Run drains agg (via its FIFO-style bounded batch drain when
// available, otherwise one entry at a time) and ships batches to Redis
// until ctx is cancelled. A failed push is retried with the same batch
// after sinkTransientRetryDelay. Run does not return when agg is
// exhausted; it keeps polling every pushInterval.
func (s *RedisShipper) Run(ctx context.Context, agg aggregate.Aggregator) error {
	defer s.client.Close()

	fifo, isFIFO := agg.(*aggregate.FIFO)

	for {
		if ctx.Err() != nil {
			return nil
		}

		var batch []record.Entry
		if isFIFO {
			batch = fifo.DrainUpTo(MaxChunkSize)
		} else {
			batch = s.drainOneAtATime(agg)
		}

		if len(batch) == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pushInterval):
			}
			continue
		}

		for err := s.push(ctx, batch); err != nil; err = s.push(ctx, batch) {
			s.log.Warn("sink transient error, retrying", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(sinkTransientRetryDelay):
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pushInterval):
		}
	}
}

// drainOneAtATime takes up to MaxChunkSize entries from any
// Aggregator via its blocking Next, used when the aggregator is not a
// FIFO (e.g. the Ordered variant, which exposes no bulk drain since
// blocking semantics are part of its correctness contract).
func (s *RedisShipper) drainOneAtATime(agg aggregate.Aggregator) []record.Entry {
	var batch []record.Entry
	for len(batch) < MaxChunkSize && agg.Len() > 0 {
		e, ok := agg.Next()
		if !ok {
			break
		}
		batch = append(batch, e)
	}
	return batch
}

func (s *RedisShipper) push(ctx context.Context, batch []record.Entry) error {
	values := make([]interface{}, 0, len(batch))
	for _, e := range batch {
		b, err := MarshalWithNames(e, s.names)
		if err != nil {
			s.log.Warn("failed to marshal entry for redis", "error", err)
			continue
		}
		values = append(values, b)
	}
	if len(values) == 0 {
		return nil
	}
	err := s.client.RPush(ctx, s.list, values...).Err()
	if err != nil && isTransient(err) {
		return errors.Join(record.ErrSinkTransient, err)
	}
	return err
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded)
}
