// Package telemetry records rx-power samples produced by the propagation
// engine and drains them to a pluggable storage backend, mirroring the
// teacher's queued-write-behind pattern for high-frequency sim data.
package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanetlab/gemv2/internal/channel"
	"github.com/vanetlab/gemv2/internal/queue"
)

// Sample is one rx-power computation, ready to be persisted. LinkType is
// a plain string (LinkType.String() from pkg/propagation) rather than
// that package's typed enum, so this package stays free to be imported
// back from pkg/propagation without an import cycle.
type Sample struct {
	Timestamp  time.Time
	TxID       string
	RxID       string
	LinkType   string
	DistanceM  float64
	RxPowerDbm float64
}

// Backend persists a batch of samples.
type Backend interface {
	Write(ctx context.Context, samples []Sample) error
	Close() error
}

// Recorder buffers samples on a channel and flushes them to a Backend in
// batches, either when the buffer fills or on a timer.
type Recorder struct {
	ch            channel.Channel[Sample]
	backend       Backend
	flushInterval time.Duration
	batchSize     int
	logger        zerolog.Logger

	done chan struct{}
}

// NewRecorder creates a recorder that batches up to batchSize samples, or
// flushes every flushInterval, whichever comes first.
func NewRecorder(backend Backend, batchSize int, flushInterval time.Duration, logger zerolog.Logger) *Recorder {
	if batchSize <= 0 {
		batchSize = 500
	}
	if flushInterval <= 0 {
		flushInterval = 3 * time.Minute
	}
	return &Recorder{
		ch:            channel.New[Sample](batchSize * 2),
		backend:       backend,
		flushInterval: flushInterval,
		batchSize:     batchSize,
		logger:        logger,
		done:          make(chan struct{}),
	}
}

// Record enqueues a sample for eventual persistence. Never blocks the
// caller past the channel's buffer.
func (r *Recorder) Record(s Sample) {
	r.ch.Send(s)
}

// Run drains the channel until ctx is cancelled, batching writes to the
// backend. It blocks; run it in its own goroutine.
func (r *Recorder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()
	defer close(r.done)

	batch := queue.New[Sample]()
	flush := func() {
		if batch.Empty() {
			return
		}
		items := batch.GetAndEmpty()
		if err := r.backend.Write(ctx, items); err != nil {
			r.logger.Error().Err(err).Int("count", len(items)).Msg("failed to write telemetry batch")
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		case s := <-r.ch.Receive():
			batch.Push(s)
			if batch.Len() >= r.batchSize {
				flush()
			}
		}
	}
}

// Wait blocks until Run has returned and performed its final flush.
func (r *Recorder) Wait() {
	<-r.done
}
