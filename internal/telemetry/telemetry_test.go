package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeBackend struct {
	mu      sync.Mutex
	batches [][]Sample
}

func (f *fakeBackend) Write(_ context.Context, samples []Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	f.batches = append(f.batches, cp)
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

func TestRecorder_FlushesOnBatchSize(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRecorder(backend, 3, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	for i := 0; i < 3; i++ {
		r.Record(Sample{TxID: "a", RxID: "b", LinkType: "LOS"})
	}

	deadline := time.After(2 * time.Second)
	for backend.total() < 3 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for batch flush")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	r.Wait()
}

func TestRecorder_FlushesOnContextDone(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRecorder(backend, 100, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	r.Record(Sample{TxID: "a", RxID: "b", LinkType: "NLOSb"})
	time.Sleep(10 * time.Millisecond)

	cancel()
	r.Wait()

	if got := backend.total(); got != 1 {
		t.Fatalf("expected final flush to persist 1 sample, got %d", got)
	}
}
