// Package memory implements an in-process telemetry backend: samples are
// kept in memory and dumped to a JSON file when the backend is closed, for short runs
// or environments without a database.
package memory

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vanetlab/gemv2/internal/telemetry"
)

// Backend accumulates samples in memory and dumps them to a JSON file
// under OutputDir, optionally gzip-compressed.
type Backend struct {
	mu             sync.Mutex
	samples        []telemetry.Sample
	outputDir      string
	compressOutput bool
}

// New creates a memory-backed telemetry store writing dumps under
// outputDir.
func New(outputDir string, compressOutput bool) *Backend {
	return &Backend{
		outputDir:      outputDir,
		compressOutput: compressOutput,
	}
}

// Write appends samples to the in-memory buffer.
func (b *Backend) Write(_ context.Context, samples []telemetry.Sample) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = append(b.samples, samples...)
	return nil
}

// Samples returns a snapshot of everything recorded so far.
func (b *Backend) Samples() []telemetry.Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]telemetry.Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Close dumps the accumulated samples to a timestamped JSON file and
// clears the buffer.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) == 0 {
		return nil
	}

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	name := fmt.Sprintf("samples.%s.json", time.Now().UTC().Format("20060102_150405"))
	if b.compressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}
	defer f.Close()

	var enc *json.Encoder
	if b.compressOutput {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		enc = json.NewEncoder(gz)
	} else {
		enc = json.NewEncoder(f)
	}

	if err := enc.Encode(b.samples); err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}

	b.samples = nil
	return nil
}
