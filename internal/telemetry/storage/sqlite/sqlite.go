// Package sqlite implements a durable telemetry backend on top of
// gorm and an embedded SQLite database, mirroring the teacher's
// fallback-to-SQLite database manager.
package sqlite

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vanetlab/gemv2/internal/telemetry"
)

// SampleRecord is the persisted row shape for a telemetry sample.
type SampleRecord struct {
	gorm.Model
	Timestamp  int64 `gorm:"index"`
	TxID       string
	RxID       string
	LinkType   string `gorm:"index"`
	DistanceM  float64
	RxPowerDbm float64
}

// Backend persists samples to a SQLite database via gorm.
type Backend struct {
	db *gorm.DB
}

// New opens (creating if necessary) a SQLite database at path and
// migrates the sample table. Pass "file::memory:?cache=shared" for an
// ephemeral in-process database.
func New(path string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&SampleRecord{}); err != nil {
		return nil, fmt.Errorf("migrating sample table: %w", err)
	}

	return &Backend{db: db}, nil
}

// Write persists a batch of samples in a single transaction.
func (b *Backend) Write(ctx context.Context, samples []telemetry.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	records := make([]SampleRecord, 0, len(samples))
	for _, s := range samples {
		records = append(records, SampleRecord{
			Timestamp:  s.Timestamp.UnixNano(),
			TxID:       s.TxID,
			RxID:       s.RxID,
			LinkType:   s.LinkType,
			DistanceM:  s.DistanceM,
			RxPowerDbm: s.RxPowerDbm,
		})
	}

	return b.db.WithContext(ctx).CreateInBatches(records, 500).Error
}

// Close releases the underlying database connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
