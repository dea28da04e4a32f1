// Package influx implements a telemetry.Backend that ships rx-power
// samples to InfluxDB, falling back to a local gzip-compressed
// line-protocol file when the server is unreachable.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/vanetlab/gemv2/internal/telemetry"
)

// DefaultBucketName is the InfluxDB bucket rx-power samples are written to.
const DefaultBucketName = "gemv2_samples"

// Config configures the connection to an InfluxDB server.
type Config struct {
	Host       string
	Port       string
	Protocol   string
	Token      string
	Org        string
	BucketName string
	BackupPath string
}

// Backend writes telemetry.Sample batches to InfluxDB, or to a backup
// file on disk if the server can't be reached.
type Backend struct {
	client       influxdb2.Client
	writer       influxdb2_api.WriteAPI
	backupFile   *os.File
	backupWriter *gzip.Writer
	valid        bool
	bucketName   string
	backupPath   string
	logger       zerolog.Logger
}

// New connects to InfluxDB per cfg. If the server can't be reached, the
// backend writes samples to the backup file at cfg.BackupPath instead; New
// returns an error only when that backup file cannot be opened (including
// when no backup path is set) or when the organization or bucket cannot be
// set up on a reachable server.
func New(cfg Config, logger zerolog.Logger) (*Backend, error) {
	if cfg.BucketName == "" {
		cfg.BucketName = DefaultBucketName
	}

	b := &Backend{
		bucketName: cfg.BucketName,
		backupPath: cfg.BackupPath,
		logger:     logger,
	}

	b.client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", cfg.Protocol, cfg.Host, cfg.Port),
		cfg.Token,
		influxdb2.DefaultOptions().SetBatchSize(2500).SetFlushInterval(1000),
	)

	running, err := b.client.Ping(context.Background())
	if err != nil || !running {
		b.valid = false
		if openErr := b.openBackup(); openErr != nil {
			return nil, openErr
		}
		b.logger.Warn().Msg("InfluxDB unreachable, writing samples to backup file")
		return b, nil
	}

	b.valid = true
	if err := b.ensureOrgAndBucket(cfg.Org); err != nil {
		return nil, err
	}
	b.writer = b.client.WriteAPI(cfg.Org, b.bucketName)
	go func() {
		for writeErr := range b.writer.Errors() {
			b.logger.Error().Err(writeErr).Str("bucket", b.bucketName).Msg("error sending sample to InfluxDB")
		}
	}()

	return b, nil
}

func (b *Backend) openBackup() error {
	if b.backupPath == "" {
		return errors.New("influx: server unreachable and no backup path configured")
	}
	f, err := os.OpenFile(b.backupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating influx backup file: %w", err)
	}
	b.backupFile = f
	b.backupWriter = gzip.NewWriter(f)
	return nil
}

func (b *Backend) ensureOrgAndBucket(orgName string) error {
	ctx := context.Background()

	org, err := b.client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		b.logger.Info().Str("org", orgName).Msg("organization not found, creating")
		org, err = b.client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			return fmt.Errorf("creating influx organization %q: %w", orgName, err)
		}
	}

	if _, err := b.client.BucketsAPI().FindBucketByName(ctx, b.bucketName); err != nil {
		b.logger.Info().Str("bucket", b.bucketName).Msg("bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = b.client.BucketsAPI().CreateBucketWithName(ctx, org, b.bucketName, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90,
		})
		if err != nil {
			return fmt.Errorf("creating influx bucket %q: %w", b.bucketName, err)
		}
	}

	return nil
}

// Write ships a batch of samples to InfluxDB, or appends them as
// line-protocol to the backup file if the server is unavailable.
func (b *Backend) Write(_ context.Context, samples []telemetry.Sample) error {
	for _, s := range samples {
		point := influxdb2_write.NewPointWithMeasurement("rx_power").
			AddTag("tx_id", s.TxID).
			AddTag("rx_id", s.RxID).
			AddTag("link_type", s.LinkType).
			AddField("distance_m", s.DistanceM).
			AddField("rx_power_dbm", s.RxPowerDbm).
			SetTime(s.Timestamp)

		if b.valid {
			b.writer.WritePoint(point)
			continue
		}

		if b.backupWriter == nil {
			return errors.New("influx: client not initialized and backup writer not available")
		}
		line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
		if _, err := b.backupWriter.Write([]byte(line + "\n")); err != nil {
			return fmt.Errorf("writing to influx backup file: %w", err)
		}
	}
	return nil
}

// Close flushes and releases the underlying client or backup file.
func (b *Backend) Close() error {
	if b.valid && b.writer != nil {
		b.writer.Flush()
		b.client.Close()
	}
	if b.backupWriter != nil {
		if err := b.backupWriter.Close(); err != nil {
			return err
		}
	}
	if b.backupFile != nil {
		return b.backupFile.Close()
	}
	return nil
}
