// Package otelmetrics exposes the engine's classification-count and
// rx-power instruments through the global OpenTelemetry MeterProvider.
// When the caller enables OTel and registers an SDK MeterProvider, these
// instruments export real data; otherwise they fall back to the default
// no-op meter, so instrumentation calls are always safe.
package otelmetrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/vanetlab/gemv2/internal/otelmetrics"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Instruments bundles the counters and histograms the engine reports on.
type Instruments struct {
	classificationCount metric.Int64Counter
	rxPowerDbm          metric.Float64Histogram
}

// New creates the engine's instruments against the currently registered
// global MeterProvider.
func New() (*Instruments, error) {
	m := meter()

	classificationCount, err := m.Int64Counter(
		"gemv2.link.classifications",
		metric.WithDescription("number of link classifications performed, by link type"),
		metric.WithUnit("{classification}"),
	)
	if err != nil {
		return nil, err
	}

	rxPowerDbm, err := m.Float64Histogram(
		"gemv2.link.rx_power_dbm",
		metric.WithDescription("distribution of computed receive power"),
		metric.WithUnit("dBm"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		classificationCount: classificationCount,
		rxPowerDbm:          rxPowerDbm,
	}, nil
}

// RecordClassification increments the classification counter for the
// given link type. linkType is the link's string label (LinkType.String()
// in pkg/propagation) rather than that package's typed enum, so this
// package stays free of a dependency on the domain package.
func (i *Instruments) RecordClassification(ctx context.Context, linkType string) {
	i.classificationCount.Add(ctx, 1, metric.WithAttributes(
		attributeLinkType(linkType),
	))
}

// RecordRxPower records a computed receive power sample.
func (i *Instruments) RecordRxPower(ctx context.Context, rxPowerDbm float64, linkType string) {
	i.rxPowerDbm.Record(ctx, rxPowerDbm, metric.WithAttributes(
		attributeLinkType(linkType),
	))
}
