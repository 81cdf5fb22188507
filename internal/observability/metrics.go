package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "ecorp-release"

// Metrics holds the pipeline instruments. A nil *Metrics records nothing.
type Metrics struct {
	registry *promclient.Registry
	provider *sdkmetric.MeterProvider

	PackagesTotal    metric.Int64Counter
	DeploymentsTotal metric.Int64Counter
	ArchiveBytes     metric.Int64Counter
	PhaseDuration    metric.Float64Histogram
}

// NewMetrics creates the instruments on a private Prometheus registry.
func NewMetrics() (*Metrics, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)
	m := &Metrics{registry: registry, provider: provider}

	m.PackagesTotal, err = meter.Int64Counter(
		"ecorp_release_packages",
		metric.WithDescription("Packager runs by platform and outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.DeploymentsTotal, err = meter.Int64Counter(
		"ecorp_release_deployments",
		metric.WithDescription("Installer runs by platform, architecture and outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.ArchiveBytes, err = meter.Int64Counter(
		"ecorp_release_archive",
		metric.WithDescription("Bytes written to release archives"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	m.PhaseDuration, err = meter.Float64Histogram(
		"ecorp_release_phase_duration",
		metric.WithDescription("Pipeline phase duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600, 1200),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPackage records one packager run.
func (m *Metrics) RecordPackage(ctx context.Context, platform string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	m.PackagesTotal.Add(ctx, 1, metric.WithAttributes(platformAttr(platform), outcomeAttr(err)))
	m.PhaseDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(platformAttr(platform), phaseAttr("build")))
}

// RecordDeployment records one installer run.
func (m *Metrics) RecordDeployment(ctx context.Context, platform, arch string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	m.DeploymentsTotal.Add(ctx, 1, metric.WithAttributes(platformAttr(platform), archAttr(arch), outcomeAttr(err)))
	m.PhaseDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(platformAttr(platform), phaseAttr("deploy")))
}

// RecordArchive records the size of a written archive.
func (m *Metrics) RecordArchive(ctx context.Context, platform string, size int64) {
	if m == nil {
		return
	}

	m.ArchiveBytes.Add(ctx, size, metric.WithAttributes(platformAttr(platform)))
}

// WriteTextfile writes every collected metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}

	if err := promclient.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}

	return nil
}

// Shutdown stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}

	return m.provider.Shutdown(ctx)
}
