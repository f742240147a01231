package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	metricActiveWorkers  = "cliquecount.active_workers"
	metricDonationsTotal = "cliquecount.donations_total"
	metricCliquesTotal   = "cliquecount.cliques_total"
)

// Provider holds the engine's OpenTelemetry metric instruments. A
// Provider created with metrics disabled (the default) has a nil
// meter and every Record/Set method is a no-op, so callers never need
// to branch on whether telemetry is active.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	activeWorkers  metric.Int64UpDownCounter
	donationsTotal metric.Int64Counter
	cliquesTotal   metric.Int64Counter

	mu sync.RWMutex
}

// NewProvider builds a metrics Provider backed by a Prometheus
// exporter. If OTEL_ENABLED is not set, it returns a Provider whose
// instruments are nil and whose methods are safe no-ops.
func NewProvider(ctx context.Context) (*Provider, error) {
	p := &Provider{}

	if !Enabled() {
		return p, nil
	}

	res, err := buildResource(ctx, loadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter("cliquecount")

	if err := p.createInstruments(); err != nil {
		return nil, fmt.Errorf("failed to create metric instruments: %w", err)
	}

	return p, nil
}

func (p *Provider) createInstruments() error {
	var err error

	p.activeWorkers, err = p.meter.Int64UpDownCounter(
		metricActiveWorkers,
		metric.WithDescription("Number of ranks currently enumerating or donating"),
	)
	if err != nil {
		return err
	}

	p.donationsTotal, err = p.meter.Int64Counter(
		metricDonationsTotal,
		metric.WithDescription("Total number of accepted donation handshakes"),
	)
	if err != nil {
		return err
	}

	p.cliquesTotal, err = p.meter.Int64Counter(
		metricCliquesTotal,
		metric.WithDescription("Final clique count recorded once per size at run completion"),
	)
	if err != nil {
		return err
	}

	return nil
}

// SetWorkerActive adjusts the active-worker gauge by delta. The engine
// adds its worker count when a run's ranks start and subtracts it when
// the coordinator returns.
func (p *Provider) SetWorkerActive(ctx context.Context, delta int64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.activeWorkers == nil {
		return
	}
	p.activeWorkers.Add(ctx, delta)
}

// RecordDonation increments the donation counter once per accepted
// handshake. Declined requests are not errors and are not recorded.
func (p *Provider) RecordDonation(ctx context.Context) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.donationsTotal == nil {
		return
	}
	p.donationsTotal.Add(ctx, 1)
}

// RecordCliqueCounts records the final per-size totals once, at
// aggregation, rather than incrementing during the hot recursive
// enumeration path.
func (p *Provider) RecordCliqueCounts(ctx context.Context, counts map[int]int64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cliquesTotal == nil {
		return
	}
	for size, count := range counts {
		p.cliquesTotal.Add(ctx, count, metric.WithAttributes(attribute.Int("size", size)))
	}
}

// Shutdown flushes and stops the underlying meter provider, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
