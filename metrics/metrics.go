package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/interchainlabs/relaycore/log"
)

const (
	meterName     = "github.com/interchainlabs/relaycore"
	namespaceRoot = "relayer"
)

var (
	meterProvider *metric.MeterProvider
	meter         api.Meter

	ProcessedBlockHeightGauge *Int64SyncGauge
	BacklogSizeGauge          *Int64SyncGauge
	providerFailoversCounter  api.Int64Counter
	relayedPacketsCounter     api.Int64Counter
)

type ExporterConfig interface {
	exporterType() string
}

type ExporterNull struct{}

func (e ExporterNull) exporterType() string { return "null" }

type ExporterProm struct {
	Addr string
}

func (e ExporterProm) exporterType() string { return "prometheus" }

func InitializeMetrics(exporterConf ExporterConfig) error {
	var err error

	switch exporterConf := exporterConf.(type) {
	case ExporterNull:
		meterProvider = metric.NewMeterProvider()
	case ExporterProm:
		exporter, err := NewPrometheusExporter(exporterConf.Addr)
		if err != nil {
			return err
		}
		meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
	default:
		panic("unexpected exporter type")
	}

	meter = meterProvider.Meter(meterName)

	name := fmt.Sprintf("%s.processed_block_height", namespaceRoot)
	if ProcessedBlockHeightGauge, err = NewInt64SyncGauge(
		meter,
		name,
		api.WithUnit("1"),
		api.WithDescription("latest consensus height observed per chain"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	name = fmt.Sprintf("%s.backlog_size", namespaceRoot)
	if BacklogSizeGauge, err = NewInt64SyncGauge(
		meter,
		name,
		api.WithUnit("1"),
		api.WithDescription("number of packets awaiting a relay action"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	name = fmt.Sprintf("%s.provider_failovers", namespaceRoot)
	if providerFailoversCounter, err = meter.Int64Counter(
		name,
		api.WithUnit("1"),
		api.WithDescription("number of times a faulty provider was replaced"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	name = fmt.Sprintf("%s.relayed_packets", namespaceRoot)
	if relayedPacketsCounter, err = meter.Int64Counter(
		name,
		api.WithUnit("1"),
		api.WithDescription("number of packet datagrams handed to a submitter"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	return nil
}

func ShutdownMetrics(ctx context.Context) error {
	if meterProvider == nil {
		return nil
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown the MeterProvider: %v", err)
	}
	return nil
}

// SetProcessedBlockHeight records the latest consensus height observed for
// the chain. No-op until InitializeMetrics has been called.
func SetProcessedBlockHeight(ctx context.Context, chainID string, height int64) {
	if ProcessedBlockHeightGauge == nil {
		return
	}
	ProcessedBlockHeightGauge.Set(height, attribute.String("chain_id", chainID))
}

// IncrProviderFailovers records one provider failover for the chain. No-op
// until InitializeMetrics has been called.
func IncrProviderFailovers(ctx context.Context, chainID string) {
	if providerFailoversCounter == nil {
		return
	}
	providerFailoversCounter.Add(ctx, 1, api.WithAttributes(attribute.String("chain_id", chainID)))
}

// IncrRelayedPackets records datagrams handed off for submission. No-op until
// InitializeMetrics has been called.
func IncrRelayedPackets(ctx context.Context, chainID string, n int64) {
	if relayedPacketsCounter == nil {
		return
	}
	relayedPacketsCounter.Add(ctx, n, api.WithAttributes(attribute.String("chain_id", chainID)))
}

// SetBacklogSize records the current relay backlog for the chain pair. No-op
// until InitializeMetrics has been called.
func SetBacklogSize(ctx context.Context, srcChainID, dstChainID string, size int64) {
	if BacklogSizeGauge == nil {
		return
	}
	BacklogSizeGauge.Set(size,
		attribute.String("src_chain_id", srcChainID),
		attribute.String("dst_chain_id", dstChainID),
	)
}

func NewPrometheusExporter(addr string) (*prometheus.Exporter, error) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.GetLogger().Error("prometheus exporter server failed", err)
		}
	}()

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create the Prometheus Exporter: %v", err)
	}

	return exporter, nil
}
