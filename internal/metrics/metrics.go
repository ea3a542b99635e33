// Package metrics exposes prometheus counters and histograms for pairing
// operations, modeled on drand/metrics/metrics.go's registry-and-bind
// pattern but scoped to this engine's surface: per-family, per-opcode
// operation counts and latencies instead of DKG/beacon/client metrics.
package metrics

import (
	"net"
	"net/http"

	"github.com/drand/pairing/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the single registry this package binds collectors to.
	Registry = prometheus.NewRegistry()

	// OperationCounter counts engine calls by curve family and opcode
	// (pair, g1_add, g1_mul, g1_multiexp, g2_add, g2_mul, g2_multiexp).
	OperationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairing_operation_total",
		Help: "Number of pairing-engine operations performed.",
	}, []string{"family", "opcode"})

	// OperationFailures counts engine calls that returned a non-nil error,
	// by curve family, opcode and apierrors.Kind string.
	OperationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairing_operation_failures_total",
		Help: "Number of pairing-engine operations that failed.",
	}, []string{"family", "opcode", "kind"})

	// OperationLatency histograms per-operation wall time in seconds.
	OperationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pairing_operation_duration_seconds",
		Help:    "Latency of pairing-engine operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"family", "opcode"})

	// PairCount histograms how many (G1,G2) pairs a single MultiPair/pair
	// call processed.
	PairCount = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pairing_pair_count",
		Help:    "Number of (G1,G2) pairs supplied to a single pairing call.",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	}, []string{"family"})

	// DescriptorCacheHits/Misses track internal/descriptorcache behavior.
	DescriptorCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pairing_descriptor_cache_hits_total",
		Help: "Descriptor cache lookups served without rebuilding.",
	})
	DescriptorCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pairing_descriptor_cache_misses_total",
		Help: "Descriptor cache lookups that required a rebuild.",
	})

	bound = false
)

func bind() error {
	if bound {
		return nil
	}
	bound = true
	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}
	cs := []prometheus.Collector{
		OperationCounter,
		OperationFailures,
		OperationLatency,
		PairCount,
		DescriptorCacheHits,
		DescriptorCacheMisses,
	}
	for _, c := range cs {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Start binds the collectors and serves /metrics on bindAddr, matching
// drand/metrics.Start's listen-and-serve shape. Returns nil on failure
// (logged, not fatal — metrics are diagnostic, never load-bearing).
func Start(bindAddr string) net.Listener {
	if err := bind(); err != nil {
		log.DefaultLogger().Warnw("metrics bind failed", "err", err)
		return nil
	}
	l, err := net.Listen("tcp", bindAddr)
	if err != nil {
		log.DefaultLogger().Warnw("metrics listen failed", "err", err)
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
	s := &http.Server{Handler: mux}
	go func() {
		log.DefaultLogger().Warnw("metrics server stopped", "err", s.Serve(l))
	}()
	return l
}

// RecordOperation records one engine call's outcome and latency.
func RecordOperation(family, opcode string, seconds float64, errKind string) {
	OperationCounter.WithLabelValues(family, opcode).Inc()
	OperationLatency.WithLabelValues(family, opcode).Observe(seconds)
	if errKind != "" {
		OperationFailures.WithLabelValues(family, opcode, errKind).Inc()
	}
}

// RecordPairCount records how many pairs a MultiPair call processed.
func RecordPairCount(family string, n int) {
	PairCount.WithLabelValues(family).Observe(float64(n))
}
