// Package metrics provides optional Prometheus metrics for the AEI SDK.
//
// Metrics are process-wide. Create one Collector per process and share it
// across sessions via the WithMetrics option; a nil *Collector is a no-op,
// so instrumented code never has to check whether metrics are enabled.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	aeiCommandsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aei_commands_sent_total",
			Help: "Commands written to engine stdin, by command word",
		},
		[]string{"command"},
	)

	aeiLinesReadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aei_lines_read_total",
			Help: "Output lines read from the engine (stderr merged)",
		},
	)

	aeiDecodeReplacementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aei_decode_replacements_total",
			Help: "Output lines whose invalid UTF-8 bytes were replaced",
		},
	)

	aeiSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aei_searches_total",
			Help: "Completed searches by outcome",
		},
		[]string{"outcome"}, // "bestmove", "timeout", "process_exit", "cancelled"
	)

	aeiEngineExitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aei_engine_exits_total",
			Help: "Engine process exits by exit code category",
		},
		[]string{"category"}, // "success", "error", "signal"
	)

	aeiActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aei_active_sessions",
			Help: "Engine sessions currently connected",
		},
	)

	aeiHandshakeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aei_handshake_seconds",
			Help:    "Time from sending aei to seeing aeiok",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
	)

	aeiSearchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aei_search_seconds",
			Help:    "Time from sending go to seeing bestmove",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

// Search outcome label values.
const (
	OutcomeBestMove    = "bestmove"
	OutcomeTimeout     = "timeout"
	OutcomeProcessExit = "process_exit"
	OutcomeCancelled   = "cancelled"
)

// Collector registers and updates the SDK metrics. All methods are safe on
// a nil receiver.
type Collector struct{}

// NewCollector registers the metrics with the default Prometheus registerer.
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry registers the metrics with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(registry prometheus.Registerer) *Collector {
	registry.MustRegister(
		aeiCommandsSentTotal,
		aeiLinesReadTotal,
		aeiDecodeReplacementsTotal,
		aeiSearchesTotal,
		aeiEngineExitsTotal,
		aeiActiveSessions,
		aeiHandshakeSeconds,
		aeiSearchSeconds,
	)

	return &Collector{}
}

// CommandSent records one command write. Only the first word is used as the
// label to keep cardinality bounded.
func (c *Collector) CommandSent(command string) {
	if c == nil {
		return
	}

	word, _, _ := strings.Cut(command, " ")
	aeiCommandsSentTotal.WithLabelValues(word).Inc()
}

// LineRead records one output line, and whether decoding replaced bytes.
func (c *Collector) LineRead(replaced bool) {
	if c == nil {
		return
	}

	aeiLinesReadTotal.Inc()
	if replaced {
		aeiDecodeReplacementsTotal.Inc()
	}
}

// SessionStarted records a session connecting.
func (c *Collector) SessionStarted() {
	if c == nil {
		return
	}

	aeiActiveSessions.Inc()
}

// SessionClosed records a session closing.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}

	aeiActiveSessions.Dec()
}

// HandshakeFinished records a completed handshake.
func (c *Collector) HandshakeFinished(d time.Duration) {
	if c == nil {
		return
	}

	aeiHandshakeSeconds.Observe(d.Seconds())
}

// SearchFinished records a search and its outcome.
func (c *Collector) SearchFinished(outcome string, d time.Duration) {
	if c == nil {
		return
	}

	aeiSearchesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeBestMove {
		aeiSearchSeconds.Observe(d.Seconds())
	}
}

// EngineExited records a process exit by category.
func (c *Collector) EngineExited(exitCode int) {
	if c == nil {
		return
	}

	category := "error"
	if exitCode == 0 {
		category = "success"
	} else if exitCode > 128 || exitCode < 0 {
		category = "signal"
	}
	aeiEngineExitsTotal.WithLabelValues(category).Inc()
}
