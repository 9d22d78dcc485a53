// Package metrics exposes generator and ledger activity as Prometheus
// metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rzbill/uidgen/pkg/id"
)

const namespace = "uidgen"

// Metrics holds the collectors for one node.
type Metrics struct {
	generated       prometheus.Counter
	exhausted       prometheus.Counter
	overflowWaits   prometheus.Counter
	clockDegraded   prometheus.Counter
	clockRegressed  prometheus.Counter
	tsExhausted     prometheus.Counter
	lastTimestampMs prometheus.Gauge

	ledgerReadBytes  prometheus.Counter
	ledgerCommitOps  prometheus.Counter
	ledgerCommitTime prometheus.Histogram

	layout id.Layout
}

// New registers the collectors on reg, labelled with node.
func New(reg prometheus.Registerer, layout id.Layout, node uint64) *Metrics {
	labels := prometheus.Labels{"node_id": strconv.FormatUint(node, 10)}
	counter := func(sub, name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: sub, Name: name, Help: help, ConstLabels: labels,
		})
	}
	m := &Metrics{
		generated:      counter("sequencer", "ids_generated_total", "IDs issued by the sequencer."),
		exhausted:      counter("sequencer", "sequence_exhausted_total", "Times the per-millisecond sequence hit its overflow threshold."),
		overflowWaits:  counter("sequencer", "overflow_waits_total", "Sleeps performed while waiting for the next millisecond."),
		clockDegraded:  counter("sequencer", "clock_degraded_total", "Clock reads that failed and were treated as zero."),
		clockRegressed: counter("sequencer", "clock_regressions_total", "Clock reads behind the last seen millisecond."),
		tsExhausted:    counter("sequencer", "timestamp_exhausted_total", "Clock reads past the last millisecond the layout can encode."),
		lastTimestampMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sequencer", Name: "last_timestamp_ms",
			Help: "Timestamp field of the most recent ID.", ConstLabels: labels,
		}),
		ledgerReadBytes: counter("ledger", "read_bytes_total", "Bytes read from the ledger store."),
		ledgerCommitOps: counter("ledger", "committed_ops_total", "Operations committed to the ledger store."),
		ledgerCommitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "commit_seconds",
			Help: "Ledger batch commit latency.", ConstLabels: labels,
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	reg.MustRegister(
		m.generated, m.exhausted, m.overflowWaits, m.clockDegraded, m.clockRegressed, m.tsExhausted, m.lastTimestampMs,
		m.ledgerReadBytes, m.ledgerCommitOps, m.ledgerCommitTime,
	)
	m.layout = layout
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Observer returns an id.Observer feeding m.
func (m *Metrics) Observer() id.Observer { return sequencerObserver{m} }

type sequencerObserver struct{ m *Metrics }

func (o sequencerObserver) Generated(v uint64) {
	o.m.generated.Inc()
	o.m.lastTimestampMs.Set(float64(o.m.layout.Decompose(v).TimestampMs))
}

func (o sequencerObserver) SequenceExhausted(_ uint64, waits int) {
	o.m.exhausted.Inc()
	o.m.overflowWaits.Add(float64(waits))
}

func (o sequencerObserver) ClockDegraded(error)               { o.m.clockDegraded.Inc() }
func (o sequencerObserver) ClockRegressed(uint64, uint64)     { o.m.clockRegressed.Inc() }
func (o sequencerObserver) TimestampExhausted(uint64, uint64) { o.m.tsExhausted.Inc() }

// ObserveRead implements pebblestore.MetricsHook.
func (m *Metrics) ObserveRead(_ time.Duration, bytes int) { m.ledgerReadBytes.Add(float64(bytes)) }

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (m *Metrics) ObserveBatchCommit(elapsed time.Duration, numOps int, _ int) {
	m.ledgerCommitOps.Add(float64(numOps))
	m.ledgerCommitTime.Observe(elapsed.Seconds())
}
