package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Initialize outcomes
const (
	OutcomeOK         = "ok"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

// Mutation outcomes
const (
	MutationApplied   = "applied"
	MutationUnknown   = "unknown_product"
	MutationDiscarded = "discarded"
)

// Recorder collects order builder metrics on its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	initializations *prometheus.CounterVec
	initDuration    prometheus.Histogram
	mutations       *prometheus.CounterVec
	alerts          *prometheus.CounterVec
	selectedPallets prometheus.Gauge
	warehouseAfter  prometheus.Gauge
	activeSessions  prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		initializations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbuilder_initializations_total",
				Help: "Initialize and reset calls by outcome",
			},
			[]string{"outcome"},
		),
		initDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orderbuilder_initialize_duration_seconds",
				Help:    "Time spent fetching recommendations and building defaults",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbuilder_mutations_total",
				Help: "Selection mutations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbuilder_alerts_total",
				Help: "Alerts raised after order changes by type and code",
			},
			[]string{"type", "code"},
		),
		selectedPallets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orderbuilder_selected_pallets",
				Help: "Pallets selected after the most recent order change",
			},
		),
		warehouseAfter: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orderbuilder_warehouse_utilization_after_percent",
				Help: "Projected warehouse utilization after delivery",
			},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orderbuilder_active_sessions",
				Help: "Planning sessions currently open",
			},
		),
	}

	registry.MustRegister(
		r.initializations,
		r.initDuration,
		r.mutations,
		r.alerts,
		r.selectedPallets,
		r.warehouseAfter,
		r.activeSessions,
	)

	return r
}

// Registry exposes the underlying registry for scraping
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordInitialize records the outcome and duration of an initialize or reset
func (r *Recorder) RecordInitialize(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.initializations.WithLabelValues(outcome).Inc()
	r.initDuration.Observe(elapsed.Seconds())
}

// RecordMutation records a toggle or quantity change
func (r *Recorder) RecordMutation(operation, outcome string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(operation, outcome).Inc()
}

// RecordAlert records a generated alert
func (r *Recorder) RecordAlert(alertType, code string) {
	if r == nil {
		return
	}
	r.alerts.WithLabelValues(alertType, code).Inc()
}

// RecordSummary records the current order totals
func (r *Recorder) RecordSummary(totalPallets int, utilizationAfter float64) {
	if r == nil {
		return
	}
	r.selectedPallets.Set(float64(totalPallets))
	r.warehouseAfter.Set(utilizationAfter)
}

// SessionOpened increments the active session gauge
func (r *Recorder) SessionOpened() {
	if r == nil {
		return
	}
	r.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge
func (r *Recorder) SessionClosed() {
	if r == nil {
		return
	}
	r.activeSessions.Dec()
}

// Snapshot gathers counter and gauge values keyed by metric name and labels,
// e.g. `orderbuilder_mutations_total{operation="toggle",outcome="applied"}`
func (r *Recorder) Snapshot() (map[string]float64, error) {
	out := make(map[string]float64)
	if r == nil {
		return out, nil
	}

	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			key := family.GetName() + labelString(m.GetLabel())
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, l.GetName()+`="`+l.GetValue()+`"`)
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
