// Package metrics defines the Prometheus instruments of the payroll service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	ShiftsParsed     *prometheus.CounterVec
	ShiftsCalculated *prometheus.CounterVec
	NullResults      prometheus.Counter
	CalculationTime  prometheus.Histogram
	StatementsSaved  prometheus.Counter
	ErrorsCount      *prometheus.CounterVec
}

// New creates the metrics on a fresh registry, so several instances (one per
// test server) never collide on registration.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ShiftsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_parsed_total",
			Help:      "Shift-log lines parsed, by resulting shift type",
		}, []string{"type"}),
		ShiftsCalculated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_calculated_total",
			Help:      "Shift breakdowns produced, by shift type",
		}, []string{"type"}),
		NullResults: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shifts_unbilled_total",
			Help:      "Shifts that produced no breakdown (day off or missing times)",
		}),
		CalculationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time taken to link and calculate one batch of shifts",
			Buckets:   prometheus.DefBuckets,
		}),
		StatementsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_runs_saved_total",
			Help:      "Monthly statement runs persisted",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
