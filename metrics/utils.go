package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CreateCounter creates a new counter metric and registers it to the
// application metrics registry.
//
// Example:
//
//	counter := m.CreateCounter("rpc_requests_total", "Total RPC requests", []string{"method", "status"})
//	counter.WithLabelValues("hello", "ok").Inc()
func (m *Metrics) CreateCounter(name, help string, labels []string) Counter {
	promCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: name, Help: help},
		labels,
	)
	m.wrappedApplicationRegisterer.MustRegister(promCounter)
	return &counterVec{vec: promCounter}
}

// CreateGauge creates a new gauge metric and registers it to the application
// metrics registry.
func (m *Metrics) CreateGauge(name, help string, labels []string) Gauge {
	promGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: name, Help: help},
		labels,
	)
	m.wrappedApplicationRegisterer.MustRegister(promGauge)
	return &gaugeVec{vec: promGauge}
}

// CreateHistogram creates a new histogram metric with the given buckets and
// registers it to the application metrics registry.
//
// Example:
//
//	hist := m.CreateHistogram(
//	    "rpc_duration_seconds",
//	    "RPC duration in seconds",
//	    []string{"method"},
//	    []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
//	)
//	hist.WithLabelValues("hello").Observe(0.25)
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) Histogram {
	promHistogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets},
		labels,
	)
	m.wrappedApplicationRegisterer.MustRegister(promHistogram)
	return &histogramVec{vec: promHistogram}
}

// CreateSummary creates a new summary metric with the given quantile
// objectives and registers it to the application metrics registry.
func (m *Metrics) CreateSummary(name, help string, labels []string, objectives map[float64]float64) Summary {
	promSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{Name: name, Help: help, Objectives: objectives},
		labels,
	)
	m.wrappedApplicationRegisterer.MustRegister(promSummary)
	return &summaryVec{vec: promSummary}
}
