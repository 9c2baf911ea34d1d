package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// counterVec wraps prometheus.CounterVec to implement the Counter interface.
type counterVec struct {
	vec *prometheus.CounterVec
}

func (c *counterVec) WithLabelValues(lvs ...string) Counter {
	return &counter{metric: c.vec.WithLabelValues(lvs...)}
}

func (c *counterVec) Inc() {
	c.vec.WithLabelValues().Inc()
}

func (c *counterVec) Add(val float64) {
	c.vec.WithLabelValues().Add(val)
}

// counter wraps an already-labeled prometheus.Counter.
type counter struct {
	metric prometheus.Counter
}

func (c *counter) WithLabelValues(lvs ...string) Counter {
	// Already labeled; returned for interface compliance.
	return c
}

func (c *counter) Inc() {
	c.metric.Inc()
}

func (c *counter) Add(val float64) {
	c.metric.Add(val)
}

// gaugeVec wraps prometheus.GaugeVec to implement the Gauge interface.
type gaugeVec struct {
	vec *prometheus.GaugeVec
}

func (g *gaugeVec) WithLabelValues(lvs ...string) Gauge {
	return &gauge{metric: g.vec.WithLabelValues(lvs...)}
}

func (g *gaugeVec) Set(val float64) {
	g.vec.WithLabelValues().Set(val)
}

func (g *gaugeVec) Inc() {
	g.vec.WithLabelValues().Inc()
}

func (g *gaugeVec) Dec() {
	g.vec.WithLabelValues().Dec()
}

func (g *gaugeVec) Add(val float64) {
	g.vec.WithLabelValues().Add(val)
}

func (g *gaugeVec) Sub(val float64) {
	g.vec.WithLabelValues().Sub(val)
}

func (g *gaugeVec) SetToCurrentTime() {
	g.vec.WithLabelValues().SetToCurrentTime()
}

// gauge wraps an already-labeled prometheus.Gauge.
type gauge struct {
	metric prometheus.Gauge
}

func (g *gauge) WithLabelValues(lvs ...string) Gauge {
	// Already labeled; returned for interface compliance.
	return g
}

func (g *gauge) Set(val float64) {
	g.metric.Set(val)
}

func (g *gauge) Inc() {
	g.metric.Inc()
}

func (g *gauge) Dec() {
	g.metric.Dec()
}

func (g *gauge) Add(val float64) {
	g.metric.Add(val)
}

func (g *gauge) Sub(val float64) {
	g.metric.Sub(val)
}

func (g *gauge) SetToCurrentTime() {
	g.metric.SetToCurrentTime()
}

// histogramVec wraps prometheus.HistogramVec to implement the Histogram interface.
type histogramVec struct {
	vec *prometheus.HistogramVec
}

func (h *histogramVec) WithLabelValues(lvs ...string) Observer {
	return &observer{metric: h.vec.WithLabelValues(lvs...)}
}

func (h *histogramVec) Observe(val float64) {
	h.vec.WithLabelValues().Observe(val)
}

// summaryVec wraps prometheus.SummaryVec to implement the Summary interface.
type summaryVec struct {
	vec *prometheus.SummaryVec
}

func (s *summaryVec) WithLabelValues(lvs ...string) Observer {
	return &observer{metric: s.vec.WithLabelValues(lvs...)}
}

func (s *summaryVec) Observe(val float64) {
	s.vec.WithLabelValues().Observe(val)
}

// observer wraps prometheus.Observer.
type observer struct {
	metric prometheus.Observer
}

func (o *observer) Observe(val float64) {
	o.metric.Observe(val)
}
