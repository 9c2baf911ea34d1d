package metrics

// MetricsCollector is the factory interface for creating application metrics.
// It is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// CreateCounter creates and registers a counter metric.
	CreateCounter(name, help string, labels []string) Counter

	// CreateGauge creates and registers a gauge metric.
	CreateGauge(name, help string, labels []string) Gauge

	// CreateHistogram creates and registers a histogram metric with the
	// given buckets.
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram

	// CreateSummary creates and registers a summary metric with the given
	// quantile objectives.
	CreateSummary(name, help string, labels []string, objectives map[float64]float64) Summary
}

// Counter represents a cumulative metric that only increases.
type Counter interface {
	// WithLabelValues returns the Counter for the given label values.
	WithLabelValues(lvs ...string) Counter

	// Inc increments the counter by 1.
	Inc()

	// Add adds the given value to the counter. The value must be >= 0.
	Add(val float64)
}

// Gauge represents a metric that can arbitrarily go up and down.
type Gauge interface {
	// WithLabelValues returns the Gauge for the given label values.
	WithLabelValues(lvs ...string) Gauge

	// Set sets the gauge to an arbitrary value.
	Set(val float64)

	// Inc increments the gauge by 1.
	Inc()

	// Dec decrements the gauge by 1.
	Dec()

	// Add adds the given value to the gauge.
	Add(val float64)

	// Sub subtracts the given value from the gauge.
	Sub(val float64)

	// SetToCurrentTime sets the gauge to the current Unix timestamp in seconds.
	SetToCurrentTime()
}

// Histogram tracks the distribution of observations, such as request
// durations or payload sizes.
type Histogram interface {
	// WithLabelValues returns the Observer for the given label values.
	WithLabelValues(lvs ...string) Observer

	// Observe adds a single observation to the histogram.
	Observe(val float64)
}

// Summary calculates streaming quantiles of observed values on the client side.
type Summary interface {
	// WithLabelValues returns the Observer for the given label values.
	WithLabelValues(lvs ...string) Observer

	// Observe adds a single observation to the summary.
	Observe(val float64)
}

// Observer is the common interface for metrics that observe values.
type Observer interface {
	// Observe adds a single observation to the metric.
	Observe(val float64)
}
