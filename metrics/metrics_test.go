package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetrics(Config{
		SystemMetricsAddress:      Ptr(""),
		ApplicationMetricsAddress: Ptr("127.0.0.1:0"),
		ServiceName:               "test-service",
	})
}

func findFamily(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.ApplicationRegistry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, l := range metric.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestNewMetrics_Defaults(t *testing.T) {
	t.Parallel()

	m := NewMetrics(Config{ServiceName: "svc"})

	require.NotNil(t, m.SystemServer)
	require.NotNil(t, m.ApplicationServer)
	assert.Equal(t, DefaultSystemMetricsAddress, m.SystemServer.Addr)
	assert.Equal(t, DefaultApplicationMetricsAddress, m.ApplicationServer.Addr)
}

func TestNewMetrics_DisabledEndpoints(t *testing.T) {
	t.Parallel()

	m := NewMetrics(Config{
		SystemMetricsAddress:      Ptr(""),
		ApplicationMetricsAddress: Ptr(""),
	})

	assert.Nil(t, m.SystemServer)
	assert.Nil(t, m.ApplicationServer)
	assert.Nil(t, m.SystemRegistry)
	assert.Nil(t, m.ApplicationRegistry)
}

func TestCreateCounter_RegistersWithServiceLabel(t *testing.T) {
	t.Parallel()

	m := newTestMetrics(t)
	c := m.CreateCounter("rpc_requests_total", "Total RPC requests", []string{"method"})
	c.WithLabelValues("hello").Inc()
	c.WithLabelValues("hello").Add(2)

	family := findFamily(t, m, "rpc_requests_total")
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)

	metric := family.GetMetric()[0]
	assert.Equal(t, float64(3), metric.GetCounter().GetValue())
	assert.Equal(t, "test-service", labelValue(metric, "service"))
	assert.Equal(t, "hello", labelValue(metric, "method"))
}

func TestCreateGauge_UpAndDown(t *testing.T) {
	t.Parallel()

	m := newTestMetrics(t)
	g := m.CreateGauge("inflight_calls", "In-flight calls", []string{"topic"})

	g.WithLabelValues("orders").Set(5)
	g.WithLabelValues("orders").Inc()
	g.WithLabelValues("orders").Dec()
	g.WithLabelValues("orders").Sub(2)

	family := findFamily(t, m, "inflight_calls")
	require.NotNil(t, family)
	assert.Equal(t, float64(3), family.GetMetric()[0].GetGauge().GetValue())
}

func TestCreateHistogram_CountsObservations(t *testing.T) {
	t.Parallel()

	m := newTestMetrics(t)
	h := m.CreateHistogram("rpc_duration_seconds", "RPC duration", []string{"method"}, []float64{0.1, 1})

	h.WithLabelValues("hello").Observe(0.05)
	h.WithLabelValues("hello").Observe(0.5)

	family := findFamily(t, m, "rpc_duration_seconds")
	require.NotNil(t, family)
	assert.Equal(t, uint64(2), family.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestCreateSummary_CountsObservations(t *testing.T) {
	t.Parallel()

	m := newTestMetrics(t)
	s := m.CreateSummary("reply_latency_seconds", "Reply latency", []string{"topic"},
		map[float64]float64{0.5: 0.05, 0.99: 0.001})

	s.WithLabelValues("orders").Observe(0.2)

	family := findFamily(t, m, "reply_latency_seconds")
	require.NotNil(t, family)
	assert.Equal(t, uint64(1), family.GetMetric()[0].GetSummary().GetSampleCount())
}

func TestApplicationServer_ServesExposition(t *testing.T) {
	t.Parallel()

	m := newTestMetrics(t)
	m.CreateCounter("exposed_total", "Exposition check", nil).Inc()

	recorder := httptest.NewRecorder()
	m.ApplicationServer.Handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "exposed_total")
	assert.Contains(t, recorder.Body.String(), `service="test-service"`)
}
