package observability

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type MetricsConfig struct {
	Enabled bool
	// LatencyThreshold is the API latency SLO: faster requests count as good.
	LatencyThreshold time.Duration
	// SampleInterval paces the database pool and redis samplers.
	SampleInterval time.Duration
	SLO            SLOConfig
}

func (c MetricsConfig) withDefaults() MetricsConfig {
	if c.LatencyThreshold <= 0 {
		c.LatencyThreshold = 500 * time.Millisecond
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = 10 * time.Second
	}
	c.SLO = c.SLO.withDefaults()
	return c
}

// Metrics is the process metric set exposed on /metrics. A nil *Metrics is a
// valid disabled set: every method on it is a no-op.
type Metrics struct {
	cfg      MetricsConfig
	families []promWriter

	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiAll      *Counter
	api5xx      *Counter
	apiFast     *Counter

	writeOps       *CounterVec
	writeLatency   *HistogramVec
	writeRejected  *CounterVec
	writeAll       *Counter
	writeServerErr *Counter

	authEvents   *CounterVec
	tokenCache   *CounterVec
	chartRenders *HistogramVec

	dbPool    *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	sloCompliance *GaugeVec
	sloBudget     *GaugeVec
	sloBurn       *GaugeVec
}

var (
	initOnce sync.Once
	current  *Metrics
)

// Init builds the process-wide metric set once. It returns nil when
// cfg.Enabled is false.
func Init(log *logger.Logger, cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	initOnce.Do(func() {
		current = newMetrics(cfg)
		if log != nil {
			log.Info("Metrics enabled", "latency_slo", current.cfg.LatencyThreshold.String(), "slo_eval", current.cfg.SLO.Enabled)
		}
	})
	return current
}

// Current returns the set built by Init, or nil.
func Current() *Metrics { return current }

var (
	httpBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	writeBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2}
	chartBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}
)

func newMetrics(cfg MetricsConfig) *Metrics {
	m := &Metrics{cfg: cfg.withDefaults()}
	reg := func(p promWriter) { m.families = append(m.families, p) }
	counterVec := func(name, help string, labels ...string) *CounterVec {
		v := NewCounterVec(name, help, labels)
		reg(v)
		return v
	}
	counter := func(name, help string) *Counter {
		v := NewCounter(name, help)
		reg(v)
		return v
	}
	histogram := func(name, help string, buckets []float64, labels ...string) *HistogramVec {
		v := NewHistogramVec(name, help, labels, buckets)
		reg(v)
		return v
	}
	gauge := func(name, help string) *Gauge {
		v := NewGauge(name, help)
		reg(v)
		return v
	}
	gaugeVec := func(name, help string, labels ...string) *GaugeVec {
		v := NewGaugeVec(name, help, labels)
		reg(v)
		return v
	}

	m.apiRequests = counterVec("dp_api_requests_total", "API requests by method, route and status.", "method", "route", "status")
	m.apiLatency = histogram("dp_api_request_duration_seconds", "API request latency by method, route and status.", httpBuckets, "method", "route", "status")
	m.apiInflight = gauge("dp_api_inflight_requests", "API requests being served.")
	m.apiAll = counter("dp_api_requests_total_all", "API requests of any route.")
	m.api5xx = counter("dp_api_requests_error_total", "API requests answered with a 5xx status.")
	m.apiFast = counter("dp_api_requests_good_latency_total", "API requests within the latency SLO.")

	m.writeOps = counterVec("dp_aggregate_operations_total", "Planner writes by operation and outcome.", "op", "status")
	m.writeLatency = histogram("dp_aggregate_operation_duration_seconds", "Planner write latency by operation and outcome.", writeBuckets, "op", "status")
	m.writeRejected = counterVec("dp_aggregate_rejections_total", "Planner writes rejected, by operation and code.", "op", "code")
	m.writeAll = counter("dp_aggregate_operations_total_all", "Planner writes of any operation.")
	m.writeServerErr = counter("dp_aggregate_operations_failed_total", "Planner writes that failed on the server side.")

	m.authEvents = counterVec("dp_auth_events_total", "Authentication events by type.", "event")
	m.tokenCache = counterVec("dp_token_cache_total", "Access token cache lookups by result.", "result")
	m.chartRenders = histogram("dp_chart_render_duration_seconds", "Day chart render time by format.", chartBuckets, "format")

	m.dbPool = gaugeVec("dp_db_stats", "Database connection pool stats.", "metric")
	m.redisUp = gauge("dp_redis_up", "Redis reachable on the last ping (1 or 0).")
	m.redisPing = gauge("dp_redis_ping_seconds", "Latency of the last redis ping.")

	m.sloCompliance = gaugeVec("dp_slo_compliance", "SLI over the SLO window.", "slo", "window")
	m.sloBudget = gaugeVec("dp_slo_error_budget_remaining", "Error budget left in the window (0-1).", "slo", "window")
	m.sloBurn = gaugeVec("dp_slo_burn_rate", "Error budget burn rate over the window.", "slo", "window")
	return m
}

// WriteHTTP serves the text exposition format.
func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		http.Error(w, "metrics disabled", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, f := range m.families {
		if err := f.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// ObserveAPI records one finished HTTP request under its route template.
func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.apiRequests.Inc(method, route, code)
	m.apiLatency.Observe(dur.Seconds(), method, route, code)
	m.apiAll.Inc()
	if status >= 500 {
		m.api5xx.Inc()
	}
	if dur <= m.cfg.LatencyThreshold {
		m.apiFast.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Add(1)
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Add(-1)
	}
}

// ObserveAggregateOperation records one planner write. Only internal and
// retryable outcomes count against the write success SLO.
func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.writeOps.Inc(op, status)
	m.writeLatency.Observe(dur.Seconds(), op, status)
	m.writeAll.Inc()
	if status == "internal" || status == "retryable" {
		m.writeServerErr.Inc()
	}
}

// IncAggregateRejection counts a failed write under its error code.
func (m *Metrics) IncAggregateRejection(op, code string) {
	if m != nil {
		m.writeRejected.Inc(op, code)
	}
}

// IncAuthEvent counts register/login/refresh/logout outcomes.
func (m *Metrics) IncAuthEvent(event string) {
	if m != nil {
		m.authEvents.Inc(event)
	}
}

func (m *Metrics) IncTokenCache(result string) {
	if m != nil {
		m.tokenCache.Inc(result)
	}
}

func (m *Metrics) ObserveChartRender(format string, dur time.Duration) {
	if m != nil {
		m.chartRenders.Observe(dur.Seconds(), format)
	}
}
