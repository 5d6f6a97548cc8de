package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *HistogramVec
	apiInflight      *Gauge
	analysisRuns     *CounterVec
	analysisDuration *HistogramVec
	analysisOutputs  *CounterVec
	writeFailures    *CounterVec
	dispatches       *CounterVec
	pgStats          *GaugeVec
	redisUp          *Gauge
	redisPing        *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool { return envutil.Bool("METRICS_ENABLED", false) }

// Current is nil until Init ran with metrics enabled. Every method tolerates a
// nil receiver.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered metric set.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("vt_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"vt_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight:  NewGauge("vt_api_inflight_requests", "In-flight API requests."),
		analysisRuns: NewCounterVec("vt_analysis_runs_total", "Analysis runs by kind/status.", []string{"kind", "status"}),
		analysisDuration: NewHistogramVec(
			"vt_analysis_duration_seconds",
			"Per-user analysis duration in seconds by kind.",
			[]string{"kind"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		analysisOutputs: NewCounterVec("vt_analysis_outputs_total", "Rows produced by analysis kind.", []string{"kind"}),
		writeFailures:   NewCounterVec("vt_write_failures_total", "Per-item write failures by kind/class.", []string{"kind", "class"}),
		dispatches:      NewCounterVec("vt_moment_dispatch_total", "Micro-moment dispatches by channel/status.", []string{"channel", "status"}),
		pgStats:         NewGaugeVec("vt_postgres_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:         NewGauge("vt_redis_up", "1 when the last redis ping succeeded."),
		redisPing:       NewGauge("vt_redis_ping_seconds", "Last redis ping latency."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.analysisRuns, m.analysisDuration, m.analysisOutputs,
		m.writeFailures, m.dispatches,
		m.pgStats, m.redisUp, m.redisPing,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// BeginRequest counts one in-flight API request; the returned func records
// its outcome and must be called exactly once.
func (m *Metrics) BeginRequest() func(method, route string, status int) {
	if m == nil {
		return func(string, string, int) {}
	}
	start := time.Now()
	m.apiInflight.Add(1)
	return func(method, route string, status int) {
		m.apiInflight.Add(-1)
		m.ObserveAPI(method, route, strconv.Itoa(status), time.Since(start))
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

// ObserveAnalysis records one per-user engine run. kind is correlation,
// prediction or micromoment.
func (m *Metrics) ObserveAnalysis(kind, status string, outputs int, dur time.Duration) {
	if m == nil {
		return
	}
	m.analysisRuns.Inc(kind, status)
	m.analysisDuration.Observe(dur.Seconds(), kind)
	if outputs > 0 {
		m.analysisOutputs.Add(float64(outputs), kind)
	}
}

func (m *Metrics) IncWriteFailure(kind, class string) {
	if m == nil {
		return
	}
	m.writeFailures.Inc(kind, class)
}

func (m *Metrics) IncDispatch(channel, status string) {
	if m == nil {
		return
	}
	m.dispatches.Inc(channel, status)
}

// every runs fn on the scrape interval until ctx ends.
func every(ctx context.Context, fn func(ctx context.Context)) {
	interval := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

// StartPostgresCollector exports the pool stats behind the record store.
func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	every(ctx, func(context.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("metrics: pool stats unavailable", "error", err)
			return
		}
		st := sqlDB.Stats()
		for stat, v := range map[string]float64{
			"open_connections":      float64(st.OpenConnections),
			"in_use":                float64(st.InUse),
			"idle":                  float64(st.Idle),
			"wait_count":            float64(st.WaitCount),
			"wait_duration_seconds": st.WaitDuration.Seconds(),
		} {
			m.pgStats.Set(v, stat)
		}
	})
}

// StartRedisCollector pings the client shared by the weather cache and the
// moment bus; it does not own or close it.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	every(ctx, func(ctx context.Context) {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.Set(0)
			log.Warn("metrics: redis ping failed", "error", err)
			return
		}
		m.redisUp.Set(1)
		m.redisPing.Set(time.Since(start).Seconds())
	})
}
