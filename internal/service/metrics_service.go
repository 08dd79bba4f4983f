package service

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/shiftwise-api/internal/models"
)

// Mutation outcomes recorded on shift_mutations_total.
const (
	MutationResultOK       = "ok"
	MutationResultConflict = "conflict"
	MutationResultRejected = "rejected"
	MutationResultError    = "error"
)

// MetricsService owns the Prometheus registry. A nil *MetricsService is a valid no-op.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	shiftMutations  *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	reportJobs      *prometheus.CounterVec
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by outcome",
		}, []string{"result"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency of cache reads and writes",
			Buckets: prometheus.DefBuckets,
		}),
		shiftMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_mutations_total",
			Help: "Shift creations and reassignments by outcome",
		}, []string{"op", "result"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_reconciliations_total",
			Help: "Rows produced by attendance reconciliation runs, by status",
		}, []string{"status"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		reportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_jobs_total",
			Help: "Attendance export jobs by final status",
		}, []string{"status"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Number of live goroutines",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLookups, m.cacheLatency,
		m.shiftMutations, m.reconciliations, m.dbQueryDuration, m.reportJobs, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the exposition format, or 503 when metrics are disabled.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry is exposed for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *MetricsService) RecordCacheLookup(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
	m.cacheLatency.Observe(duration.Seconds())
}

func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
}

// RecordShiftMutation counts op ("create", "reassign") by result.
func (m *MetricsService) RecordShiftMutation(op, result string) {
	if m == nil {
		return
	}
	m.shiftMutations.WithLabelValues(op, result).Inc()
}

// RecordReconciliation counts the rows of one reconciliation run.
func (m *MetricsService) RecordReconciliation(records []models.AttendanceRecord) {
	if m == nil {
		return
	}
	for _, r := range records {
		m.reconciliations.WithLabelValues(string(r.Status)).Inc()
	}
}

func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func (m *MetricsService) RecordReportJob(status models.ReportStatus) {
	if m == nil {
		return
	}
	m.reportJobs.WithLabelValues(string(status)).Inc()
}

// mutationResult classifies an error for shift_mutations_total.
func mutationResult(err error) string {
	switch {
	case err == nil:
		return MutationResultOK
	case isConflict(err):
		return MutationResultConflict
	case isClientError(err):
		return MutationResultRejected
	default:
		return MutationResultError
	}
}

// InstrumentPersister times shift writes on db_query_duration_seconds.
func InstrumentPersister(persist ShiftPersister, metrics *MetricsService) ShiftPersister {
	if persist == nil || metrics == nil {
		return persist
	}
	return timedPersister{next: persist, metrics: metrics}
}

type timedPersister struct {
	next    ShiftPersister
	metrics *MetricsService
}

func (p timedPersister) Insert(ctx context.Context, shift models.Shift) error {
	start := time.Now()
	defer func() { p.metrics.ObserveDBQuery("shift_insert", time.Since(start)) }()
	return p.next.Insert(ctx, shift)
}

func (p timedPersister) Update(ctx context.Context, shift models.Shift) error {
	start := time.Now()
	defer func() { p.metrics.ObserveDBQuery("shift_update", time.Since(start)) }()
	return p.next.Update(ctx, shift)
}
