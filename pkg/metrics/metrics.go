package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	BookingAdmissions *prometheus.CounterVec
	SlotQueries       *prometheus.CounterVec
	CacheRequests     *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		BookingAdmissions: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_admissions_total",
			Help:        "Booking admission outcomes by error kind",
			ConstLabels: constLabels,
		}, []string{"result"}),
		SlotQueries: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_queries_total",
			Help:        "Availability queries by calendar source",
			ConstLabels: constLabels,
		}, []string{"source"}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_requests_total",
			Help:        "Read cache lookups",
			ConstLabels: constLabels,
		}, []string{"result"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_events_published_total",
			Help:        "Booking lifecycle events sent to the broker",
			ConstLabels: constLabels,
		}, []string{"type", "result"}),
	}
}
