package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal    *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec

	// События
	EventsPublishedTotal *prometheus.CounterVec
	EventsHandledTotal   *prometheus.CounterVec

	// Распределение мест
	AllocationsTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре (его отдает promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}, []string{"db"}),
		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}, []string{"db"}),
		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}, []string{"db"}),

		EventsPublishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "domain_events_published_total",
			Help:        "Domain events published to the bus",
			ConstLabels: labels,
		}, []string{"kind"}),
		EventsHandledTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "domain_events_handled_total",
			Help:        "Domain events processed by the worker",
			ConstLabels: labels,
		}, []string{"kind", "status"}),

		AllocationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "parking_allocations_total",
			Help:        "Booking allocation outcomes",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}
}

// ObserveEventPublished увеличивает счетчик опубликованных событий
func (m *Metrics) ObserveEventPublished(kind string) {
	if m == nil {
		return
	}
	m.EventsPublishedTotal.WithLabelValues(kind).Inc()
}

// ObserveEventHandled фиксирует результат обработки события воркером
func (m *Metrics) ObserveEventHandled(kind string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsHandledTotal.WithLabelValues(kind, status).Inc()
}

// ObserveAllocation фиксирует исход распределения: accommodated или refused
func (m *Metrics) ObserveAllocation(outcome string) {
	if m == nil {
		return
	}
	m.AllocationsTotal.WithLabelValues(outcome).Inc()
}
