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
	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec
	DBWaitDurationTotal *prometheus.GaugeVec

	// Бизнес-метрики
	ReservationsTotal         *prometheus.CounterVec
	StatusTransitionsTotal    *prometheus.CounterVec
	BatchImportRowsTotal      *prometheus.CounterVec
	ExternalSyncIntervals     *prometheus.GaugeVec
	EventPublishFailuresTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitDurationTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_duration_seconds_total",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: constLabels,
		}, []string{"db"}),

		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reservations_total",
			Help:        "Reservation attempts by outcome (created, conflict, policy, invalid, error)",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),

		StatusTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_transitions_total",
			Help:        "Booking lifecycle transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		BatchImportRowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_batch_import_rows_total",
			Help:        "Batch import rows by stage and result",
			ConstLabels: constLabels,
		}, []string{"stage", "result"}),

		ExternalSyncIntervals: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "booking_external_busy_intervals",
			Help:        "Busy intervals stored by the last external calendar sync",
			ConstLabels: constLabels,
		}, []string{"owner"}),

		EventPublishFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_event_publish_failures_total",
			Help:        "Booking change events that could not be published",
			ConstLabels: constLabels,
		}, []string{"type"}),
	}
}

// Хелперы бизнес-метрик безопасны для nil: метрики могут быть выключены

// ObserveReservation учитывает попытку резервирования
func (m *Metrics) ObserveReservation(operation, outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveTransition учитывает смену статуса бронирования
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveBatchRow учитывает строку пакетного импорта
func (m *Metrics) ObserveBatchRow(stage, result string) {
	if m == nil {
		return
	}
	m.BatchImportRowsTotal.WithLabelValues(stage, result).Inc()
}

// SetExternalIntervals количество интервалов после синхронизации владельца
func (m *Metrics) SetExternalIntervals(owner string, count int) {
	if m == nil {
		return
	}
	m.ExternalSyncIntervals.WithLabelValues(owner).Set(float64(count))
}

// Исходы резервирования (метка outcome)
const (
	OutcomeCreated     = "created"
	OutcomeRescheduled = "rescheduled"
	OutcomeConflict    = "conflict"
	OutcomePolicy      = "policy"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
)
