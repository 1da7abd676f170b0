package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для вызова на nil (метрики выключены)
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	TransitionsTotal     *prometheus.CounterVec
	AllocationConflicts  *prometheus.CounterVec
	SiblingsAutoDeclined *prometheus.CounterVec
	InvoicesCreated      *prometheus.CounterVec
	SettlementRetries    *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в default registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в указанном registry
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "negotiation_transitions_total",
			Help: "Negotiation transitions by action and result",
		}, []string{"service", "action", "result"}),

		AllocationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_conflicts_total",
			Help: "Acceptance attempts rejected because the slot was already taken",
		}, []string{"service"}),

		SiblingsAutoDeclined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allocation_siblings_declined_total",
			Help: "Requests auto-declined by the allocation resolver",
		}, []string{"service", "reason"}),

		InvoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_invoices_created_total",
			Help: "Invoices created on training completion",
		}, []string{"service"}),

		SettlementRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_retries_enqueued_total",
			Help: "Failed settlements enqueued for retry",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.TransitionsTotal,
		m.AllocationConflicts,
		m.SiblingsAutoDeclined,
		m.InvoicesCreated,
		m.SettlementRetries,
	)

	return m
}

// ObserveTransition учитывает попытку перехода переговоров
func (m *Metrics) ObserveTransition(action, result string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(m.serviceName, action, result).Inc()
}

// IncAllocationConflict учитывает проигранную гонку за слот
func (m *Metrics) IncAllocationConflict() {
	if m == nil {
		return
	}
	m.AllocationConflicts.WithLabelValues(m.serviceName).Inc()
}

// AddSiblingsDeclined учитывает автоматически отклоненные заявки
func (m *Metrics) AddSiblingsDeclined(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.SiblingsAutoDeclined.WithLabelValues(m.serviceName, reason).Add(float64(count))
}

// IncInvoiceCreated учитывает созданный счет
func (m *Metrics) IncInvoiceCreated() {
	if m == nil {
		return
	}
	m.InvoicesCreated.WithLabelValues(m.serviceName).Inc()
}

// IncSettlementRetry учитывает постановку расчета в очередь повторов
func (m *Metrics) IncSettlementRetry() {
	if m == nil {
		return
	}
	m.SettlementRetries.WithLabelValues(m.serviceName).Inc()
}
