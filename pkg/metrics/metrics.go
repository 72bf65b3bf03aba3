package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса.
// Все методы безопасно вызывать на nil-указателе (метрики выключены).
type Metrics struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Database
	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbWaitCount     *prometheus.GaugeVec

	// Domain
	bookingsCreated      *prometheus.CounterVec
	bookingTransitions   *prometheus.CounterVec
	reconciliationEvents *prometheus.CounterVec
	inventoryOversell    *prometheus.CounterVec
	slotCollisions       *prometheus.CounterVec
	expiredBookings      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings admitted, by payment method",
			ConstLabels: constLabels,
		}, []string{"method"}),
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to", "forced"}),
		reconciliationEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_reconciliation_events_total",
			Help:        "Payment events processed, by channel and outcome",
			ConstLabels: constLabels,
		}, []string{"channel", "outcome"}),
		inventoryOversell: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "inventory_oversell_total",
			Help:        "Confirmations that pushed raw availability below zero",
			ConstLabels: constLabels,
		}, []string{"room_type"}),
		slotCollisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_assignment_collisions_total",
			Help:        "Bookings that could not be placed on a free slot",
			ConstLabels: constLabels,
		}, []string{"room_type"}),
		expiredBookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "expired_bookings_total",
			Help:        "Pending bookings cancelled by the expiry worker",
			ConstLabels: constLabels,
		}, []string{}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.bookingsCreated,
		m.bookingTransitions,
		m.reconciliationEvents,
		m.inventoryOversell,
		m.slotCollisions,
		m.expiredBookings,
	)

	return m
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(db string, open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(db).Set(float64(open))
	m.dbInUseConns.WithLabelValues(db).Set(float64(inUse))
	m.dbIdleConns.WithLabelValues(db).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(db).Set(float64(waitCount))
}

// BookingCreated учитывает созданное бронирование
func (m *Metrics) BookingCreated(method string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(method).Inc()
}

// BookingTransition учитывает смену статуса бронирования
func (m *Metrics) BookingTransition(from, to string, forced bool) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(from, to, strconv.FormatBool(forced)).Inc()
}

// ReconciliationEvent учитывает обработанное платежное событие
func (m *Metrics) ReconciliationEvent(channel, outcome string) {
	if m == nil {
		return
	}
	m.reconciliationEvents.WithLabelValues(channel, outcome).Inc()
}

// InventoryOversell учитывает подтверждение сверх количества номеров
func (m *Metrics) InventoryOversell(roomTypeID int64) {
	if m == nil {
		return
	}
	m.inventoryOversell.WithLabelValues(strconv.FormatInt(roomTypeID, 10)).Inc()
}

// SlotCollisions учитывает бронирования, не уместившиеся в слоты
func (m *Metrics) SlotCollisions(roomTypeID int64, count int) {
	if m == nil || count == 0 {
		return
	}
	m.slotCollisions.WithLabelValues(strconv.FormatInt(roomTypeID, 10)).Add(float64(count))
}

// ExpiredBookings учитывает бронирования, отмененные по таймауту
func (m *Metrics) ExpiredBookings(count int) {
	if m == nil || count == 0 {
		return
	}
	m.expiredBookings.WithLabelValues().Add(float64(count))
}
