package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Booking outcomes
const (
	BookingCreated          = "created"
	BookingSlotUnavailable  = "slot_unavailable"
	BookingInvalidDateRange = "invalid_date_range"
	BookingDoctorNotFound   = "doctor_not_found"
	BookingInvalidInput     = "invalid_input"
	BookingStorageFailure   = "storage_unavailable"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	BookingAttempts     *prometheus.CounterVec
	FreeSlotsResolved   *prometheus.HistogramVec
	LockWaitDuration    prometheus.Histogram
}

// New регистрирует метрики в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		BookingAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_attempts_total",
				Help:        "Appointment booking attempts by outcome",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
		FreeSlotsResolved: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "free_slots_resolved",
				Help:        "Number of free slots returned per resolution",
				ConstLabels: constLabels,
				Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"weekday"},
		),
		LockWaitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "doctor_lock_wait_seconds",
				Help:        "Time spent waiting for the per-doctor booking lock",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingAttempts,
		m.FreeSlotsResolved,
		m.LockWaitDuration,
	)

	return m
}

// ObserveBooking учитывает результат попытки бронирования
func (m *Metrics) ObserveBooking(result string) {
	m.BookingAttempts.WithLabelValues(result).Inc()
}

// ObserveFreeSlots учитывает размер рассчитанного списка свободных слотов
func (m *Metrics) ObserveFreeSlots(weekday string, count int) {
	m.FreeSlotsResolved.WithLabelValues(weekday).Observe(float64(count))
}

// ObserveLockWait учитывает время ожидания блокировки врача
func (m *Metrics) ObserveLockWait(seconds float64) {
	m.LockWaitDuration.Observe(seconds)
}

// Nop реализация для окружений без метрик
type Nop struct{}

func (Nop) ObserveBooking(string)        {}
func (Nop) ObserveFreeSlots(string, int) {}
func (Nop) ObserveLockWait(float64)      {}
