package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa las métricas del Passport Store.
// Se registra contra un Registerer propio para poder crear varios routers (tests) sin colisiones.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	PassportsCreated  prometheus.Counter
	RecordsVerified   *prometheus.CounterVec
}

// New registra las métricas en reg. Si reg es nil usa el registry global.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_passport_operations_total",
			Help: "Passport store operations by outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pet_passport_operation_duration_seconds",
			Help:    "Duration of passport store operations, ledger round-trip included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		PassportsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "pet_passport_created_total",
			Help: "Total number of passports created",
		}),
		RecordsVerified: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_passport_records_verified_total",
			Help: "Log entries transitioned to verified, by record kind",
		}, []string{"kind"}),
	}
}

// Observe registra resultado y duración de una operación.
// Llamar con time.Now() tomado al inicio.
func (m *Metrics) Observe(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementPassportCreated() {
	if m == nil {
		return
	}
	m.PassportsCreated.Inc()
}

func (m *Metrics) IncrementVerified(kind string) {
	if m == nil {
		return
	}
	m.RecordsVerified.WithLabelValues(kind).Inc()
}
