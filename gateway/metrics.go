package gateway

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rpc-gateway/gateway/domain"
)

// Metrics agrega os contadores Prometheus do gateway.
type Metrics struct {
	DispatchTotal *prometheus.CounterVec
}

// NewMetrics cria e registra as métricas no Registerer informado.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Subsystem: "dispatch",
				Name:      "total",
				Help:      "Total number of dispatched requests by event and result code",
			},
			[]string{"event", "code"},
		),
	}
}

// Observe registra o resultado de um despacho. Seguro com receiver nil.
func (m *Metrics) Observe(event string, code domain.Code) {
	if m == nil {
		return
	}
	if event == "" {
		event = "ping"
	}
	m.DispatchTotal.WithLabelValues(event, strconv.Itoa(int(code))).Inc()
}
