package controller

import (
	"github.com/Seann-Moser/ledpin/pkg/led"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry
	state    *prometheus.GaugeVec
	writes   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ledpin",
			Subsystem: "led",
			Name:      "state",
			Help:      "Current LED level, 1 for on and 0 for off",
		}, []string{"led"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledpin",
			Subsystem: "led",
			Name:      "writes_total",
			Help:      "Pin writes per LED and action",
		}, []string{"led", "action"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledpin",
			Subsystem: "led",
			Name:      "write_failures_total",
			Help:      "Pin writes rejected by the backend",
		}, []string{"led"}),
	}
	m.registry.MustRegister(m.state, m.writes, m.failures)
	return m
}

func (m *metrics) observe(name string, level led.Level) {
	v := 0.0
	if level == led.Active {
		v = 1
	}
	m.state.WithLabelValues(name).Set(v)
}
