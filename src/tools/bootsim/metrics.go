package bootsim

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the counters of simulated boots, on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	boots      prometheus.Counter
	started    prometheus.Counter
	released   prometheus.Counter
	exceptions *prometheus.CounterVec
	halts      *prometheus.CounterVec
	interrupts prometheus.Counter
	duration   prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		boots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bootsim_boots_total",
			Help: "Simulated boots run.",
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bootsim_cores_started_total",
			Help: "Cores that reached the startup hook.",
		}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bootsim_cores_released_total",
			Help: "Secondary cores whose boot slot was written.",
		}),
		exceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bootsim_exceptions_total",
			Help: "Exceptions dispatched, by kind and condition.",
		}, []string{"kind", "condition"}),
		halts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bootsim_halts_total",
			Help: "Cores halted, by reason.",
		}, []string{"reason"}),
		interrupts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bootsim_interrupts_serviced_total",
			Help: "Interrupts with pending sources passed to the interrupt controller's handler.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bootsim_boot_duration_seconds",
			Help:    "Time until every core was running, halted or given up on.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.boots, m.started, m.released, m.exceptions, m.halts, m.interrupts, m.duration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
