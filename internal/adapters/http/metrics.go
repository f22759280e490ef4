package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments the webhook host exports.
type Metrics struct {
	DocumentsRendered *prometheus.CounterVec
	RenderErrors      *prometheus.CounterVec
	RenderDuration    *prometheus.HistogramVec
}

// NewMetrics creates the host metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twiml_documents_rendered_total",
				Help: "Total number of TwiML documents rendered",
			},
			[]string{"flow"},
		),
		RenderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twiml_render_errors_total",
				Help: "Total number of renders that failed",
			},
			[]string{"flow"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "twiml_render_duration_seconds",
				Help: "Duration of flow renders",
			},
			[]string{"flow"},
		),
	}
	reg.MustRegister(m.DocumentsRendered, m.RenderErrors, m.RenderDuration)
	return m
}
