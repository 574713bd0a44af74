// Package metrics counts lifecycle events and sales for prometheus.
package metrics

import (
	"context"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pickleball"

type Recorder struct {
	registry       *prometheus.Registry
	lifecycle      *prometheus.CounterVec
	purchaseAmount *prometheus.CounterVec
}

// NewRecorder builds a recorder on its own registry, with Go and process collectors attached.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lifecycle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_events_total",
			Help:      "Lifecycle transitions by event kind.",
		}, []string{"kind"}),
		purchaseAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_amount_total",
			Help:      "Gross amount of completed checkouts.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.lifecycle,
		r.purchaseAmount,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handle is an events.Handler.
func (r *Recorder) Handle(_ context.Context, event events.Event) {
	r.lifecycle.WithLabelValues(string(event.Kind)).Inc()
	if (event.Kind == events.MaterialPurchased || event.Kind == events.CoursePurchased) && event.Amount > 0 {
		r.purchaseAmount.WithLabelValues(string(event.Kind)).Add(event.Amount)
	}
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
