package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "quirk"

// Metrics are the composite's collectors. A nil *Metrics records nothing.
type Metrics struct {
	Applies      *prometheus.CounterVec
	Steps        *prometheus.CounterVec
	Degradations prometheus.Counter
	PlanBuilds   prometheus.Counter
	Errors       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "applies_total",
			Help: "Corruption calls by input shape.",
		}, []string{"input"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "steps_total",
			Help: "Executed plan steps by kind and backend.",
		}, []string{"kind", "backend"}),
		Degradations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "degradations_total",
			Help: "Batches rerun on the reference backend because the fast backend was unavailable.",
		}),
		PlanBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "plan_builds_total",
			Help: "Execution plans built (cache misses).",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "errors_total",
			Help: "Failed corruption calls by error class.",
		}, []string{"class"}),
	}
	for _, c := range []prometheus.Collector{m.Applies, m.Steps, m.Degradations, m.PlanBuilds, m.Errors} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("telemetry: register: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) Apply(input string) {
	if m != nil {
		m.Applies.WithLabelValues(input).Inc()
	}
}

func (m *Metrics) Step(kind, backend string) {
	if m != nil {
		m.Steps.WithLabelValues(kind, backend).Inc()
	}
}

func (m *Metrics) Degraded() {
	if m != nil {
		m.Degradations.Inc()
	}
}

func (m *Metrics) PlanBuilt() {
	if m != nil {
		m.PlanBuilds.Inc()
	}
}

func (m *Metrics) Error(class string) {
	if m != nil {
		m.Errors.WithLabelValues(class).Inc()
	}
}

// Expose serves the gatherer on :port/metrics in the background.
func Expose(port int, g prometheus.Gatherer, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
}
