// Package metrics exposes Prometheus metrics for token issuance.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JeanGrijp/csrf-token-server/csrf"
)

// Failure reasons used as label values.
const (
	ReasonMissingDomain = "missing_domain"
	ReasonInvalidDomain = "invalid_domain"
	ReasonInternal      = "internal"
)

// Registry holds the issuance metrics on a private prometheus.Registry.
// It implements csrf.Observer.
type Registry struct {
	reg *prometheus.Registry

	issued    prometheus.Counter
	errors    *prometheus.CounterVec
	duration  prometheus.Histogram
	buildInfo *prometheus.GaugeVec
}

// NewRegistry creates and registers all metrics.
func NewRegistry(version string) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csrf_tokens_issued_total",
			Help: "Total number of issued token/checksum cookie pairs",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csrf_issue_errors_total",
			Help: "Issuance failures by reason",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "csrf_issue_duration_seconds",
			Help:    "Time spent issuing a token pair",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "csrf_build_info",
			Help: "Build information",
		}, []string{"version"}),
	}

	r.reg.MustRegister(
		r.issued,
		r.errors,
		r.duration,
		r.buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.buildInfo.WithLabelValues(version).Set(1)

	// pre-create label series so they show up as zero
	r.errors.WithLabelValues(ReasonMissingDomain)
	r.errors.WithLabelValues(ReasonInvalidDomain)
	r.errors.WithLabelValues(ReasonInternal)

	return r
}

// Issued implements csrf.Observer.
func (r *Registry) Issued(_ *http.Request, elapsed time.Duration) {
	r.issued.Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Failed implements csrf.Observer.
func (r *Registry) Failed(_ *http.Request, err error) {
	r.errors.WithLabelValues(Reason(err)).Inc()
}

// Reason maps an issuance error to its label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, csrf.ErrMissingDomain):
		return ReasonMissingDomain
	case errors.Is(err, csrf.ErrInvalidDomain):
		return ReasonInvalidDomain
	}
	return ReasonInternal
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
