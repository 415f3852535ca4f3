package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zeau"

// Recorder is safe to use as a nil pointer, every method becomes a no-op.
type Recorder struct {
	registry          *prometheus.Registry
	rateLimitChecks   *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	appendDuration    prometheus.Histogram
	apiGuardRejection prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		rateLimitChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_checks_total",
			Help:      "Record interest rate limit checks by decision.",
		}, []string{"decision"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interest_submissions_total",
			Help:      "Interest submissions by outcome.",
		}, []string{"outcome"}),
		appendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interest_append_duration_seconds",
			Help:      "Time spent appending a record to the interest sink.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		apiGuardRejection: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_guard_rejections_total",
			Help:      "Requests rejected by the per IP api rate limiter.",
		}),
	}
	reg.MustRegister(r.rateLimitChecks, r.submissions, r.appendDuration, r.apiGuardRejection)

	return r
}

func (r *Recorder) RateLimitCheck(allowed bool) {
	if r == nil {
		return
	}
	decision := "allowed"
	if !allowed {
		decision = "rejected"
	}
	r.rateLimitChecks.WithLabelValues(decision).Inc()
}

func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) AppendDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.appendDuration.Observe(d.Seconds())
}

func (r *Recorder) APIGuardRejection() {
	if r == nil {
		return
	}
	r.apiGuardRejection.Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
