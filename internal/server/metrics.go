package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/teachback/internal/feedback"
)

// Metrics counts session activity and HTTP traffic. It implements
// session.Observer so controllers report into it directly.
type Metrics struct {
	registry *prometheus.Registry

	turns    *prometheus.CounterVec
	sessions *prometheus.CounterVec
	failures *prometheus.CounterVec
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teachback",
			Name:      "dialogue_turns_total",
			Help:      "Learner turns in the teach phase, by whether the student understood.",
		}, []string{"understood"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teachback",
			Name:      "sessions_completed_total",
			Help:      "Sessions that reached feedback, by grade.",
		}, []string{"grade"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teachback",
			Name:      "content_failures_total",
			Help:      "Failed collaborator calls, by operation.",
		}, []string{"op"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teachback",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "teachback",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(m.turns, m.sessions, m.failures, m.requests, m.latency)
	return m
}

func (m *Metrics) TurnTaken(understood bool) {
	m.turns.WithLabelValues(strconv.FormatBool(understood)).Inc()
}

func (m *Metrics) SessionCompleted(grade feedback.Grade) {
	m.sessions.WithLabelValues(string(grade)).Inc()
}

func (m *Metrics) ContentFailed(op string) {
	m.failures.WithLabelValues(op).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument records request counts and latency under the matched route
// template, so ids in paths do not explode the label space.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		timer := prometheus.NewTimer(m.latency.WithLabelValues(route))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		timer.ObserveDuration()

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
