// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lessonforge"

// Metrics owns a private registry; New may be called more than once.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	AnswersSubmitted *prometheus.CounterVec
	HeartsLost       prometheus.Counter
	QuizzesStarted   prometheus.Counter
	QuizzesCompleted prometheus.Counter
	QuizzesAborted   prometheus.Counter
	XPAwarded        prometheus.Counter
	LevelUps         prometheus.Counter
	BadgesAwarded    prometheus.Counter
	SideEffectErrors *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		AnswersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_answers_total",
			Help:      "Graded answers by correctness.",
		}, []string{"correct"}),
		HeartsLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hearts_lost_total",
			Help:      "Hearts taken for incorrect answers.",
		}),
		QuizzesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_started_total",
			Help:      "Quiz sessions started.",
		}),
		QuizzesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_completed_total",
			Help:      "Quiz sessions that reached completion.",
		}),
		QuizzesAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_aborted_total",
			Help:      "Quiz sessions ended early because hearts ran out.",
		}),
		XPAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_awarded_total",
			Help:      "Experience points granted on completion.",
		}),
		LevelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Level promotions.",
		}),
		BadgesAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "badges_awarded_total",
			Help:      "Newly earned badges.",
		}),
		SideEffectErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_step_errors_total",
			Help:      "Failed completion steps by step name.",
		}, []string{"step"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_active",
			Help:      "Quiz sessions held in memory.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.AnswersSubmitted,
		m.HeartsLost,
		m.QuizzesStarted,
		m.QuizzesCompleted,
		m.QuizzesAborted,
		m.XPAwarded,
		m.LevelUps,
		m.BadgesAwarded,
		m.SideEffectErrors,
		m.ActiveSessions,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveAnswer records a graded answer.
func (m *Metrics) ObserveAnswer(correct bool) {
	m.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
	if !correct {
		m.HeartsLost.Inc()
	}
}

// StepFailed counts a failed best-effort completion step.
func (m *Metrics) StepFailed(step string) {
	m.SideEffectErrors.WithLabelValues(step).Inc()
}
