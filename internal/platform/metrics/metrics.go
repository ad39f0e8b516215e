package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "onyx"

// Journal transition labels.
const (
	TransitionCreateDraft = "create_draft"
	TransitionUpdateDraft = "update_draft"
	TransitionDeleteDraft = "delete_draft"
	TransitionPost        = "post"
	TransitionReverse     = "reverse"
	TransitionVoid        = "void"
)

// Hook outcome labels.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	journalTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_transitions_total",
			Help:      "Committed journal entry lifecycle transitions",
		},
		[]string{"transition"},
	)
	hookInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_invocations_total",
			Help:      "Source hook invocations by outcome",
		},
		[]string{"hook", "outcome"},
	)
)

// RecordTransition counts a committed lifecycle transition.
func RecordTransition(transition string) {
	journalTransitions.WithLabelValues(transition).Inc()
}

// RecordHook counts a hook invocation.
func RecordHook(hook, outcome string) {
	hookInvocations.WithLabelValues(hook, outcome).Inc()
}

// HookCounter returns the counter behind RecordHook for one hook and outcome.
func HookCounter(hook, outcome string) prometheus.Counter {
	return hookInvocations.WithLabelValues(hook, outcome)
}

// TransitionCounter returns the counter behind RecordTransition.
func TransitionCounter(transition string) prometheus.Counter {
	return journalTransitions.WithLabelValues(transition)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records request counts and latencies labelled by route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
