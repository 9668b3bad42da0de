// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ThoughtsCreated counts created thoughts by whether they have an owner.
	ThoughtsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thoughts_created_total",
			Help: "Total thoughts created",
		},
		[]string{"owner"},
	)

	// ThoughtTags counts tag labels assigned by the classifier.
	ThoughtTags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thought_tags_assigned_total",
			Help: "Tag labels assigned to thoughts",
		},
		[]string{"tag"},
	)

	// LikesTotal counts like actions by kind (anonymous, like, unlike).
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thought_likes_total",
			Help: "Total like actions",
		},
		[]string{"action"},
	)

	// BackfilledThoughts counts thoughts whose tags were filled in by backfill.
	BackfilledThoughts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thoughts_backfilled_total",
			Help: "Thoughts tagged by backfill runs",
		},
	)

	// CacheLookups tracks tag cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tags_cache_lookups_total",
			Help: "Tag cache lookups",
		},
		[]string{"result"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordThoughtCreated records a new thought and its tags.
func RecordThoughtCreated(anonymous bool, tags []string) {
	owner := "user"
	if anonymous {
		owner = "anonymous"
	}
	ThoughtsCreated.WithLabelValues(owner).Inc()
	RecordTags(tags)
}

// RecordTags records assigned tag labels.
func RecordTags(tags []string) {
	for _, tag := range tags {
		ThoughtTags.WithLabelValues(tag).Inc()
	}
}

// RecordLike records a like action.
func RecordLike(action string) {
	LikesTotal.WithLabelValues(action).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}
