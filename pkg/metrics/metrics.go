// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels: method, route (gin full path, "unmatched" for 404s), status code.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

var JobsPostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_posted_total",
		Help:      "Total number of jobs posted.",
	},
)

// JobsDeletedTotal counts deleted jobs; ApplicationsCascadedTotal counts the
// applications removed with them.
var JobsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_deleted_total",
		Help:      "Total number of jobs deleted.",
	},
)

var ApplicationsCascadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_cascaded_total",
		Help:      "Total number of applications removed together with their job.",
	},
)

var ApplicationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_created_total",
		Help:      "Total number of applications submitted.",
	},
)

var DuplicateApplicationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_duplicate_total",
		Help:      "Total number of apply attempts rejected as duplicates.",
	},
)

// StatusTransitionsTotal counts status changes.
// Labels: from, to (canonical status values).
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_status_transitions_total",
		Help:      "Total number of application status changes.",
	},
	[]string{"from", "to"},
)

// AccessDeniedTotal counts authorization gate denials.
// Labels: action, reason.
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"action", "reason"},
)
