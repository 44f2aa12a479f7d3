package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "owltrack_applications_created_total",
			Help: "Total number of applications created",
		},
		[]string{"kind"},
	)

	SubmissionsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "owltrack_submissions_saved_total",
			Help: "Total number of work submissions saved",
		},
		[]string{"kind"},
	)

	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "owltrack_application_decisions_total",
			Help: "Admin decisions by requested and final status",
		},
		[]string{"kind", "requested", "final"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "owltrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "owltrack_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)
