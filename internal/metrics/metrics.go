// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckInsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_created_total",
		Help: "Check-in records created.",
	})

	CheckInConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_conflicts_total",
		Help: "Check-in creations rejected because the user already had a record.",
	})

	SwagClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_swag_claimed_total",
		Help: "Check-ins whose swag flag moved to claimed.",
	})

	TokenVerifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_verify_failures_total",
		Help: "Access tokens rejected during verification.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_events_published_total",
		Help: "Check-in events sent to the broker, by result.",
	}, []string{"result"})
)
