// Package metrics defines and registers all custom Prometheus metrics for
// the incident-reporting API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default registry via promauto; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sentinel"

// IncidentsCreatedTotal counts created incidents.
// Labels:
//   - severity: the incident severity at creation ("low", "medium", ...)
//   - source: "user" for manual reports, "ai" for the detection path
var IncidentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incidents_created_total",
		Help:      "Total number of incidents created, by severity and source.",
	},
	[]string{"severity", "source"},
)

// EventsBroadcastTotal counts realtime events fanned out to subscribers.
// Label:
//   - event: "incident:created", "incident:updated", or "incident:deleted"
var EventsBroadcastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_broadcast_total",
		Help:      "Total number of realtime events broadcast, by event name.",
	},
	[]string{"event"},
)

// RealtimeSubscribers tracks the number of currently connected realtime
// subscribers on this instance.
var RealtimeSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_subscribers",
		Help:      "Current number of connected realtime subscribers.",
	},
)

// AuthFailuresTotal counts rejected requests at the authorization gate.
// Label:
//   - reason: "missing_token" or "invalid_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the authorization gate.",
	},
	[]string{"reason"},
)
