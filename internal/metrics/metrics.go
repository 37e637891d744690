// Package metrics exposes Prometheus counters for the event store and the reminder scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsAdded counts events that completed both writes of the add operation.
	EventsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "event_reminder",
		Name:      "events_added_total",
		Help:      "Events added to the collection.",
	})

	// EventsRemoved counts events removed from the collection.
	EventsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "event_reminder",
		Name:      "events_removed_total",
		Help:      "Events removed from the collection.",
	})

	// Rejections counts rejected add requests by reason.
	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "event_reminder",
		Name:      "add_rejections_total",
		Help:      "Add requests rejected by validation, by reason.",
	}, []string{"reason"})

	// Reminders counts reminder lifecycle transitions by final status.
	Reminders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "event_reminder",
		Name:      "reminders_total",
		Help:      "Reminders by status: scheduled, sent, failed, cancelled.",
	}, []string{"status"})
)
