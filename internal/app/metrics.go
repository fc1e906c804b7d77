package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agora_active_rooms",
		Help: "Rooms currently in the registry",
	})

	metricAttendees = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agora_attendees",
		Help: "Sessions currently in the attendee directory",
	})

	metricInboundEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_inbound_events_total",
		Help: "Events handled by the coordinator",
	}, []string{"event"})

	metricDroppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_dropped_events_total",
		Help: "Events the coordinator dropped without effect",
	}, []string{"reason"})

	metricOwnerElections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agora_owner_elections_total",
		Help: "Owner elections run after a departure",
	})
)
