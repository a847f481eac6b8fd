package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var activeListeners = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "coach_panel_active_listeners",
	Help: "Number of live backend push subscriptions.",
})
