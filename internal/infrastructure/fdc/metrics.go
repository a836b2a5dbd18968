package fdc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mealmetric_upstream_requests_total",
		Help: "Total number of FoodData Central API requests",
	},
	[]string{"op", "outcome"},
)
