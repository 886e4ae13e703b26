package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartLinesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pastry_cart_lines_added_total",
		Help: "Order lines added to carts, by customization variant.",
	}, []string{"variant"})

	checkoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pastry_checkouts_total",
		Help: "Order summaries handed off, by preferred channel.",
	}, []string{"channel"})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pastry_visit_notifications_total",
		Help: "Visit notifications, by result.",
	}, []string{"result"})

	notifierBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pastry_notifier_breaker_state",
		Help: "State of the Telegram circuit breaker (0=closed, 1=half-open, 2=open).",
	})
)
