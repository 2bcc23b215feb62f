package paymentapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the payments surface.
var (
	// ordersTotal counts order creation attempts by outcome.
	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pago_payments_orders_total",
		Help: "Total number of payment order creation attempts",
	}, []string{"result"})

	// verificationsTotal counts signature verification attempts by outcome.
	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pago_payments_verifications_total",
		Help: "Total number of payment verification attempts",
	}, []string{"result"})
)
