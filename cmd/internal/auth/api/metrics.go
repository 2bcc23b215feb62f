package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the authentication surface.
var (
	// signupsTotal counts signup attempts by outcome.
	signupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pago_auth_signups_total",
		Help: "Total number of signup attempts",
	}, []string{"result"})

	// loginsTotal counts login attempts by outcome.
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pago_auth_logins_total",
		Help: "Total number of login attempts",
	}, []string{"result"})
)
