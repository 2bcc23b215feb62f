package app

import (
	"net/http"
	"time"

	authapi "pago/cmd/internal/auth/api"
	paymentapi "pago/cmd/internal/payments/api"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	cfg Config,
	dbClient *mongo.Client,
	dbEnabled bool,
	auth *authapi.Handler,
	pay *paymentapi.Handler,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadinessRequireDB && !dbEnabled {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}

		if dbEnabled && dbClient != nil {
			if err := PingDB(r.Context(), dbClient, 2*time.Second); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				log.Info("readyz.db.not_ready", "err", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	if auth != nil {
		auth.Register(mux)
	}
	if pay != nil {
		pay.Register(mux)
	}
}
