package app

import (
	"net/http"
	"time"

	"padron/cmd/internal/api"

	"go.mongodb.org/mongo-driver/mongo"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	cfg Config,
	client *mongo.Client,
	dbEnabled bool,
	metrics *Metrics,
	handler *api.Handler,
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

		if dbEnabled && client != nil {
			if err := PingDB(r.Context(), client, 2*time.Second); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				log.Info("readyz.db.not_ready", "err", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}

	if handler != nil {
		handler.Register(mux)
	}
}
