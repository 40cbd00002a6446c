package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelcm/commerce-insights-go/internal/analytics"
	"github.com/angelcm/commerce-insights-go/internal/ingest"
	"github.com/angelcm/commerce-insights-go/internal/models"
	"github.com/angelcm/commerce-insights-go/internal/store"
	"github.com/angelcm/commerce-insights-go/internal/utils"
)

func NewRouter(log *slog.Logger, fetcher *ingest.Fetcher, svc *analytics.Service, settings *store.SettingsStore, corsOrigins []string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		n, err := fetcher.Run(r.Context(), q.Get("customer"), q.Get("from"), q.Get("to"))
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, map[string]any{"ingested": n})
	})

	mux.Get("/api/series", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp, err := svc.Series(r.Context(), q.Get("customer"), q.Get("from"), q.Get("to"),
			models.ParseGranularity(q.Get("granularity")), models.ParseCompareMode(q.Get("compare")))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, resp)
	})

	mux.Get("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp, err := svc.Summary(r.Context(), q.Get("customer"), q.Get("from"), q.Get("to"),
			models.ParseCompareMode(q.Get("compare")))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, resp)
	})

	mux.Get("/api/pace", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		override := map[string]string{}
		for _, k := range []string{"revenue_budget", "orders_budget", "ad_spend_budget"} {
			if v := q.Get(k); v != "" {
				override[k] = v
			}
		}
		resp, err := svc.Pace(r.Context(), q.Get("customer"), q.Get("from"), q.Get("to"), override)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, resp)
	})

	mux.Get("/api/pnl", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		base := q.Get("base_currency")
		if base == "" {
			base = "USD"
		}
		resp, err := svc.PnL(r.Context(), q.Get("customer"), q.Get("from"), q.Get("to"), base, q.Get("currency"))
		if err != nil {
			status := 400
			if errors.Is(err, store.ErrNotFound) {
				status = 404
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, resp)
	})

	if settings != nil {
		mux.Put("/api/settings/expenses", func(w http.ResponseWriter, r *http.Request) {
			var e models.StaticExpenses
			if err := json.NewDecoder(r.Body).Decode(&e); err != nil || e.CustomerID == "" {
				http.Error(w, "bad expenses payload", 400)
				return
			}
			if err := settings.PutStaticExpenses(r.Context(), e); err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			w.WriteHeader(204)
		})
		mux.Put("/api/settings/budget", func(w http.ResponseWriter, r *http.Request) {
			var b models.PaceBudget
			if err := json.NewDecoder(r.Body).Decode(&b); err != nil || b.CustomerID == "" || b.Month == "" {
				http.Error(w, "bad budget payload", 400)
				return
			}
			if err := settings.PutPaceBudget(r.Context(), b); err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			w.WriteHeader(204)
		})
	}

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
