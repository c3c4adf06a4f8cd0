package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkalykov/startup-benefits/internal/health"
)

var (
	// Auth metrics

	MagicLinksIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "magic_links_issued_total",
		Help:      "Magic-link tokens issued, by triggering flow.",
	}, []string{"flow"})

	MagicLinkVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "magic_link_verifications_total",
		Help:      "Magic-link verification attempts, by outcome.",
	}, []string{"outcome"})

	TokenRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "token_refreshes_total",
		Help:      "Access-token refresh attempts, by outcome.",
	}, []string{"outcome"})

	// Claim metrics

	ClaimsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "claims_created_total",
		Help:      "Deal claims successfully created.",
	})

	ClaimConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "claim_conflicts_total",
		Help:      "Claim attempts rejected because the deal was already claimed.",
	})

	// Sweep metrics

	DealsExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "deals_expired_total",
		Help:      "Deals marked unavailable by the expiration sweep.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "benefits",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "benefits",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		MagicLinksIssuedTotal,
		MagicLinkVerificationsTotal,
		TokenRefreshesTotal,
		ClaimsCreatedTotal,
		ClaimConflictsTotal,
		DealsExpiredTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
