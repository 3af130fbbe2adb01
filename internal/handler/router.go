package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/pkg/response"
)

// NewRouter lays out the HTTP surface. Probes and login are public, every
// ledger endpoint requires a bearer token. CORS wraps the router so OPTIONS
// preflights are answered on every path.
func NewRouter(
	ledger *LedgerHandler,
	auth *AuthHandler,
	health *HealthHandler,
	authService AuthService,
	logger *logrus.Logger,
) http.Handler {
	router := mux.NewRouter()

	router.Use(response.RequestIDMiddleware)
	router.Use(response.LoggingMiddleware(logger))

	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	auth.RegisterRoutes(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(authService, logger))
	ledger.RegisterRoutes(protected)

	return response.CORSMiddleware(router)
}
