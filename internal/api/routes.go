package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler, logger zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(logger))

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Report routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/report", handler.GetReport).Methods("GET")
	api.HandleFunc("/positions/open", handler.GetOpenPositions).Methods("GET")
	api.HandleFunc("/positions/closed", handler.GetClosedPositions).Methods("GET")
	api.HandleFunc("/scanner/top-stocks", handler.GetTopStocks).Methods("GET")

	return r
}

func requestLogger(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
