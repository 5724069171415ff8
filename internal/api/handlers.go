package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/algoxlabs/bms-portfolio/internal/analytics"
	"github.com/algoxlabs/bms-portfolio/internal/models"
	"github.com/algoxlabs/bms-portfolio/internal/scanner"
)

// PositionStore defines the position queries the handlers need
type PositionStore interface {
	GetAllPositions() ([]*models.Position, error)
	GetPositionsByStatus(status string) ([]*models.Position, error)
}

// ScanFeed defines the external top-stocks feed
type ScanFeed interface {
	TopStocks(ctx context.Context) (*scanner.TopStocks, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store   PositionStore
	feed    ScanFeed
	cfg     analytics.Config
	logger  zerolog.Logger
	nowFunc func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(store PositionStore, feed ScanFeed, cfg analytics.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		feed:    feed,
		cfg:     cfg,
		logger:  logger.With().Str("component", "api").Logger(),
		nowFunc: time.Now,
	}
}

// GetReport handles GET /api/v1/report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.GetAllPositions()
	if err != nil {
		h.logger.Error().Err(err).Msg("position data source unavailable")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report, err := analytics.BuildReport(positions, h.cfg, h.nowFunc())
	if err != nil {
		h.logger.Error().Err(err).Msg("report computation failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetOpenPositions handles GET /api/v1/positions/open
func (h *Handler) GetOpenPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.GetPositionsByStatus(models.StatusOpen)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	open, _, err := analytics.Classify(positions)
	if err != nil {
		h.logger.Error().Err(err).Msg("open position classification failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, open)
}

// GetClosedPositions handles GET /api/v1/positions/closed
func (h *Handler) GetClosedPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.store.GetPositionsByStatus(models.StatusClosed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, closed, err := analytics.Classify(positions)
	if err != nil {
		h.logger.Error().Err(err).Msg("closed position classification failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, closed)
}

// GetTopStocks handles GET /api/v1/scanner/top-stocks. Feed failures are
// isolated here and never affect the report endpoints.
func (h *Handler) GetTopStocks(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		http.Error(w, "scanner feed not configured", http.StatusNotFound)
		return
	}

	result, err := h.feed.TopStocks(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("scan feed unavailable")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
