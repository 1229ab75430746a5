package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/internal/config"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	manager *conditions.Manager
	config  *config.Config
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(manager *conditions.Manager, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		manager: manager,
		config:  cfg,
		logger:  log.Named("api-handler"),
	}
}

// conditionsResponse is the envelope for conditions queries. When a refresh
// fails but a previous snapshot exists, both are populated so the caller can
// keep presenting the last good value alongside a non-fatal error indicator.
type conditionsResponse struct {
	Conditions *conditions.ViewingConditions `json:"conditions,omitempty"`
	Error      string                        `json:"error,omitempty"`
}

// GetConditions serves the snapshot for the requested location, refreshing
// it first when the cache cannot be reused.
func (h *Handler) GetConditions(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.resolveLocation(w, r)
	if !ok {
		return
	}

	start := time.Now()
	snapshot, err := h.manager.LoadConditionsIfNeeded(r.Context(), loc)

	if err != nil {
		h.logger.Warn("Conditions refresh failed",
			logger.String("location", loc.Name),
			logger.Bool("has_previous", snapshot != nil),
			logger.Error(err))

		if snapshot == nil {
			h.respondJSON(w, http.StatusBadGateway, conditionsResponse{Error: err.Error()})
			return
		}
		h.respondJSON(w, http.StatusOK, conditionsResponse{Conditions: snapshot, Error: err.Error()})
		return
	}

	h.logger.Debug("Conditions served",
		logger.String("location", loc.Name),
		logger.Duration("duration", time.Since(start)))

	h.respondJSON(w, http.StatusOK, conditionsResponse{Conditions: snapshot})
}

// dayResponse carries the day-window view of a snapshot.
type dayResponse struct {
	Offset      int                         `json:"offset"`
	Forecasts   []conditions.HourlyForecast `json:"forecasts"`
	CurrentHour *conditions.HourlyForecast  `json:"current_hour,omitempty"`
	SunEvents   *conditions.SunEvents       `json:"sun_events,omitempty"`
	MoonInfo    *conditions.MoonInfo        `json:"moon_info,omitempty"`
	Error       string                      `json:"error,omitempty"`
}

// GetDayConditions serves one calendar day's slice of the snapshot.
func (h *Handler) GetDayConditions(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.resolveLocation(w, r)
	if !ok {
		return
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		offset = parsed
	}

	snapshot, refreshErr := h.manager.LoadConditionsIfNeeded(r.Context(), loc)
	if snapshot == nil {
		h.respondJSON(w, http.StatusBadGateway, conditionsResponse{Error: refreshErr.Error()})
		return
	}

	now := time.Now()
	resp := dayResponse{
		Offset:    offset,
		Forecasts: conditions.ForecastsForDay(snapshot.HourlyForecasts, offset, now),
	}
	if current, found := conditions.CurrentHourForecast(snapshot.HourlyForecasts, offset, now); found {
		resp.CurrentHour = &current
	}
	if offset < len(snapshot.DailySunEvents) {
		resp.SunEvents = &snapshot.DailySunEvents[offset]
	}
	if offset < len(snapshot.DailyMoonInfo) {
		resp.MoonInfo = &snapshot.DailyMoonInfo[offset]
	}
	if refreshErr != nil {
		resp.Error = refreshErr.Error()
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetCacheStats serves cache slot statistics.
func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.manager.Stats())
}

// GetHealth is a liveness probe.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveLocation maps request parameters onto a saved location. With no
// name parameter the default (first configured) location is used.
func (h *Handler) resolveLocation(w http.ResponseWriter, r *http.Request) (conditions.Location, bool) {
	name := r.URL.Query().Get("name")

	var cfg config.LocationConfig
	if name == "" {
		cfg = h.config.DefaultLocation()
	} else {
		var found bool
		cfg, found = h.config.FindLocation(name)
		if !found {
			http.Error(w, "unknown location: "+name, http.StatusNotFound)
			return conditions.Location{}, false
		}
	}

	return conditions.Location{
		Name:      cfg.Name,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Elevation: cfg.Elevation,
	}, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}
