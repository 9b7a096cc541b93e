package handlers

import (
	"net/http"

	"github.com/gabeliss/tickX/application/services"
	"github.com/gabeliss/tickX/pkg/common"
	"github.com/gabeliss/tickX/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VenueHandler handles venue-related HTTP requests
type VenueHandler struct {
	catalog      *services.CatalogService
	logger       *zap.Logger
	errorHandler *errors.ErrorHandler
}

// NewVenueHandler creates a new venue handler
func NewVenueHandler(catalog *services.CatalogService, logger *zap.Logger, errorHandler *errors.ErrorHandler) *VenueHandler {
	return &VenueHandler{
		catalog:      catalog,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// ListVenues handles GET /venues?city=
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.catalog.ListVenues(r.Context(), services.VenueFilter{
		City:     q.Get("city"),
		PageSize: common.QueryInt(r, "pageSize", common.DefaultPageSize),
		Cursor:   q.Get("cursor"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, list)
}

// GetVenue handles GET /venues/{venueId}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.catalog.GetVenue(r.Context(), chi.URLParam(r, "venueId"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"data": venue})
}
