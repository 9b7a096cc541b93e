package handlers

import (
	"net/http"

	"github.com/gabeliss/tickX/application/services"
	"github.com/gabeliss/tickX/pkg/common"
	"github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	catalog      *services.CatalogService
	logger       *zap.Logger
	errorHandler *errors.ErrorHandler
}

// NewEventHandler creates a new event handler
func NewEventHandler(catalog *services.CatalogService, logger *zap.Logger, errorHandler *errors.ErrorHandler) *EventHandler {
	return &EventHandler{
		catalog:      catalog,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := q.Get("keyword")
	if keyword == "" {
		keyword = q.Get("q")
	}

	list, err := h.catalog.ListEvents(r.Context(), services.EventFilter{
		City:     q.Get("city"),
		Category: q.Get("category"),
		VenueID:  q.Get("venueId"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		PageSize: common.QueryInt(r, "pageSize", common.DefaultPageSize),
		Cursor:   q.Get("cursor"),
		Keyword:  keyword,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, list)
}

// GetEvent handles GET /events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.catalog.GetEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"data": event})
}

// SetListingCountRequest is the body of PUT /events/{eventId}/listing-count
type SetListingCountRequest struct {
	ListingCount *int `json:"listingCount" validate:"required,min=0"`
}

// SetListingCount handles PUT /events/{eventId}/listing-count
func (h *EventHandler) SetListingCount(w http.ResponseWriter, r *http.Request) {
	var req SetListingCountRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "eventId")
	if err := h.catalog.SetListingCount(r.Context(), id, *req.ListingCount); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"id": id, "listingCount": *req.ListingCount},
	})
}

// SetFeaturedRequest is the body of PUT /events/{eventId}/featured
type SetFeaturedRequest struct {
	IsFeatured *bool `json:"isFeatured" validate:"required"`
}

// SetFeatured handles PUT /events/{eventId}/featured
func (h *EventHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	var req SetFeaturedRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "eventId")
	if err := h.catalog.SetFeatured(r.Context(), id, *req.IsFeatured); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"id": id, "isFeatured": *req.IsFeatured},
	})
}

func (h *EventHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		h.errorHandler.Handle(w, r, errors.NewValidationError("Invalid request body: "+err.Error()))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		h.errorHandler.Handle(w, r, errors.NewValidationError(err.Error()))
		return false
	}
	return true
}
