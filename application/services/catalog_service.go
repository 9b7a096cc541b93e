package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/gabeliss/tickX/pkg/common"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/utils"
	"go.uber.org/zap"
)

// DefaultCity is listed when a request names no filter at all.
const DefaultCity = "chicago"

// EventFilter carries the query parameters of an event listing.
type EventFilter struct {
	City     string
	Category string
	VenueID  string
	DateFrom string `validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `validate:"omitempty,datetime=2006-01-02"`
	PageSize int
	Cursor   string
	Keyword  string
}

// VenueFilter carries the query parameters of a venue listing.
type VenueFilter struct {
	City     string `validate:"required"`
	PageSize int
	Cursor   string
}

// EventList is the listing response body.
type EventList struct {
	Data       []catalog.Event       `json:"data"`
	Pagination common.PaginationInfo `json:"pagination"`
}

// VenueList is the venue listing response body.
type VenueList struct {
	Data       []catalog.Venue       `json:"data"`
	Pagination common.PaginationInfo `json:"pagination"`
}

// UpsertResult reports a bulk write. Rejected records failed validation and
// were never sent to the store.
type UpsertResult struct {
	Saved    int `json:"saved"`
	Failed   int `json:"failed"`
	Rejected int `json:"rejected"`
}

// CatalogService serves catalog reads and writes over the repositories.
type CatalogService struct {
	events        ports.EventRepository
	venues        ports.VenueRepository
	logger        *zap.Logger
	searchTimeout time.Duration
}

// NewCatalogService creates a new catalog service. A zero searchTimeout
// leaves keyword searches bounded only by the caller's context.
func NewCatalogService(events ports.EventRepository, venues ports.VenueRepository, logger *zap.Logger, searchTimeout time.Duration) *CatalogService {
	return &CatalogService{
		events:        events,
		venues:        venues,
		logger:        logger,
		searchTimeout: searchTimeout,
	}
}

// ListEvents dispatches a listing to the narrowest access path:
// keyword search, then venue, then category, then city, then DefaultCity.
// When both city and category are given the city index is read and the page
// is filtered by category afterwards, so a page may hold fewer than pageSize
// events even when more exist.
func (s *CatalogService) ListEvents(ctx context.Context, f EventFilter) (*EventList, error) {
	if err := utils.ValidateStruct(f); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	pageSize := common.ClampPageSize(f.PageSize)
	category, validCategory := catalog.ParseCategory(f.Category)

	if f.Keyword != "" {
		q := catalog.SearchQuery{Keyword: f.Keyword, City: f.City, PageSize: pageSize}
		if validCategory {
			q.Category = category
		}
		result, err := s.search(ctx, q)
		if err != nil {
			return nil, s.translate(err, "search events", "")
		}
		return &EventList{
			Data:       result.Items,
			Pagination: common.BuildPagination(pageSize, result.TotalItems, result.HasMore, ""),
		}, nil
	}

	rq := catalog.RangeQuery{DateFrom: f.DateFrom, DateTo: f.DateTo, PageSize: pageSize, Cursor: f.Cursor}

	var (
		page *catalog.Page[catalog.Event]
		err  error
	)
	switch {
	case f.VenueID != "":
		page, err = s.events.QueryByVenue(ctx, f.VenueID, rq)
	case validCategory && f.City == "":
		page, err = s.events.QueryByCategory(ctx, category, rq)
	case f.City != "":
		page, err = s.events.QueryByCity(ctx, f.City, rq)
	default:
		page, err = s.events.QueryByCity(ctx, DefaultCity, rq)
	}
	if err != nil {
		return nil, s.translate(err, "list events", "")
	}

	items := page.Items
	if f.City != "" && f.VenueID == "" && validCategory {
		items = filterByCategory(items, category)
	}
	if items == nil {
		items = []catalog.Event{}
	}

	return &EventList{
		Data:       items,
		Pagination: common.BuildPagination(pageSize, len(items), page.HasMore, page.NextCursor),
	}, nil
}

func (s *CatalogService) search(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error) {
	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}
	return s.events.SearchExhaustive(ctx, q)
}

func filterByCategory(events []catalog.Event, category catalog.Category) []catalog.Event {
	filtered := make([]catalog.Event, 0, len(events))
	for _, e := range events {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// GetEvent returns one event or a NotFound error.
func (s *CatalogService) GetEvent(ctx context.Context, id string) (*catalog.Event, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("eventId is required")
	}
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get event", id)
	}
	return e, nil
}

// ListVenues lists venues in a city. The city is required.
func (s *CatalogService) ListVenues(ctx context.Context, f VenueFilter) (*VenueList, error) {
	if err := utils.ValidateStruct(f); err != nil {
		return nil, pkgerrors.NewValidationError("Missing required parameter: city").
			WithDetail("example", "/venues?city=chicago")
	}

	pageSize := common.ClampPageSize(f.PageSize)
	page, err := s.venues.QueryByCity(ctx, f.City, catalog.RangeQuery{PageSize: pageSize, Cursor: f.Cursor})
	if err != nil {
		return nil, s.translate(err, "list venues", "")
	}

	items := page.Items
	if items == nil {
		items = []catalog.Venue{}
	}
	return &VenueList{
		Data:       items,
		Pagination: common.BuildPagination(pageSize, len(items), page.HasMore, page.NextCursor),
	}, nil
}

// GetVenue returns one venue or a NotFound error.
func (s *CatalogService) GetVenue(ctx context.Context, id string) (*catalog.Venue, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("venueId is required")
	}
	v, err := s.venues.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get venue", id)
	}
	return v, nil
}

// UpsertEvents validates and batch-writes events. Chunk failures are
// counted, never returned.
func (s *CatalogService) UpsertEvents(ctx context.Context, events []catalog.Event) UpsertResult {
	valid := make([]catalog.Event, 0, len(events))
	rejected := 0
	for i := range events {
		if err := events[i].Validate(); err != nil {
			s.logger.Warn("rejecting event", zap.String("event_id", events[i].ID), zap.Error(err))
			rejected++
			continue
		}
		valid = append(valid, events[i])
	}

	result := UpsertResult{Rejected: rejected}
	if len(valid) == 0 {
		return result
	}
	batch := s.events.BatchPut(ctx, valid)
	result.Saved = batch.Saved
	result.Failed = batch.Failed
	return result
}

// UpsertVenues validates and batch-writes venues with the same accounting as UpsertEvents.
func (s *CatalogService) UpsertVenues(ctx context.Context, venues []catalog.Venue) UpsertResult {
	valid := make([]catalog.Venue, 0, len(venues))
	rejected := 0
	for i := range venues {
		if err := venues[i].Validate(); err != nil {
			s.logger.Warn("rejecting venue", zap.String("venue_id", venues[i].ID), zap.Error(err))
			rejected++
			continue
		}
		valid = append(valid, venues[i])
	}

	result := UpsertResult{Rejected: rejected}
	if len(valid) == 0 {
		return result
	}
	batch := s.venues.BatchPut(ctx, valid)
	result.Saved = batch.Saved
	result.Failed = batch.Failed
	return result
}

// SetListingCount records how many marketplace listings an event has.
func (s *CatalogService) SetListingCount(ctx context.Context, id string, count int) error {
	if count < 0 {
		return pkgerrors.NewValidationError("listingCount must not be negative")
	}
	if err := s.events.SetListingCount(ctx, id, count); err != nil {
		return s.translate(err, "set listing count", id)
	}
	return nil
}

// SetFeatured marks or unmarks an event as featured.
func (s *CatalogService) SetFeatured(ctx context.Context, id string, featured bool) error {
	if err := s.events.SetFeatured(ctx, id, featured); err != nil {
		return s.translate(err, "set featured", id)
	}
	return nil
}

// translate maps domain sentinels to application errors. id names the
// record a single-item operation addressed.
func (s *CatalogService) translate(err error, op, id string) error {
	switch {
	case errors.Is(err, catalog.ErrEventNotFound):
		return pkgerrors.NewNotFoundError("Event", id)
	case errors.Is(err, catalog.ErrVenueNotFound):
		return pkgerrors.NewNotFoundError("Venue", id)
	case errors.Is(err, catalog.ErrUnsupportedField):
		return pkgerrors.NewValidationError(err.Error())
	case pkgerrors.GetAppError(err) != nil:
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.NewTimeoutError(op).WithCause(err)
	default:
		return pkgerrors.NewInternalError(fmt.Sprintf("failed to %s", op)).WithCause(err)
	}
}
