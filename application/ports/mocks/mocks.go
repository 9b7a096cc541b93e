// Package mocks provides testify mocks of the application ports.
package mocks

import (
	"context"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/stretchr/testify/mock"
)

// EventRepository mocks ports.EventRepository.
type EventRepository struct {
	mock.Mock
}

var _ ports.EventRepository = (*EventRepository)(nil)

func (m *EventRepository) Put(ctx context.Context, e catalog.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EventRepository) Get(ctx context.Context, id string) (*catalog.Event, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*catalog.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventRepository) BatchPut(ctx context.Context, events []catalog.Event) catalog.BatchResult {
	args := m.Called(ctx, events)
	return args.Get(0).(catalog.BatchResult)
}

func (m *EventRepository) SetListingCount(ctx context.Context, id string, count int) error {
	args := m.Called(ctx, id, count)
	return args.Error(0)
}

func (m *EventRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	args := m.Called(ctx, id, featured)
	return args.Error(0)
}

func (m *EventRepository) QueryByCity(ctx context.Context, city string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	args := m.Called(ctx, city, q)
	return eventPage(args)
}

func (m *EventRepository) QueryByCategory(ctx context.Context, category catalog.Category, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	args := m.Called(ctx, category, q)
	return eventPage(args)
}

func (m *EventRepository) QueryByVenue(ctx context.Context, venueID string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	args := m.Called(ctx, venueID, q)
	return eventPage(args)
}

func (m *EventRepository) SearchExhaustive(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error) {
	args := m.Called(ctx, q)
	if r := args.Get(0); r != nil {
		return r.(*catalog.SearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func eventPage(args mock.Arguments) (*catalog.Page[catalog.Event], error) {
	if p := args.Get(0); p != nil {
		return p.(*catalog.Page[catalog.Event]), args.Error(1)
	}
	return nil, args.Error(1)
}

// VenueRepository mocks ports.VenueRepository.
type VenueRepository struct {
	mock.Mock
}

var _ ports.VenueRepository = (*VenueRepository)(nil)

func (m *VenueRepository) Put(ctx context.Context, v catalog.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VenueRepository) Get(ctx context.Context, id string) (*catalog.Venue, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Venue), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VenueRepository) BatchPut(ctx context.Context, venues []catalog.Venue) catalog.BatchResult {
	args := m.Called(ctx, venues)
	return args.Get(0).(catalog.BatchResult)
}

func (m *VenueRepository) QueryByCity(ctx context.Context, city string, q catalog.RangeQuery) (*catalog.Page[catalog.Venue], error) {
	args := m.Called(ctx, city, q)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Page[catalog.Venue]), args.Error(1)
	}
	return nil, args.Error(1)
}

// CatalogSource mocks ports.CatalogSource.
type CatalogSource struct {
	mock.Mock
}

var _ ports.CatalogSource = (*CatalogSource)(nil)

func (m *CatalogSource) FetchCity(ctx context.Context, target ports.CityTarget) (*ports.CityCatalog, error) {
	args := m.Called(ctx, target)
	if c := args.Get(0); c != nil {
		return c.(*ports.CityCatalog), args.Error(1)
	}
	return nil, args.Error(1)
}

// EventPublisher mocks ports.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

var _ ports.EventPublisher = (*EventPublisher)(nil)

func (m *EventPublisher) Publish(ctx context.Context, detailType string, detail interface{}) error {
	args := m.Called(ctx, detailType, detail)
	return args.Error(0)
}
