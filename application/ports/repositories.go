package ports

import (
	"context"

	"github.com/gabeliss/tickX/domain/catalog"
)

// EventRepository defines the interface for event persistence
type EventRepository interface {
	// Put writes an event, replacing any existing record with the same id
	Put(ctx context.Context, e catalog.Event) error

	// Get returns the event or catalog.ErrEventNotFound
	Get(ctx context.Context, id string) (*catalog.Event, error)

	// BatchPut writes events in chunks and reports saved/failed counts
	BatchPut(ctx context.Context, events []catalog.Event) catalog.BatchResult

	SetListingCount(ctx context.Context, id string, count int) error
	SetFeatured(ctx context.Context, id string, featured bool) error

	QueryByCity(ctx context.Context, city string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error)
	QueryByCategory(ctx context.Context, category catalog.Category, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error)
	QueryByVenue(ctx context.Context, venueID string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error)

	// SearchExhaustive scans every event; TotalItems counts all matches
	SearchExhaustive(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error)
}

// VenueRepository defines the interface for venue persistence
type VenueRepository interface {
	Put(ctx context.Context, v catalog.Venue) error
	Get(ctx context.Context, id string) (*catalog.Venue, error)
	BatchPut(ctx context.Context, venues []catalog.Venue) catalog.BatchResult
	QueryByCity(ctx context.Context, city string, q catalog.RangeQuery) (*catalog.Page[catalog.Venue], error)
}
