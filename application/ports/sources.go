package ports

import (
	"context"

	"github.com/gabeliss/tickX/domain/catalog"
)

// CityTarget names a city to ingest.
type CityTarget struct {
	City      string `yaml:"city" json:"city"`
	StateCode string `yaml:"stateCode" json:"stateCode"`
}

// String renders the target as "City, ST".
func (c CityTarget) String() string {
	return c.City + ", " + c.StateCode
}

// CityCatalog is what an upstream source returns for one city.
type CityCatalog struct {
	// EventsFound is the number of upstream events before transformation.
	EventsFound int
	// Events that transformed cleanly; they are validated again before storage.
	Events []catalog.Event
	// Venues referenced by the events, possibly with duplicates.
	Venues []catalog.Venue
	// Dropped counts upstream events that could not be transformed.
	Dropped int
}

// CatalogSource fetches events and venues from an upstream provider.
type CatalogSource interface {
	FetchCity(ctx context.Context, target CityTarget) (*CityCatalog, error)
}

// EventPublisher publishes integration events.
type EventPublisher interface {
	Publish(ctx context.Context, detailType string, detail interface{}) error
}
