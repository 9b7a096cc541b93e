package ticketmaster

import (
	"context"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/gabeliss/tickX/pkg/clock"
	"go.uber.org/zap"
)

// Source adapts the Discovery API to ports.CatalogSource.
type Source struct {
	client *Client
	clock  clock.Clock
	logger *zap.Logger
}

var _ ports.CatalogSource = (*Source)(nil)

// NewSource creates a catalog source over client.
func NewSource(client *Client, clk clock.Clock, logger *zap.Logger) *Source {
	return &Source{client: client, clock: clk, logger: logger}
}

// FetchCity fetches and transforms a city's upcoming events. Venues come
// from the first embedded venue of each event.
func (s *Source) FetchCity(ctx context.Context, target ports.CityTarget) (*ports.CityCatalog, error) {
	now := s.clock.Now()
	raw, err := s.client.FetchCityEvents(ctx, now, target.City, target.StateCode)
	if err != nil {
		return nil, err
	}

	result := &ports.CityCatalog{
		EventsFound: len(raw),
		Events:      make([]catalog.Event, 0, len(raw)),
	}
	seenVenues := make(map[string]struct{})

	for _, tm := range raw {
		if e, ok := TransformEvent(tm, now); ok {
			result.Events = append(result.Events, e)
		} else {
			s.logger.Debug("skipping untransformable event", zap.String("event_id", tm.ID))
			result.Dropped++
		}

		v := firstVenue(tm)
		if v == nil {
			continue
		}
		if _, dup := seenVenues[v.ID]; dup {
			continue
		}
		if venue, ok := TransformVenue(*v, now); ok {
			seenVenues[venue.ID] = struct{}{}
			result.Venues = append(result.Venues, venue)
		}
	}

	return result, nil
}
