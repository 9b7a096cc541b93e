package dynamodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/gabeliss/tickX/pkg/clock"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func newTestEventRepository(t *testing.T, api *fakeAPI, now time.Time) *EventRepository {
	t.Helper()
	repo := NewEventRepository(api, DefaultConfig(), clock.NewFixed(now), zap.NewNop(), nil, nil)
	repo.batch.sleep = func(context.Context, time.Duration) error { return nil }
	return repo
}

func newTestVenueRepository(t *testing.T, api *fakeAPI) *VenueRepository {
	t.Helper()
	repo := NewVenueRepository(api, DefaultConfig(), zap.NewNop(), nil, nil)
	repo.batch.sleep = func(context.Context, time.Duration) error { return nil }
	return repo
}

func testEvent(id, city, date string) catalog.Event {
	created := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	return catalog.Event{
		ID:             id,
		Name:           "Event " + id,
		Category:       catalog.CategoryConcert,
		Status:         catalog.StatusScheduled,
		EventDate:      date + "T19:30:00",
		LocalDate:      date,
		LocalTime:      "19:30:00",
		Timezone:       "America/Chicago",
		VenueID:        "venue-1",
		VenueName:      "United Center",
		VenueCity:      city,
		VenueState:     "Illinois",
		VenueStateCode: "IL",
		Currency:       "USD",
		CreatedAt:      created,
		UpdatedAt:      created,
		Source:         catalog.SourceTicketmaster,
	}
}

func testEvents(n int, city, date string) []catalog.Event {
	events := make([]catalog.Event, n)
	for i := range events {
		events[i] = testEvent(fmt.Sprintf("evt-%03d", i), city, date)
	}
	return events
}
