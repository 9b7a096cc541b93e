package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/gabeliss/tickX/pkg/clock"
	"github.com/gabeliss/tickX/pkg/observability"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EventRepository stores events in the events table.
type EventRepository struct {
	table    *table
	batch    *batchWriter
	clock    clock.Clock
	logger   *zap.Logger
	city     indexSpec
	category indexSpec
	venue    indexSpec
}

// NewEventRepository creates an event repository over client.
func NewEventRepository(
	client API,
	cfg Config,
	clk clock.Clock,
	logger *zap.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) *EventRepository {
	cfg = cfg.withDefaults()
	if clk == nil {
		clk = clock.NewSystem()
	}
	t := newTable(client, cfg.EventsTable, logger, metrics, tracer)
	return &EventRepository{
		table:    t,
		batch:    newBatchWriter(t, cfg),
		clock:    clk,
		logger:   t.logger,
		city:     indexSpec{name: cfg.CityIndex, pk: attrGSI1PK, sk: attrGSI1SK},
		category: indexSpec{name: cfg.CategoryIndex, pk: attrGSI2PK, sk: attrGSI2SK},
		venue:    indexSpec{name: cfg.VenueIndex, pk: attrGSI3PK, sk: attrGSI3SK},
	}
}

func (r *EventRepository) today() string {
	return clock.Today(r.clock)
}

// Put writes e unconditionally, replacing any existing item with the same id.
func (r *EventRepository) Put(ctx context.Context, e catalog.Event) error {
	item, err := NewEventItem(e).Attributes()
	if err != nil {
		return err
	}
	return r.table.putItem(ctx, item)
}

// Get returns the event with id or catalog.ErrEventNotFound.
func (r *EventRepository) Get(ctx context.Context, id string) (*catalog.Event, error) {
	item, err := r.table.getItem(ctx, eventKey(id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, catalog.ErrEventNotFound
	}
	e, err := decodeEvent(item)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// BatchPut writes events in chunks of 25 and reports how many were saved.
func (r *EventRepository) BatchPut(ctx context.Context, events []catalog.Event) catalog.BatchResult {
	items := make([]map[string]types.AttributeValue, 0, len(events))
	failed := 0
	for _, e := range events {
		item, err := NewEventItem(e).Attributes()
		if err != nil {
			r.logger.Error("failed to marshal event", zap.String("event_id", e.ID), zap.Error(err))
			failed++
			continue
		}
		items = append(items, item)
	}
	return r.batch.write(ctx, items, failed)
}

// UpdateField sets one field inside the stored record and stamps updatedAt.
// Only catalog.FieldListingCount and catalog.FieldIsFeatured are accepted.
// The item must already exist.
func (r *EventRepository) UpdateField(ctx context.Context, id, field string, value interface{}) error {
	if !catalog.IsUpdatableField(field) {
		return fmt.Errorf("%w: %s", catalog.ErrUnsupportedField, field)
	}

	update := expression.
		Set(expression.Name(attrData+"."+field), expression.Value(value)).
		Set(expression.Name(attrData+".updatedAt"), expression.Value(r.clock.Now()))
	condition := expression.AttributeExists(expression.Name(attrPK))

	err := r.table.updateItem(ctx, eventKey(id), update, condition)
	if err != nil && isConditionalCheckFailed(err) {
		return catalog.ErrEventNotFound
	}
	return err
}

// SetListingCount updates the number of marketplace listings for an event.
func (r *EventRepository) SetListingCount(ctx context.Context, id string, count int) error {
	return r.UpdateField(ctx, id, catalog.FieldListingCount, count)
}

// SetFeatured marks or unmarks an event as featured.
func (r *EventRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	return r.UpdateField(ctx, id, catalog.FieldIsFeatured, featured)
}

// QueryByCity lists events in a city, ascending by date then id.
func (r *EventRepository) QueryByCity(ctx context.Context, city string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	return r.queryEventRange(ctx, r.city, CityPartition(city), q)
}

// QueryByCategory lists events in a category, ascending by date then id.
func (r *EventRepository) QueryByCategory(ctx context.Context, category catalog.Category, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	return r.queryEventRange(ctx, r.category, CategoryPartition(category), q)
}

// QueryByVenue lists events at a venue, ascending by date then id.
func (r *EventRepository) QueryByVenue(ctx context.Context, venueID string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	return r.queryEventRange(ctx, r.venue, VenuePartition(venueID), q)
}
