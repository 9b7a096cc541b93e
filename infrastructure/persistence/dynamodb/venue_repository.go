package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/domain/catalog"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/observability"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// VenueRepository stores venues in the venues table.
type VenueRepository struct {
	table  *table
	batch  *batchWriter
	logger *zap.Logger
	city   indexSpec
}

// NewVenueRepository creates a venue repository over client.
func NewVenueRepository(
	client API,
	cfg Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) *VenueRepository {
	cfg = cfg.withDefaults()
	t := newTable(client, cfg.VenuesTable, logger, metrics, tracer)
	return &VenueRepository{
		table:  t,
		batch:  newBatchWriter(t, cfg),
		logger: t.logger,
		city:   indexSpec{name: cfg.CityIndex, pk: attrGSI1PK, sk: attrGSI1SK},
	}
}

// Put writes v unconditionally.
func (r *VenueRepository) Put(ctx context.Context, v catalog.Venue) error {
	item, err := NewVenueItem(v).Attributes()
	if err != nil {
		return err
	}
	return r.table.putItem(ctx, item)
}

// Get returns the venue with id or catalog.ErrVenueNotFound.
func (r *VenueRepository) Get(ctx context.Context, id string) (*catalog.Venue, error) {
	item, err := r.table.getItem(ctx, venueKey(id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, catalog.ErrVenueNotFound
	}
	v, err := decodeVenue(item)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// BatchPut writes venues in chunks of 25 and reports how many were saved.
func (r *VenueRepository) BatchPut(ctx context.Context, venues []catalog.Venue) catalog.BatchResult {
	items := make([]map[string]types.AttributeValue, 0, len(venues))
	failed := 0
	for _, v := range venues {
		item, err := NewVenueItem(v).Attributes()
		if err != nil {
			r.logger.Error("failed to marshal venue", zap.String("venue_id", v.ID), zap.Error(err))
			failed++
			continue
		}
		items = append(items, item)
	}
	return r.batch.write(ctx, items, failed)
}

// QueryByCity lists venues in a city ordered by id. Date bounds do not apply.
func (r *VenueRepository) QueryByCity(ctx context.Context, city string, q catalog.RangeQuery) (*catalog.Page[catalog.Venue], error) {
	partition := CityPartition(city)
	keyCond := expression.Key(r.city.pk).Equal(expression.Value(partition))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	out, err := r.table.query(ctx, &dynamodb.QueryInput{
		IndexName:                 aws.String(r.city.name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(pageSizeOrDefault(q.PageSize)),
		ExclusiveStartKey:         r.city.startKey(r.logger, q.Cursor, partition, "", ""),
	})
	if err != nil {
		return nil, err
	}

	venues := make([]catalog.Venue, 0, len(out.Items))
	for _, item := range out.Items {
		v, err := decodeVenue(item)
		if err != nil {
			r.logger.Warn("skipping undecodable item", zap.String("table", r.table.name), zap.Error(err))
			continue
		}
		venues = append(venues, v)
	}

	return &catalog.Page[catalog.Venue]{
		Items:      venues,
		HasMore:    len(out.LastEvaluatedKey) > 0,
		NextCursor: EncodeCursor(out.LastEvaluatedKey),
	}, nil
}
