package dynamodb

import (
	"context"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/domain/catalog"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"go.uber.org/zap"
)

// DefaultPageSize applies when a query does not name a page size.
const DefaultPageSize = 50

// indexSpec names one secondary index and its key attributes.
type indexSpec struct {
	name string
	pk   string
	sk   string
}

func pageSizeOrDefault(n int) int32 {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

// startKey decodes a cursor into an ExclusiveStartKey for a query on idx
// within partition whose sort key lies in [lower, upper]. An empty upper
// leaves the sort key unbounded. A cursor that is malformed, or that was
// issued for another index, partition or range, restarts from the beginning.
func (idx indexSpec) startKey(logger *zap.Logger, cursor, partition, lower, upper string) map[string]types.AttributeValue {
	key, err := DecodeCursor(cursor)
	if err == nil && key != nil {
		err = idx.checkStartKey(key, partition, lower, upper)
	}
	if err != nil {
		logger.Debug("ignoring malformed cursor", zap.String("index", idx.name), zap.Error(err))
		return nil
	}
	return key
}

// checkStartKey requires exactly the table and index key attributes, each a
// non-empty string, positioned inside the query's key condition.
func (idx indexSpec) checkStartKey(key map[string]types.AttributeValue, partition, lower, upper string) error {
	want := []string{attrPK, attrSK, idx.pk, idx.sk}
	if len(key) != len(want) {
		return fmt.Errorf("cursor has %d key attributes, want %v", len(key), want)
	}
	values := make(map[string]string, len(want))
	for _, name := range want {
		s, ok := key[name].(*types.AttributeValueMemberS)
		if !ok || s.Value == "" {
			return fmt.Errorf("cursor lacks key attribute %s", name)
		}
		values[name] = s.Value
	}
	if values[idx.pk] != partition {
		return fmt.Errorf("cursor belongs to partition %q", values[idx.pk])
	}
	if upper != "" && (values[idx.sk] < lower || values[idx.sk] > upper) {
		return fmt.Errorf("cursor sort key %q outside query range", values[idx.sk])
	}
	return nil
}

// queryEventRange reads one page of events from idx where the partition
// equals partition and the date lies within q's bounds.
func (r *EventRepository) queryEventRange(ctx context.Context, idx indexSpec, partition string, q catalog.RangeQuery) (*catalog.Page[catalog.Event], error) {
	from := q.DateFrom
	if from == "" {
		from = r.today()
	}
	to := q.DateTo
	if to == "" {
		to = catalog.FarFutureDate
	}

	lower, upper := dateRange(from, to)
	if lower > upper {
		return &catalog.Page[catalog.Event]{Items: []catalog.Event{}}, nil
	}

	keyCond := expression.Key(idx.pk).Equal(expression.Value(partition)).
		And(expression.Key(idx.sk).Between(expression.Value(lower), expression.Value(upper)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	out, err := r.table.query(ctx, &dynamodb.QueryInput{
		IndexName:                 aws.String(idx.name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(pageSizeOrDefault(q.PageSize)),
		ExclusiveStartKey:         idx.startKey(r.logger, q.Cursor, partition, lower, upper),
	})
	if err != nil {
		return nil, err
	}

	return &catalog.Page[catalog.Event]{
		Items:      r.decodeEvents(out.Items),
		HasMore:    len(out.LastEvaluatedKey) > 0,
		NextCursor: EncodeCursor(out.LastEvaluatedKey),
	}, nil
}

// decodeEvents skips items that are not events or cannot be decoded.
func (r *EventRepository) decodeEvents(items []map[string]types.AttributeValue) []catalog.Event {
	events := make([]catalog.Event, 0, len(items))
	for _, item := range items {
		e, err := decodeEvent(item)
		if err != nil {
			r.logger.Warn("skipping undecodable item", zap.String("table", r.table.name), zap.Error(err))
			continue
		}
		events = append(events, e)
	}
	return events
}
