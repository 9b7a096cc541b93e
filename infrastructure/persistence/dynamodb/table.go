package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/pkg/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// table runs single DynamoDB calls against one table, recording a span and
// metrics for each.
type table struct {
	client  API
	name    string
	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func newTable(client API, name string, logger *zap.Logger, metrics *observability.Metrics, tracer trace.Tracer) *table {
	if tracer == nil {
		tracer = observability.NoopTracer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &table{
		client:  client,
		name:    name,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// observe starts a span for op; the returned func ends it and records metrics.
func (t *table) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "dynamodb."+op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String("db.system", "dynamodb"),
			attribute.String("aws.dynamodb.table", t.name),
		}, attrs...)...))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		t.metrics.ObserveDB(op, t.name, start, err)
	}
}

// getItem returns nil, nil when no item exists.
func (t *table) getItem(ctx context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	ctx, done := t.observe(ctx, "GetItem")
	out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	done(err)
	if err != nil {
		return nil, wrapError("GetItem", t.name, err)
	}
	return out.Item, nil
}

func (t *table) putItem(ctx context.Context, item map[string]types.AttributeValue) error {
	ctx, done := t.observe(ctx, "PutItem")
	_, err := t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	done(err)
	return wrapError("PutItem", t.name, err)
}

// updateItem applies update when condition holds. A failed condition is
// returned unwrapped so callers can test it with isConditionalCheckFailed.
func (t *table) updateItem(
	ctx context.Context,
	key map[string]types.AttributeValue,
	update expression.UpdateBuilder,
	condition expression.ConditionBuilder,
) error {
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(condition).Build()
	if err != nil {
		return wrapError("UpdateItem", t.name, err)
	}

	ctx, done := t.observe(ctx, "UpdateItem")
	_, err = t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	done(err)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return err
		}
		return wrapError("UpdateItem", t.name, err)
	}
	return nil
}

func (t *table) query(ctx context.Context, in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
	in.TableName = aws.String(t.name)
	ctx, done := t.observe(ctx, "Query", attribute.String("aws.dynamodb.index_name", aws.ToString(in.IndexName)))
	out, err := t.client.Query(ctx, in)
	done(err)
	if err != nil {
		return nil, wrapError("Query", t.name, err)
	}
	return out, nil
}

func (t *table) scan(ctx context.Context, in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
	in.TableName = aws.String(t.name)
	ctx, done := t.observe(ctx, "Scan")
	out, err := t.client.Scan(ctx, in)
	done(err)
	if err != nil {
		return nil, wrapError("Scan", t.name, err)
	}
	t.metrics.IncScanPages()
	return out, nil
}
