package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/pkg/clock"
	"go.uber.org/zap"
)

// Source is the EventBridge source of every event the catalog publishes.
const Source = "tickx.catalog"

// API is the subset of the EventBridge client the publisher uses.
type API interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

var _ API = (*eventbridge.Client)(nil)

// Publisher implements ports.EventPublisher on EventBridge.
type Publisher struct {
	client       API
	eventBusName string
	clock        clock.Clock
	logger       *zap.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client API, eventBusName string, clk clock.Clock, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		clock:        clk,
		logger:       logger,
	}
}

// Publish sends one event with detail encoded as JSON.
func (p *Publisher) Publish(ctx context.Context, detailType string, detail interface{}) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal %s detail: %w", detailType, err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(detailType),
			Detail:       aws.String(string(data)),
			Time:         aws.Time(p.clock.Now()),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to EventBridge: %w", detailType, err)
	}

	if result.FailedEntryCount > 0 {
		for _, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("Failed to publish event",
					zap.String("detailType", detailType),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Event published to EventBridge",
		zap.String("detailType", detailType),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
