//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/infrastructure/config"
	"github.com/gabeliss/tickX/infrastructure/persistence/dynamodb"
	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideErrorHandler,
	ProvideClock,
	ProvideMetrics,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideRepositoryConfig,
	ProvideEventRepository,
	wire.Bind(new(ports.EventRepository), new(*dynamodb.EventRepository)),
	ProvideVenueRepository,
	wire.Bind(new(ports.VenueRepository), new(*dynamodb.VenueRepository)),
	ProvideCatalogService,
	ProvideEventPublisher,
	ProvideTicketmasterClient,
	ProvideCatalogSource,
	ProvideSyncService,
	ProvideRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
