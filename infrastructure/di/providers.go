package di

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/application/services"
	catalogsync "github.com/gabeliss/tickX/application/sync"
	"github.com/gabeliss/tickX/infrastructure/config"
	"github.com/gabeliss/tickX/infrastructure/messaging/eventbridge"
	"github.com/gabeliss/tickX/infrastructure/persistence/dynamodb"
	"github.com/gabeliss/tickX/infrastructure/ticketmaster"
	"github.com/gabeliss/tickX/interfaces/http/rest"
	"github.com/gabeliss/tickX/pkg/clock"
	"github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/observability"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const serviceName = "tickx-catalog"

// ProvideLogger creates a zap logger for the configured environment and level.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName), zap.String("environment", cfg.Environment)), nil
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideClock provides the system clock
func ProvideClock() clock.Clock {
	return clock.NewSystem()
}

// ProvideMetrics creates the Prometheus metrics set, or nil when disabled.
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics("tickx")
}

// ProvideTracerProvider initializes tracing. The cleanup flushes pending spans.
func ProvideTracerProvider(cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTELEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("failed to shut down tracer provider", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTracer returns the tracer repositories record spans on.
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DYNAMODB_ENDPOINT when set.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideRepositoryConfig maps application config onto table settings.
func ProvideRepositoryConfig(cfg *config.Config) dynamodb.Config {
	repoCfg := dynamodb.DefaultConfig()
	repoCfg.EventsTable = cfg.EventsTable
	repoCfg.VenuesTable = cfg.VenuesTable
	repoCfg.CityIndex = cfg.CityIndex
	repoCfg.CategoryIndex = cfg.CategoryIndex
	repoCfg.VenueIndex = cfg.VenueIndex
	repoCfg.MaxRetries = cfg.BatchMaxRetries
	return repoCfg
}

// ProvideEventRepository creates the event repository
func ProvideEventRepository(
	client *awsdynamodb.Client,
	repoCfg dynamodb.Config,
	clk clock.Clock,
	logger *zap.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) *dynamodb.EventRepository {
	return dynamodb.NewEventRepository(client, repoCfg, clk, logger, metrics, tracer)
}

// ProvideVenueRepository creates the venue repository
func ProvideVenueRepository(
	client *awsdynamodb.Client,
	repoCfg dynamodb.Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
	tracer trace.Tracer,
) *dynamodb.VenueRepository {
	return dynamodb.NewVenueRepository(client, repoCfg, logger, metrics, tracer)
}

// ProvideCatalogService creates the catalog service
func ProvideCatalogService(
	events ports.EventRepository,
	venues ports.VenueRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *services.CatalogService {
	return services.NewCatalogService(events, venues, logger, cfg.SearchTimeout)
}

// ProvideEventPublisher creates the EventBridge publisher. Without a bus
// name sync completions are not published.
func ProvideEventPublisher(
	client *awseventbridge.Client,
	cfg *config.Config,
	clk clock.Clock,
	logger *zap.Logger,
) ports.EventPublisher {
	if cfg.EventBusName == "" {
		logger.Info("EVENT_BUS_NAME not set; sync events will not be published")
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, clk, logger)
}

// ProvideTicketmasterClient creates the Discovery API client
func ProvideTicketmasterClient(cfg *config.Config, logger *zap.Logger) *ticketmaster.Client {
	return ticketmaster.NewClient(ticketmaster.Config{
		APIKey:       cfg.TicketmasterAPIKey,
		BaseURL:      cfg.TicketmasterBaseURL,
		RateInterval: cfg.TicketmasterRateInterval,
	}, nil, logger)
}

// ProvideCatalogSource adapts the Ticketmaster client to the sync port.
func ProvideCatalogSource(client *ticketmaster.Client, clk clock.Clock, logger *zap.Logger) ports.CatalogSource {
	return ticketmaster.NewSource(client, clk, logger)
}

// ProvideSyncService creates the sync service
func ProvideSyncService(
	source ports.CatalogSource,
	catalog *services.CatalogService,
	publisher ports.EventPublisher,
	cfg *config.Config,
	clk clock.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *catalogsync.Service {
	return catalogsync.NewService(source, catalog, publisher, cfg.SyncCities, clk, metrics, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	catalog *services.CatalogService,
	sync *catalogsync.Service,
	metrics *observability.Metrics,
	logger *zap.Logger,
	errorHandler *errors.ErrorHandler,
	cfg *config.Config,
) *rest.Router {
	return rest.NewRouter(catalog, sync, metrics, logger, errorHandler, rest.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})
}

// ProvideHTTPHandler builds the routed handler
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
