// Package sync ingests upstream catalogs city by city into the store.
package sync

import (
	"context"
	"time"

	"github.com/gabeliss/tickX/application/ports"
	"github.com/gabeliss/tickX/application/services"
	"github.com/gabeliss/tickX/domain/catalog"
	"github.com/gabeliss/tickX/pkg/clock"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DetailTypeCompleted is the integration event published after every run.
const DetailTypeCompleted = "catalog.sync.completed"

// DefaultCities are synced when no city list is configured.
var DefaultCities = []ports.CityTarget{
	{City: "Chicago", StateCode: "IL"},
	{City: "New York", StateCode: "NY"},
}

// Catalog is the write side the sync feeds.
type Catalog interface {
	UpsertEvents(ctx context.Context, events []catalog.Event) services.UpsertResult
	UpsertVenues(ctx context.Context, venues []catalog.Venue) services.UpsertResult
}

// CityResult reports one city of a run. A city that failed to fetch carries
// Error and zero counts.
type CityResult struct {
	City           string `json:"city"`
	EventsFound    int    `json:"eventsFound"`
	EventsSaved    int    `json:"eventsSaved"`
	EventsFailed   int    `json:"eventsFailed"`
	EventsRejected int    `json:"eventsRejected"`
	VenuesFound    int    `json:"venuesFound"`
	VenuesSaved    int    `json:"venuesSaved"`
	VenuesFailed   int    `json:"venuesFailed"`
	Error          string `json:"error,omitempty"`
	// Retryable marks a fetch failure that a later run may get past,
	// such as an open circuit or a timeout.
	Retryable      bool   `json:"retryable,omitempty"`
}

// Totals sums saved records across cities.
type Totals struct {
	Events int `json:"events"`
	Venues int `json:"venues"`
}

// Report is the outcome of one sync run.
type Report struct {
	RunID     string       `json:"runId"`
	StartedAt time.Time    `json:"startedAt"`
	Duration  string       `json:"duration"`
	Results   []CityResult `json:"results"`
	Totals    Totals       `json:"totals"`
}

// Service runs syncs.
type Service struct {
	source    ports.CatalogSource
	catalog   Catalog
	publisher ports.EventPublisher
	cities    []ports.CityTarget
	clock     clock.Clock
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewService creates a sync service. publisher and metrics may be nil.
func NewService(
	source ports.CatalogSource,
	catalog Catalog,
	publisher ports.EventPublisher,
	cities []ports.CityTarget,
	clk clock.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Service {
	if len(cities) == 0 {
		cities = DefaultCities
	}
	return &Service{
		source:    source,
		catalog:   catalog,
		publisher: publisher,
		cities:    cities,
		clock:     clk,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run syncs every configured city in order. Individual city failures are
// recorded in the report and never abort the run.
func (s *Service) Run(ctx context.Context) *Report {
	start := s.clock.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: start,
		Results:   make([]CityResult, 0, len(s.cities)),
	}
	logger := s.logger.With(zap.String("run_id", report.RunID))
	logger.Info("sync started", zap.Int("cities", len(s.cities)))

	for _, target := range s.cities {
		if ctx.Err() != nil {
			report.Results = append(report.Results, CityResult{City: target.String(), Error: ctx.Err().Error()})
			s.metrics.IncSyncCity("failed")
			continue
		}

		result := s.syncCity(ctx, logger, target)
		report.Results = append(report.Results, result)
		report.Totals.Events += result.EventsSaved
		report.Totals.Venues += result.VenuesSaved
	}

	report.Duration = s.clock.Now().Sub(start).String()
	logger.Info("sync completed",
		zap.String("duration", report.Duration),
		zap.Int("events_saved", report.Totals.Events),
		zap.Int("venues_saved", report.Totals.Venues),
	)

	s.publish(ctx, logger, report)
	return report
}

func (s *Service) syncCity(ctx context.Context, logger *zap.Logger, target ports.CityTarget) CityResult {
	result := CityResult{City: target.String()}
	logger = logger.With(zap.String("city", result.City))

	fetched, err := s.source.FetchCity(ctx, target)
	if err != nil {
		result.Error = err.Error()
		result.Retryable = pkgerrors.IsRetryable(err)
		logger.Error("failed to fetch city", zap.Error(err), zap.Bool("retryable", result.Retryable))
		s.metrics.IncSyncCity("failed")
		return result
	}

	result.EventsFound = fetched.EventsFound
	if fetched.EventsFound == 0 {
		logger.Info("no events found")
		s.metrics.IncSyncCity("empty")
		return result
	}

	venues := dedupeVenues(fetched.Venues)
	result.VenuesFound = len(venues)
	logger.Info("transformed city catalog",
		zap.Int("events", len(fetched.Events)),
		zap.Int("venues", len(venues)),
		zap.Int("dropped", fetched.Dropped),
	)

	// Venues go first so every stored event can resolve its venue.
	if len(venues) > 0 {
		vr := s.catalog.UpsertVenues(ctx, venues)
		result.VenuesSaved = vr.Saved
		result.VenuesFailed = vr.Failed + vr.Rejected
		s.metrics.AddSyncRecords("venues", vr.Saved, vr.Failed, vr.Rejected)
	}

	result.EventsRejected = fetched.Dropped
	if len(fetched.Events) > 0 {
		er := s.catalog.UpsertEvents(ctx, fetched.Events)
		result.EventsSaved = er.Saved
		result.EventsFailed = er.Failed
		result.EventsRejected += er.Rejected
		s.metrics.AddSyncRecords("events", er.Saved, er.Failed, er.Rejected+fetched.Dropped)
	}

	logger.Info("city synced",
		zap.Int("events_saved", result.EventsSaved),
		zap.Int("events_failed", result.EventsFailed),
		zap.Int("events_rejected", result.EventsRejected),
		zap.Int("venues_saved", result.VenuesSaved),
	)
	s.metrics.IncSyncCity("success")
	return result
}

// publish announces the run. Failures are logged only.
func (s *Service) publish(ctx context.Context, logger *zap.Logger, report *Report) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), DetailTypeCompleted, report); err != nil {
		logger.Warn("failed to publish sync completion", zap.Error(err))
	}
}

func dedupeVenues(venues []catalog.Venue) []catalog.Venue {
	seen := make(map[string]struct{}, len(venues))
	unique := make([]catalog.Venue, 0, len(venues))
	for _, v := range venues {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}
