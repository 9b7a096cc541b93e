// Package ticketmaster reads events and venues from the Ticketmaster Discovery API.
package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/ratelimit"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Discovery API v2 root.
	DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"
	// DefaultRateInterval keeps the client under five requests per second.
	DefaultRateInterval = 220 * time.Millisecond
	// MaxPageSize is the largest page the API serves.
	MaxPageSize = 200

	serviceName = "ticketmaster"
)

// Config configures a Client.
type Config struct {
	APIKey       string
	BaseURL      string
	RateInterval time.Duration
	HTTPTimeout  time.Duration

	// Breaker settings. Zero values take the defaults below.
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailureRate float64
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RateInterval == 0 {
		c.RateInterval = DefaultRateInterval
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 15 * time.Second
	}
	if c.BreakerMaxRequests == 0 {
		c.BreakerMaxRequests = 5
	}
	if c.BreakerInterval == 0 {
		c.BreakerInterval = 30 * time.Second
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = 60 * time.Second
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = 5
	}
	if c.BreakerFailureRate == 0 {
		c.BreakerFailureRate = 0.8
	}
	return c
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ticketmaster API error: %d - %s", e.StatusCode, e.Body)
}

// Client calls the Discovery API. Each client owns its rate limiter and
// circuit breaker.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a Discovery API client.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Client errors say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: ratelimit.New(cfg.RateInterval),
		breaker: breaker,
		logger:  logger,
	}
}

// EventSearch holds the filters of an event search.
type EventSearch struct {
	City               string
	StateCode          string
	CountryCode        string
	Keyword            string
	ClassificationName string
	StartDateTime      time.Time
	EndDateTime        time.Time
	Size               int
	Page               int
	Sort               string
}

func (s EventSearch) values() url.Values {
	v := url.Values{}
	setIf(v, "city", s.City)
	setIf(v, "stateCode", s.StateCode)
	setIf(v, "countryCode", orDefault(s.CountryCode, "US"))
	setIf(v, "keyword", s.Keyword)
	setIf(v, "classificationName", s.ClassificationName)
	if !s.StartDateTime.IsZero() {
		v.Set("startDateTime", formatAPITime(s.StartDateTime))
	}
	if !s.EndDateTime.IsZero() {
		v.Set("endDateTime", formatAPITime(s.EndDateTime))
	}
	v.Set("size", strconv.Itoa(pageSize(s.Size)))
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("sort", orDefault(s.Sort, "date,asc"))
	return v
}

// VenueSearch holds the filters of a venue search.
type VenueSearch struct {
	City        string
	StateCode   string
	CountryCode string
	Keyword     string
	Size        int
	Page        int
}

func (s VenueSearch) values() url.Values {
	v := url.Values{}
	setIf(v, "city", s.City)
	setIf(v, "stateCode", s.StateCode)
	setIf(v, "countryCode", orDefault(s.CountryCode, "US"))
	setIf(v, "keyword", s.Keyword)
	v.Set("size", strconv.Itoa(pageSize(s.Size)))
	v.Set("page", strconv.Itoa(s.Page))
	return v
}

// SearchEvents fetches one page of events.
func (c *Client) SearchEvents(ctx context.Context, s EventSearch) (*EventPage, error) {
	var resp searchResponse
	if err := c.get(ctx, "/events.json", s.values(), &resp); err != nil {
		return nil, err
	}
	page := &EventPage{Page: resp.Page}
	if resp.Embedded != nil {
		page.Events = resp.Embedded.Events
	}
	return page, nil
}

// SearchVenues fetches one page of venues.
func (c *Client) SearchVenues(ctx context.Context, s VenueSearch) (*VenuePage, error) {
	var resp searchResponse
	if err := c.get(ctx, "/venues.json", s.values(), &resp); err != nil {
		return nil, err
	}
	page := &VenuePage{Page: resp.Page}
	if resp.Embedded != nil {
		page.Venues = resp.Embedded.Venues
	}
	return page, nil
}

// GetEvent fetches one event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var e Event
	if err := c.get(ctx, "/events/"+url.PathEscape(id)+".json", nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetVenue fetches one venue by id.
func (c *Client) GetVenue(ctx context.Context, id string) (*Venue, error) {
	var v Venue
	if err := c.get(ctx, "/venues/"+url.PathEscape(id)+".json", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.cfg.APIKey)
	endpoint := c.cfg.BaseURL + path + "?" + params.Encode()

	c.logger.Debug("ticketmaster request", zap.String("path", path))

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return nil, json.NewDecoder(resp.Body).Decode(out)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return pkgerrors.NewUnavailableError(serviceName).WithCause(err)
	default:
		c.logger.Error("ticketmaster request failed", zap.String("path", path), zap.Error(err))
		return pkgerrors.NewExternalError(serviceName, err)
	}
}

func formatAPITime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func pageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
