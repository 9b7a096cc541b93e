package ticketmaster

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// monthWindows is how far ahead a city fetch looks, one calendar month per window.
	monthWindows = 6
	// maxPagesPerWindow keeps size*page under the API's 1000-item deep paging limit.
	maxPagesPerWindow = 5
)

// Window is a closed time range searched as one unit.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindows returns n calendar-month windows in UTC starting with the
// month containing now. Each ends on its last day at 23:59:59.
func MonthWindows(now time.Time, n int) []Window {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	windows := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, i, 0)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

// FetchCityEvents collects upcoming events for a city across six monthly
// windows, deduplicated by id. A failing page ends its window and the fetch
// moves on; only context cancellation aborts.
func (c *Client) FetchCityEvents(ctx context.Context, now time.Time, city, stateCode string) ([]Event, error) {
	logger := c.logger.With(zap.String("city", city), zap.String("state_code", stateCode))
	seen := make(map[string]struct{})
	var events []Event

	for _, w := range MonthWindows(now, monthWindows) {
		for page := 0; page < maxPagesPerWindow; page++ {
			if err := ctx.Err(); err != nil {
				return events, err
			}

			result, err := c.SearchEvents(ctx, EventSearch{
				City:          city,
				StateCode:     stateCode,
				StartDateTime: w.Start,
				EndDateTime:   w.End,
				Size:          MaxPageSize,
				Page:          page,
			})
			if err != nil {
				if ctx.Err() != nil {
					return events, ctx.Err()
				}
				logger.Warn("failed to fetch events page",
					zap.Time("window_start", w.Start),
					zap.Int("page", page),
					zap.Error(err),
				)
				break
			}

			for _, e := range result.Events {
				if _, dup := seen[e.ID]; dup {
					continue
				}
				seen[e.ID] = struct{}{}
				events = append(events, e)
			}

			logger.Debug("fetched events page",
				zap.Time("window_start", w.Start),
				zap.Int("page", page),
				zap.Int("total_pages", result.Page.TotalPages),
				zap.Int("received", len(result.Events)),
				zap.Int("collected", len(events)),
			)

			if page+1 >= result.Page.TotalPages {
				break
			}
		}
	}

	logger.Info("fetched city events", zap.Int("events", len(events)))
	return events, nil
}
