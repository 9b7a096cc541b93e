package dynamodb

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/domain/catalog"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultSearchPageSize applies when a search does not name a page size.
	DefaultSearchPageSize = 20
	// indexedScanLimit bounds the single scan page read by SearchIndexed.
	indexedScanLimit = 1000
)

// citySynonyms maps the normalized keys of supported cities to their stored display names.
var citySynonyms = map[string]string{
	"chicago":  "Chicago",
	"new_york": "New York",
}

// SearchIndexed pushes every predicate into one bounded scan page. Results
// can be incomplete on large tables; SearchExhaustive is the complete variant.
func (r *EventRepository) SearchIndexed(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error) {
	filter := expression.Name(attrEntityType).Equal(expression.Value(EntityTypeEvent)).
		And(expression.Name(attrData + ".localDate").GreaterThanEqual(expression.Value(r.today()))).
		And(expression.Name(attrSearchName).Contains(strings.ToLower(q.Keyword)))

	if q.City != "" {
		city := q.City
		if display, ok := citySynonyms[q.City]; ok {
			city = display
		}
		filter = filter.And(expression.Name(attrData + ".venueCity").Equal(expression.Value(city)))
	}
	if q.Category != "" {
		filter = filter.And(expression.Name(attrData + ".category").Equal(expression.Value(string(q.Category))))
	}

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build scan filter").WithCause(err)
	}

	out, err := r.table.scan(ctx, &dynamodb.ScanInput{
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(indexedScanLimit),
	})
	if err != nil {
		return nil, err
	}

	return paginateMatches(r.decodeEvents(out.Items), q.PageSize), nil
}

// SearchExhaustive scans the whole table, then filters, sorts and truncates
// in memory. TotalItems is the match count before truncation. The context is
// checked between scan pages, so a deadline yields an error rather than a
// partial result.
func (r *EventRepository) SearchExhaustive(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name(attrEntityType).Equal(expression.Value(EntityTypeEvent))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build scan filter").WithCause(err)
	}

	match := newEventMatcher(q, r.today())
	var (
		matches   []catalog.Event
		lastKey   map[string]types.AttributeValue
		pages     int
		inspected int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, wrapError("Scan", r.table.name, err)
		}

		out, err := r.table.scan(ctx, &dynamodb.ScanInput{
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, err
		}
		pages++

		for _, e := range r.decodeEvents(out.Items) {
			inspected++
			if match(e) {
				matches = append(matches, e)
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	r.logger.Debug("exhaustive search completed",
		zap.String("keyword", q.Keyword),
		zap.Int("pages", pages),
		zap.Int("inspected", inspected),
		zap.Int("matches", len(matches)))

	return paginateMatches(matches, q.PageSize), nil
}

func paginateMatches(events []catalog.Event, pageSize int) *catalog.SearchResult {
	if pageSize <= 0 {
		pageSize = DefaultSearchPageSize
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].LocalDate != events[j].LocalDate {
			return events[i].LocalDate < events[j].LocalDate
		}
		return events[i].ID < events[j].ID
	})

	total := len(events)
	if len(events) > pageSize {
		events = events[:pageSize]
	}
	if events == nil {
		events = []catalog.Event{}
	}
	return &catalog.SearchResult{
		Items:      events,
		TotalItems: total,
		HasMore:    total > pageSize,
	}
}

// newEventMatcher builds the in-memory predicate of SearchExhaustive.
func newEventMatcher(q catalog.SearchQuery, today string) func(catalog.Event) bool {
	keyword := strings.ToLower(q.Keyword)
	city := q.City
	cityLower := strings.ToLower(city)
	synonym, hasSynonym := citySynonyms[city]

	contains := func(field string) bool {
		return field != "" && strings.Contains(strings.ToLower(field), keyword)
	}

	return func(e catalog.Event) bool {
		if e.LocalDate == "" || e.Name == "" {
			return false
		}
		if e.LocalDate < today {
			return false
		}
		if city != "" {
			if hasSynonym {
				if e.VenueCity != synonym {
					return false
				}
			} else if !strings.Contains(strings.ToLower(e.VenueCity), cityLower) {
				return false
			}
		}
		if q.Category != "" && e.Category != q.Category {
			return false
		}

		if contains(e.Name) {
			return true
		}
		for _, a := range e.Attractions {
			if contains(a.Name) {
				return true
			}
		}
		return contains(e.Genre) || contains(e.SubGenre) || contains(e.VenueName)
	}
}
