package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gabeliss/tickX/domain/catalog"
	pkgerrors "github.com/gabeliss/tickX/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearchCatalog(t *testing.T, repo *EventRepository) {
	t.Helper()
	ctx := context.Background()

	concert := testEvent("c1", "Chicago", "2025-06-10")
	concert.Name = "Summer Nights"
	concert.Attractions = []catalog.Attraction{{ID: "a1", Name: "Taylor Swift"}}

	rock := testEvent("r1", "New York", "2025-06-05")
	rock.Name = "Madison Square Special"
	rock.Genre = "Rock"
	rock.VenueName = "Madison Square Garden"

	game := testEvent("g1", "Chicago", "2025-06-01")
	game.Name = "Bulls vs Knicks"
	game.Category = catalog.CategorySports
	game.SubGenre = "NBA"

	old := testEvent("old", "Chicago", "2025-04-01")
	old.Name = "Taylor Swift Retrospective"

	suburb := testEvent("s1", "West Chicago", "2025-06-03")
	suburb.Name = "Taylor Swift Tribute"

	for _, e := range []catalog.Event{concert, rock, game, old, suburb} {
		require.NoError(t, repo.Put(ctx, e))
	}
	// A venue item in the events table must never surface as an event.
	venue, err := NewVenueItem(catalog.Venue{ID: "taylor", Name: "Taylor Swift Hall", City: "Chicago"}).Attributes()
	require.NoError(t, err)
	repo.table.client.(*fakeAPI).seed(repo.table.name, venue)
}

func TestSearchExhaustive_MatchFields(t *testing.T) {
	api := newFakeAPI()
	api.scanPageSize = 2
	repo := newTestEventRepository(t, api, testNow)
	seedSearchCatalog(t, repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    catalog.SearchQuery
		expected []string
	}{
		{"attraction name only", catalog.SearchQuery{Keyword: "taylor"}, []string{"s1", "c1"}},
		{"event name", catalog.SearchQuery{Keyword: "BULLS"}, []string{"g1"}},
		{"genre", catalog.SearchQuery{Keyword: "rock"}, []string{"r1"}},
		{"subgenre", catalog.SearchQuery{Keyword: "nba"}, []string{"g1"}},
		{"venue name", catalog.SearchQuery{Keyword: "garden"}, []string{"r1"}},
		{"no match", catalog.SearchQuery{Keyword: "opera"}, []string{}},
		{"synonym city is exact", catalog.SearchQuery{Keyword: "taylor", City: "chicago"}, []string{"c1"}},
		{"other city is substring", catalog.SearchQuery{Keyword: "taylor", City: "west"}, []string{"s1"}},
		{"new_york synonym", catalog.SearchQuery{Keyword: "s", City: "new_york"}, []string{"r1"}},
		{"category filter", catalog.SearchQuery{Keyword: "s", Category: catalog.CategorySports}, []string{"g1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.SearchExhaustive(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eventIDs(result.Items))
			assert.Equal(t, len(tt.expected), result.TotalItems)
		})
	}
}

func TestSearchExhaustive_ScansEveryPage(t *testing.T) {
	api := newFakeAPI()
	api.scanPageSize = 2
	repo := newTestEventRepository(t, api, testNow)
	seedSearchCatalog(t, repo)

	_, err := repo.SearchExhaustive(context.Background(), catalog.SearchQuery{Keyword: "x"})
	require.NoError(t, err)

	// Six items at two per page.
	require.Len(t, api.scanInputs, 3)
	assert.Nil(t, api.scanInputs[0].ExclusiveStartKey)
	assert.NotNil(t, api.scanInputs[1].ExclusiveStartKey)
	assert.Equal(t, "#0 = :0", aws.ToString(api.scanInputs[0].FilterExpression))
}

func TestSearchExhaustive_TruncatesAndCountsTotal(t *testing.T) {
	api := newFakeAPI()
	repo := newTestEventRepository(t, api, testNow)
	ctx := context.Background()
	for i := 0; i < 30; i++ {
		e := testEvent(fmt.Sprintf("e%02d", i), "Chicago", fmt.Sprintf("2025-07-%02d", 30-i))
		e.Name = "Jazz Night"
		require.NoError(t, repo.Put(ctx, e))
	}

	result, err := repo.SearchExhaustive(ctx, catalog.SearchQuery{Keyword: "jazz", PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, result.Items, 10)
	assert.Equal(t, 30, result.TotalItems)
	assert.True(t, result.HasMore)
	assert.Equal(t, "2025-07-01", result.Items[0].LocalDate)
	assert.Equal(t, "2025-07-10", result.Items[9].LocalDate)

	defaults, err := repo.SearchExhaustive(ctx, catalog.SearchQuery{Keyword: "jazz"})
	require.NoError(t, err)
	assert.Len(t, defaults.Items, DefaultSearchPageSize)
}

func TestSearchExhaustive_Errors(t *testing.T) {
	t.Run("scan error propagates", func(t *testing.T) {
		api := newFakeAPI()
		api.scanErr = errors.New("boom")
		repo := newTestEventRepository(t, api, testNow)

		_, err := repo.SearchExhaustive(context.Background(), catalog.SearchQuery{Keyword: "x"})

		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	})

	t.Run("cancelled context stops before scanning", func(t *testing.T) {
		api := newFakeAPI()
		repo := newTestEventRepository(t, api, testNow)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := repo.SearchExhaustive(ctx, catalog.SearchQuery{Keyword: "x"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, api.scanInputs)
	})
}

func TestSearchIndexed_BuildsSingleFilteredScan(t *testing.T) {
	api := newFakeAPI()
	repo := newTestEventRepository(t, api, testNow)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, testEvent("a", "Chicago", "2025-06-01")))

	result, err := repo.SearchIndexed(ctx, catalog.SearchQuery{
		Keyword:  "Event",
		City:     "chicago",
		Category: catalog.CategoryConcert,
	})
	require.NoError(t, err)

	require.Len(t, api.scanInputs, 1)
	in := api.scanInputs[0]
	assert.Equal(t, int32(indexedScanLimit), aws.ToInt32(in.Limit))
	assert.Nil(t, in.ExclusiveStartKey)

	filter := aws.ToString(in.FilterExpression)
	assert.Contains(t, filter, "contains (")
	assert.Contains(t, filter, ">=")

	var names, values []string
	for _, n := range in.ExpressionAttributeNames {
		names = append(names, n)
	}
	for _, v := range in.ExpressionAttributeValues {
		if s, ok := str(v); ok {
			values = append(values, s)
		}
	}
	assert.ElementsMatch(t, []string{"entityType", "data", "localDate", "searchName", "venueCity", "category"}, names)
	assert.Subset(t, values, []string{"EVENT", "2025-05-20", "event", "Chicago", "concert"})

	assert.Equal(t, []string{"a"}, eventIDs(result.Items))
}

func TestSearchIndexed_FiltersByDateNameCityAndCategory(t *testing.T) {
	api := newFakeAPI()
	repo := newTestEventRepository(t, api, testNow)
	ctx := context.Background()

	named := func(id, name, city, date string, category catalog.Category) catalog.Event {
		e := testEvent(id, city, date)
		e.Name = name
		e.Category = category
		return e
	}
	for _, e := range []catalog.Event{
		named("match", "Rock Night", "Chicago", "2025-06-01", catalog.CategoryConcert),
		named("today", "Rock Today", "Chicago", "2025-05-20", catalog.CategoryConcert),
		named("past", "Rock Yesterday", "Chicago", "2025-05-19", catalog.CategoryConcert),
		named("jazz", "Jazz Hour", "Chicago", "2025-06-02", catalog.CategoryConcert),
		named("ny", "Rock NY", "New York", "2025-06-03", catalog.CategoryConcert),
		named("bowl", "Rock Bowl", "Chicago", "2025-06-04", catalog.CategorySports),
	} {
		require.NoError(t, repo.Put(ctx, e))
	}
	require.NoError(t, NewVenueRepository(api, Config{VenuesTable: DefaultConfig().EventsTable}, nil, nil, nil).
		Put(ctx, catalog.Venue{ID: "rock-venue", Name: "Rock Hall", City: "Chicago"}))

	filtered, err := repo.SearchIndexed(ctx, catalog.SearchQuery{
		Keyword:  "ROCK",
		City:     "chicago",
		Category: catalog.CategoryConcert,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "match"}, eventIDs(filtered.Items))
	assert.Equal(t, 2, filtered.TotalItems)

	keywordOnly, err := repo.SearchIndexed(ctx, catalog.SearchQuery{Keyword: "rock"})
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "match", "ny", "bowl"}, eventIDs(keywordOnly.Items))
}

func TestEventMatcher_SkipsIncompleteRecords(t *testing.T) {
	match := newEventMatcher(catalog.SearchQuery{Keyword: ""}, "2025-05-20")

	assert.True(t, match(testEvent("a", "Chicago", "2025-05-20")))
	assert.False(t, match(catalog.Event{ID: "x", LocalDate: "2025-06-01"}))
	assert.False(t, match(catalog.Event{ID: "x", Name: "No date"}))
}
