package catalog

import "strings"

// Category classifies an event.
type Category string

const (
	CategoryConcert  Category = "concert"
	CategorySports   Category = "sports"
	CategoryTheater  Category = "theater"
	CategoryFestival Category = "festival"
	CategoryComedy   Category = "comedy"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryConcert,
	CategorySports,
	CategoryTheater,
	CategoryFestival,
	CategoryComedy,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory returns the category for s and whether it is known.
// Matching ignores case and surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.IsValid()
}

// Status is the lifecycle state of an event.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusPostponed   Status = "postponed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Source tags where a record came from.
const SourceTicketmaster = "ticketmaster"
