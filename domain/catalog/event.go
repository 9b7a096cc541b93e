package catalog

import (
	"fmt"
	"time"

	"github.com/gabeliss/tickX/pkg/utils"
)

// Event is one ticketed occurrence at a venue. Venue fields are denormalized
// so list reads never need a second lookup.
type Event struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category" validate:"omitempty,oneof=concert sports theater festival comedy other"`
	Status      Status   `json:"status" validate:"omitempty,oneof=scheduled postponed cancelled rescheduled"`

	EventDate string `json:"eventDate"`
	LocalDate string `json:"localDate" validate:"required,datetime=2006-01-02"`
	LocalTime string `json:"localTime,omitempty"`
	Timezone  string `json:"timezone"`
	DoorTime  string `json:"doorTime,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	VenueID        string `json:"venueId"`
	VenueName      string `json:"venueName"`
	VenueCity      string `json:"venueCity" validate:"required"`
	VenueState     string `json:"venueState"`
	VenueStateCode string `json:"venueStateCode"`

	ImageURL     string       `json:"imageUrl"`
	ThumbnailURL string       `json:"thumbnailUrl,omitempty"`
	Images       []EventImage `json:"images,omitempty"`

	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Currency string   `json:"currency,omitempty"`

	Attractions []Attraction `json:"attractions,omitempty"`

	Segment  string `json:"segment,omitempty"`
	Genre    string `json:"genre,omitempty"`
	SubGenre string `json:"subGenre,omitempty"`

	URL            string `json:"url,omitempty"`
	SeatmapURL     string `json:"seatmapUrl,omitempty"`
	PleaseNote     string `json:"pleaseNote,omitempty"`
	TicketLimit    *int   `json:"ticketLimit,omitempty"`
	AgeRestriction string `json:"ageRestriction,omitempty"`

	IsFeatured   bool `json:"isFeatured"`
	ListingCount int  `json:"listingCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Source    string    `json:"source"`
}

// Attraction is a performer, team or act appearing at an event.
type Attraction struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	URL      string `json:"url,omitempty"`
}

// EventImage is one rendition of an event's artwork.
type EventImage struct {
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Ratio    string `json:"ratio,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Validate checks the fields required before an event may be stored.
func (e *Event) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrValidationRejected)
	}
	if err := utils.ValidateStruct(e); err != nil {
		return fmt.Errorf("%w: event %q: %v", ErrValidationRejected, e.ID, err)
	}
	return nil
}
