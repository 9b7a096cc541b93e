package catalog

import (
	"fmt"
	"time"

	"github.com/gabeliss/tickX/pkg/utils"
)

// Venue is a physical location hosting events.
type Venue struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	StateCode   string   `json:"stateCode"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	PostalCode  string   `json:"postalCode"`
	Timezone    string   `json:"timezone"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	URL         string   `json:"url,omitempty"`

	ParkingInfo   string `json:"parkingInfo,omitempty"`
	BoxOfficeInfo string `json:"boxOfficeInfo,omitempty"`
	GeneralInfo   string `json:"generalInfo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Source    string    `json:"source"`
}

// Validate checks the fields required before a venue may be stored.
func (v *Venue) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: nil venue", ErrValidationRejected)
	}
	if err := utils.ValidateStruct(v); err != nil {
		return fmt.Errorf("%w: venue %q: %v", ErrValidationRejected, v.ID, err)
	}
	return nil
}
