package ticketmaster

// Discovery API payloads. Only the fields the catalog uses are decoded.

type tmName struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Image is a rendition attached to an event, venue or attraction.
type Image struct {
	URL      string `json:"url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Ratio    string `json:"ratio,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// EventDates holds the scheduling block of an event.
type EventDates struct {
	Start *struct {
		LocalDate string `json:"localDate,omitempty"`
		LocalTime string `json:"localTime,omitempty"`
		DateTime  string `json:"dateTime,omitempty"`
	} `json:"start,omitempty"`
	End *struct {
		LocalDate string `json:"localDate,omitempty"`
		LocalTime string `json:"localTime,omitempty"`
		DateTime  string `json:"dateTime,omitempty"`
	} `json:"end,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Status   *struct {
		Code string `json:"code,omitempty"`
	} `json:"status,omitempty"`
	DoorTime *struct {
		LocalTime string `json:"localTime,omitempty"`
	} `json:"doorTime,omitempty"`
}

// Classification places an event in the segment/genre tree.
type Classification struct {
	Primary  bool    `json:"primary,omitempty"`
	Segment  *tmName `json:"segment,omitempty"`
	Genre    *tmName `json:"genre,omitempty"`
	SubGenre *tmName `json:"subGenre,omitempty"`
}

// PriceRange is one advertised price band.
type PriceRange struct {
	Type     string   `json:"type,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// Event is a Discovery API event.
type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type,omitempty"`
	URL             string           `json:"url,omitempty"`
	Description     string           `json:"description,omitempty"`
	Info            string           `json:"info,omitempty"`
	PleaseNote      string           `json:"pleaseNote,omitempty"`
	Dates           *EventDates      `json:"dates,omitempty"`
	Classifications []Classification `json:"classifications,omitempty"`
	PriceRanges     []PriceRange     `json:"priceRanges,omitempty"`
	Images          []Image          `json:"images,omitempty"`
	Seatmap         *struct {
		StaticURL string `json:"staticUrl,omitempty"`
	} `json:"seatmap,omitempty"`
	TicketLimit *struct {
		Info string `json:"info,omitempty"`
	} `json:"ticketLimit,omitempty"`
	Embedded *struct {
		Venues      []Venue      `json:"venues,omitempty"`
		Attractions []Attraction `json:"attractions,omitempty"`
	} `json:"_embedded,omitempty"`
}

// Venue is a Discovery API venue.
type Venue struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	URL        string `json:"url,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	City       *struct {
		Name string `json:"name,omitempty"`
	} `json:"city,omitempty"`
	State *struct {
		Name      string `json:"name,omitempty"`
		StateCode string `json:"stateCode,omitempty"`
	} `json:"state,omitempty"`
	Country *struct {
		Name        string `json:"name,omitempty"`
		CountryCode string `json:"countryCode,omitempty"`
	} `json:"country,omitempty"`
	Address *struct {
		Line1 string `json:"line1,omitempty"`
		Line2 string `json:"line2,omitempty"`
	} `json:"address,omitempty"`
	Location *struct {
		Latitude  string `json:"latitude,omitempty"`
		Longitude string `json:"longitude,omitempty"`
	} `json:"location,omitempty"`
	Images        []Image `json:"images,omitempty"`
	ParkingDetail string  `json:"parkingDetail,omitempty"`
	BoxOfficeInfo *struct {
		PhoneNumberDetail string `json:"phoneNumberDetail,omitempty"`
	} `json:"boxOfficeInfo,omitempty"`
	GeneralInfo *struct {
		GeneralRule string `json:"generalRule,omitempty"`
	} `json:"generalInfo,omitempty"`
}

// Attraction is a performer or team.
type Attraction struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	URL    string  `json:"url,omitempty"`
	Images []Image `json:"images,omitempty"`
}

// PageInfo is the paging block of a search response.
type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type searchResponse struct {
	Embedded *struct {
		Events []Event `json:"events,omitempty"`
		Venues []Venue `json:"venues,omitempty"`
	} `json:"_embedded,omitempty"`
	Page PageInfo `json:"page"`
}

// EventPage is one page of an event search.
type EventPage struct {
	Events []Event
	Page   PageInfo
}

// VenuePage is one page of a venue search.
type VenuePage struct {
	Venues []Venue
	Page   PageInfo
}
