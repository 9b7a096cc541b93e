package ticketmaster

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gabeliss/tickX/domain/catalog"
)

const (
	defaultTimezone = "America/New_York"
	defaultCurrency = "USD"
)

var segmentCategories = map[string]catalog.Category{
	"Music":          catalog.CategoryConcert,
	"Sports":         catalog.CategorySports,
	"Arts & Theatre": catalog.CategoryTheater,
	"Film":           catalog.CategoryOther,
	"Miscellaneous":  catalog.CategoryOther,
	"Comedy":         catalog.CategoryComedy,
	"Festival":       catalog.CategoryFestival,
}

var statusCodes = map[string]catalog.Status{
	"onsale":      catalog.StatusScheduled,
	"offsale":     catalog.StatusScheduled,
	"cancelled":   catalog.StatusCancelled,
	"postponed":   catalog.StatusPostponed,
	"rescheduled": catalog.StatusRescheduled,
}

// TransformEvent maps a Discovery event onto a catalog event. It returns
// false when the event lacks an id, name, venue or start date.
func TransformEvent(e Event, now time.Time) (catalog.Event, bool) {
	if e.ID == "" || e.Name == "" {
		return catalog.Event{}, false
	}
	venue := firstVenue(e)
	if venue == nil {
		return catalog.Event{}, false
	}
	if e.Dates == nil || e.Dates.Start == nil || e.Dates.Start.LocalDate == "" {
		return catalog.Event{}, false
	}
	dates := e.Dates
	start := dates.Start

	out := catalog.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: orDefault(e.Description, e.Info),
		Category:    catalog.CategoryOther,
		Status:      catalog.StatusScheduled,
		LocalDate:   start.LocalDate,
		LocalTime:   start.LocalTime,
		Timezone:    firstNonEmpty(dates.Timezone, venue.Timezone, defaultTimezone),
		VenueID:     venue.ID,
		VenueName:   venue.Name,
		Currency:    defaultCurrency,
		URL:         e.URL,
		PleaseNote:  e.PleaseNote,
		CreatedAt:   now,
		UpdatedAt:   now,
		Source:      catalog.SourceTicketmaster,
	}

	switch {
	case start.LocalTime != "":
		out.EventDate = start.LocalDate + "T" + start.LocalTime
	case start.DateTime != "":
		out.EventDate = start.DateTime
	default:
		out.EventDate = start.LocalDate
	}
	if dates.DoorTime != nil {
		out.DoorTime = dates.DoorTime.LocalTime
	}
	if dates.End != nil {
		out.EndDate = dates.End.DateTime
	}
	if dates.Status != nil && dates.Status.Code != "" {
		if s, ok := statusCodes[dates.Status.Code]; ok {
			out.Status = s
		}
	}

	if venue.City != nil {
		out.VenueCity = venue.City.Name
	}
	if venue.State != nil {
		out.VenueState = venue.State.Name
		out.VenueStateCode = venue.State.StateCode
	}

	if c := primaryClassification(e.Classifications); c != nil {
		segment := "Miscellaneous"
		if c.Segment != nil && c.Segment.Name != "" {
			segment = c.Segment.Name
			out.Segment = c.Segment.Name
		}
		if cat, ok := segmentCategories[segment]; ok {
			out.Category = cat
		}
		if c.Genre != nil {
			out.Genre = c.Genre.Name
		}
		if c.SubGenre != nil {
			out.SubGenre = c.SubGenre.Name
		}
	}

	if pr := pickPriceRange(e.PriceRanges); pr != nil {
		out.MinPrice = pr.Min
		out.MaxPrice = pr.Max
		out.Currency = orDefault(pr.Currency, defaultCurrency)
	}

	out.ImageURL, out.ThumbnailURL = selectImages(e.Images)
	for _, img := range e.Images {
		out.Images = append(out.Images, catalog.EventImage{
			URL:      img.URL,
			Width:    img.Width,
			Height:   img.Height,
			Ratio:    img.Ratio,
			Fallback: img.Fallback,
		})
	}

	if e.Embedded != nil {
		for _, a := range e.Embedded.Attractions {
			attraction := catalog.Attraction{ID: a.ID, Name: a.Name, Type: a.Type, URL: a.URL}
			if len(a.Images) > 0 {
				attraction.ImageURL = a.Images[0].URL
			}
			out.Attractions = append(out.Attractions, attraction)
		}
	}

	if e.Seatmap != nil {
		out.SeatmapURL = e.Seatmap.StaticURL
	}
	if e.TicketLimit != nil {
		if n, err := strconv.Atoi(leadingDigits(e.TicketLimit.Info)); err == nil && n > 0 {
			out.TicketLimit = &n
		}
	}

	return out, true
}

// TransformVenue maps a Discovery venue onto a catalog venue. It returns
// false when the venue lacks an id or name.
func TransformVenue(v Venue, now time.Time) (catalog.Venue, bool) {
	if v.ID == "" || v.Name == "" {
		return catalog.Venue{}, false
	}

	out := catalog.Venue{
		ID:          v.ID,
		Name:        v.Name,
		Country:     "United States",
		CountryCode: "US",
		PostalCode:  v.PostalCode,
		Timezone:    orDefault(v.Timezone, defaultTimezone),
		URL:         v.URL,
		ParkingInfo: v.ParkingDetail,
		CreatedAt:   now,
		UpdatedAt:   now,
		Source:      catalog.SourceTicketmaster,
	}

	if v.Address != nil {
		var parts []string
		for _, line := range []string{v.Address.Line1, v.Address.Line2} {
			if line != "" {
				parts = append(parts, line)
			}
		}
		out.Address = strings.Join(parts, ", ")
	}
	if v.City != nil {
		out.City = v.City.Name
	}
	if v.State != nil {
		out.State = v.State.Name
		out.StateCode = v.State.StateCode
	}
	if v.Country != nil {
		out.Country = orDefault(v.Country.Name, out.Country)
		out.CountryCode = orDefault(v.Country.CountryCode, out.CountryCode)
	}
	if v.Location != nil {
		out.Latitude = parseCoordinate(v.Location.Latitude)
		out.Longitude = parseCoordinate(v.Location.Longitude)
	}
	if img := preferredVenueImage(v.Images); img != nil {
		out.ImageURL = img.URL
	}
	if v.BoxOfficeInfo != nil {
		out.BoxOfficeInfo = v.BoxOfficeInfo.PhoneNumberDetail
	}
	if v.GeneralInfo != nil {
		out.GeneralInfo = v.GeneralInfo.GeneralRule
	}

	return out, true
}

func firstVenue(e Event) *Venue {
	if e.Embedded == nil || len(e.Embedded.Venues) == 0 {
		return nil
	}
	return &e.Embedded.Venues[0]
}

func primaryClassification(cs []Classification) *Classification {
	for i := range cs {
		if cs[i].Primary {
			return &cs[i]
		}
	}
	return nil
}

// pickPriceRange prefers the standard range, falling back to the first.
func pickPriceRange(ranges []PriceRange) *PriceRange {
	for i := range ranges {
		if ranges[i].Type == "standard" {
			return &ranges[i]
		}
	}
	if len(ranges) > 0 {
		return &ranges[0]
	}
	return nil
}

// selectImages ranks images non-fallback first, then 16_9, then widest.
// The thumbnail is the best-ranked image 300 to 500px wide, else the last.
func selectImages(images []Image) (imageURL, thumbnailURL string) {
	if len(images) == 0 {
		return "", ""
	}

	ranked := make([]Image, len(images))
	copy(ranked, images)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Fallback != b.Fallback {
			return !a.Fallback
		}
		if (a.Ratio == "16_9") != (b.Ratio == "16_9") {
			return a.Ratio == "16_9"
		}
		return a.Width > b.Width
	})

	thumb := ranked[len(ranked)-1]
	for _, img := range ranked {
		if img.Width >= 300 && img.Width <= 500 {
			thumb = img
			break
		}
	}
	return ranked[0].URL, thumb.URL
}

func preferredVenueImage(images []Image) *Image {
	for i := range images {
		if images[i].Ratio == "16_9" {
			return &images[i]
		}
	}
	if len(images) > 0 {
		return &images[0]
	}
	return nil
}

func parseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
