package dynamodb

import (
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/domain/catalog"
)

// Attribute names shared by both tables.
const (
	attrPK         = "PK"
	attrSK         = "SK"
	attrGSI1PK     = "GSI1PK"
	attrGSI1SK     = "GSI1SK"
	attrGSI2PK     = "GSI2PK"
	attrGSI2SK     = "GSI2SK"
	attrGSI3PK     = "GSI3PK"
	attrGSI3SK     = "GSI3SK"
	attrEntityType = "entityType"
	attrData       = "data"
	attrSearchName = "searchName"
)

// Entity type discriminators.
const (
	EntityTypeEvent = "EVENT"
	EntityTypeVenue = "VENUE"
)

const (
	prefixEvent    = "EVENT#"
	prefixVenue    = "VENUE#"
	prefixCity     = "CITY#"
	prefixCategory = "CATEGORY#"
	prefixDate     = "DATE#"

	// Sorts after every event id so the last day of a range is included.
	// Ids that sort after "zzz" on the final day are missed.
	upperBoundSuffix = "zzz"
)

// Keys holds the full key material of one item. Venue items leave GSI2/GSI3 empty.
type Keys struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string
	GSI2PK string
	GSI2SK string
	GSI3PK string
	GSI3SK string
}

// Normalize lowercases s and collapses every run of whitespace into one
// underscore. It is applied identically when writing and querying city keys.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// BuildEventKeys derives every key of an event item.
func BuildEventKeys(e catalog.Event) Keys {
	primary := prefixEvent + e.ID
	sort := eventSortKey(e.LocalDate, e.ID)
	return Keys{
		PK:     primary,
		SK:     primary,
		GSI1PK: CityPartition(e.VenueCity),
		GSI1SK: sort,
		GSI2PK: CategoryPartition(e.Category),
		GSI2SK: sort,
		GSI3PK: VenuePartition(e.VenueID),
		GSI3SK: sort,
	}
}

// BuildVenueKeys derives every key of a venue item.
func BuildVenueKeys(v catalog.Venue) Keys {
	primary := prefixVenue + v.ID
	return Keys{
		PK:     primary,
		SK:     primary,
		GSI1PK: CityPartition(v.City),
		GSI1SK: primary,
	}
}

// CityPartition is the city index partition key. An empty city yields "CITY#".
func CityPartition(city string) string {
	return prefixCity + Normalize(city)
}

// CategoryPartition is the category index partition key.
func CategoryPartition(c catalog.Category) string {
	return prefixCategory + string(c)
}

// VenuePartition is the venue index partition key for events.
func VenuePartition(venueID string) string {
	return prefixVenue + venueID
}

func eventSortKey(localDate, id string) string {
	return prefixDate + localDate + "#" + prefixEvent + id
}

// dateRange returns the inclusive sort key bounds covering every event dated
// from..to.
func dateRange(from, to string) (lower, upper string) {
	return prefixDate + from, prefixDate + to + "#" + prefixEvent + upperBoundSuffix
}

func primaryKey(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: pk},
	}
}

func eventKey(id string) map[string]types.AttributeValue {
	return primaryKey(prefixEvent + id)
}

func venueKey(id string) map[string]types.AttributeValue {
	return primaryKey(prefixVenue + id)
}
