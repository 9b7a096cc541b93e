package dynamodb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gabeliss/tickX/domain/catalog"
)

var errItemWithoutKeys = errors.New("item has no derived keys; build it with NewEventItem or NewVenueItem")

// Records use their json tags as attribute names.
func jsonTags(o *attributevalue.EncoderOptions) { o.TagKey = "json" }

func jsonTagsDecode(o *attributevalue.DecoderOptions) { o.TagKey = "json" }

type eventRecord struct {
	PK         string        `json:"PK"`
	SK         string        `json:"SK"`
	GSI1PK     string        `json:"GSI1PK"`
	GSI1SK     string        `json:"GSI1SK"`
	GSI2PK     string        `json:"GSI2PK"`
	GSI2SK     string        `json:"GSI2SK"`
	GSI3PK     string        `json:"GSI3PK"`
	GSI3SK     string        `json:"GSI3SK"`
	EntityType string        `json:"entityType"`
	SearchName string        `json:"searchName"`
	Data       catalog.Event `json:"data"`
}

type venueRecord struct {
	PK         string        `json:"PK"`
	SK         string        `json:"SK"`
	GSI1PK     string        `json:"GSI1PK"`
	GSI1SK     string        `json:"GSI1SK"`
	EntityType string        `json:"entityType"`
	Data       catalog.Venue `json:"data"`
}

// EventItem is the storable form of an event. Its fields are unexported so
// the only way to obtain one with keys is NewEventItem.
type EventItem struct {
	rec eventRecord
}

// NewEventItem derives all keys for e and wraps it for storage.
func NewEventItem(e catalog.Event) EventItem {
	k := BuildEventKeys(e)
	return EventItem{rec: eventRecord{
		PK:         k.PK,
		SK:         k.SK,
		GSI1PK:     k.GSI1PK,
		GSI1SK:     k.GSI1SK,
		GSI2PK:     k.GSI2PK,
		GSI2SK:     k.GSI2SK,
		GSI3PK:     k.GSI3PK,
		GSI3SK:     k.GSI3SK,
		EntityType: EntityTypeEvent,
		SearchName: strings.ToLower(e.Name),
		Data:       e,
	}}
}

// Keys returns the derived key material.
func (i EventItem) Keys() Keys {
	r := i.rec
	return Keys{PK: r.PK, SK: r.SK, GSI1PK: r.GSI1PK, GSI1SK: r.GSI1SK, GSI2PK: r.GSI2PK, GSI2SK: r.GSI2SK, GSI3PK: r.GSI3PK, GSI3SK: r.GSI3SK}
}

// Event returns the wrapped record.
func (i EventItem) Event() catalog.Event {
	return i.rec.Data
}

// Attributes renders the item as a DynamoDB attribute map.
func (i EventItem) Attributes() (map[string]types.AttributeValue, error) {
	if i.rec.PK == "" {
		return nil, errItemWithoutKeys
	}
	av, err := attributevalue.MarshalMapWithOptions(i.rec, jsonTags)
	if err != nil {
		return nil, fmt.Errorf("marshal event %q: %w", i.rec.Data.ID, err)
	}
	return av, nil
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (i EventItem) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	av, err := i.Attributes()
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberM{Value: av}, nil
}

// VenueItem is the storable form of a venue.
type VenueItem struct {
	rec venueRecord
}

// NewVenueItem derives all keys for v and wraps it for storage.
func NewVenueItem(v catalog.Venue) VenueItem {
	k := BuildVenueKeys(v)
	return VenueItem{rec: venueRecord{
		PK:         k.PK,
		SK:         k.SK,
		GSI1PK:     k.GSI1PK,
		GSI1SK:     k.GSI1SK,
		EntityType: EntityTypeVenue,
		Data:       v,
	}}
}

// Keys returns the derived key material.
func (i VenueItem) Keys() Keys {
	return Keys{PK: i.rec.PK, SK: i.rec.SK, GSI1PK: i.rec.GSI1PK, GSI1SK: i.rec.GSI1SK}
}

// Venue returns the wrapped record.
func (i VenueItem) Venue() catalog.Venue {
	return i.rec.Data
}

// Attributes renders the item as a DynamoDB attribute map.
func (i VenueItem) Attributes() (map[string]types.AttributeValue, error) {
	if i.rec.PK == "" {
		return nil, errItemWithoutKeys
	}
	av, err := attributevalue.MarshalMapWithOptions(i.rec, jsonTags)
	if err != nil {
		return nil, fmt.Errorf("marshal venue %q: %w", i.rec.Data.ID, err)
	}
	return av, nil
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler.
func (i VenueItem) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	av, err := i.Attributes()
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberM{Value: av}, nil
}

// entityTypeOf reads the discriminator of a raw item.
func entityTypeOf(item map[string]types.AttributeValue) string {
	if s, ok := item[attrEntityType].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// decodeEvent checks the discriminator before interpreting the payload.
func decodeEvent(item map[string]types.AttributeValue) (catalog.Event, error) {
	var e catalog.Event
	if got := entityTypeOf(item); got != EntityTypeEvent {
		return e, fmt.Errorf("%w: want %s, got %q", catalog.ErrEntityTypeMismatch, EntityTypeEvent, got)
	}
	data, ok := item[attrData]
	if !ok {
		return e, fmt.Errorf("event item has no %s attribute", attrData)
	}
	if err := attributevalue.UnmarshalWithOptions(data, &e, jsonTagsDecode); err != nil {
		return e, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

func decodeVenue(item map[string]types.AttributeValue) (catalog.Venue, error) {
	var v catalog.Venue
	if got := entityTypeOf(item); got != EntityTypeVenue {
		return v, fmt.Errorf("%w: want %s, got %q", catalog.ErrEntityTypeMismatch, EntityTypeVenue, got)
	}
	data, ok := item[attrData]
	if !ok {
		return v, fmt.Errorf("venue item has no %s attribute", attrData)
	}
	if err := attributevalue.UnmarshalWithOptions(data, &v, jsonTagsDecode); err != nil {
		return v, fmt.Errorf("unmarshal venue: %w", err)
	}
	return v, nil
}
