// Package dynamodb stores catalog events and venues in single-table DynamoDB
// layouts.
//
// Every item carries a primary key pair, up to three derived secondary index
// key pairs, an entityType discriminator and the full record under "data":
//
//	Event: PK = SK = EVENT#{id}
//	       GSI1 CITY#{normalized city} / DATE#{localDate}#EVENT#{id}
//	       GSI2 CATEGORY#{category}    / DATE#{localDate}#EVENT#{id}
//	       GSI3 VENUE#{venueId}        / DATE#{localDate}#EVENT#{id}
//	Venue: PK = SK = VENUE#{id}
//	       GSI1 CITY#{normalized city} / VENUE#{id}
//
// Index keys are never set independently. NewEventItem and NewVenueItem derive
// them from the record on every write path.
package dynamodb
