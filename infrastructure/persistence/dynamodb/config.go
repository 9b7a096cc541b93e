package dynamodb

import "time"

// Config names the tables and indexes and tunes batch writes.
type Config struct {
	EventsTable   string
	VenuesTable   string
	CityIndex     string
	CategoryIndex string
	VenueIndex    string

	// Batch write retry policy for UnprocessedItems.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultConfig returns the production table layout.
func DefaultConfig() Config {
	return Config{
		EventsTable:   "TickX-Events",
		VenuesTable:   "TickX-Venues",
		CityIndex:     "GSI1",
		CategoryIndex: "GSI2",
		VenueIndex:    "GSI3",
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.EventsTable == "" {
		c.EventsTable = d.EventsTable
	}
	if c.VenuesTable == "" {
		c.VenuesTable = d.VenuesTable
	}
	if c.CityIndex == "" {
		c.CityIndex = d.CityIndex
	}
	if c.CategoryIndex == "" {
		c.CategoryIndex = d.CategoryIndex
	}
	if c.VenueIndex == "" {
		c.VenueIndex = d.VenueIndex
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	return c
}
