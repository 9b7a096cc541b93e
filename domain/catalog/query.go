package catalog

// FarFutureDate is the default upper bound of a date range query.
const FarFutureDate = "2099-12-31"

// RangeQuery bounds an index read. Zero values take defaults at the store:
// DateFrom is today, DateTo is FarFutureDate, PageSize is 50.
type RangeQuery struct {
	DateFrom string
	DateTo   string
	PageSize int
	Cursor   string
}

// Page is one page of an index read, in ascending date then id order.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	NextCursor string
}

// SearchQuery describes a keyword search over events.
type SearchQuery struct {
	Keyword  string
	City     string
	Category Category
	PageSize int
}

// SearchResult holds a truncated page of matches and the total match count.
type SearchResult struct {
	Items      []Event
	TotalItems int
	HasMore    bool
}

// BatchResult aggregates a chunked batch write.
type BatchResult struct {
	Saved  int
	Failed int
	Chunks int
}

// Add folds another result into r.
func (r *BatchResult) Add(other BatchResult) {
	r.Saved += other.Saved
	r.Failed += other.Failed
	r.Chunks += other.Chunks
}

// Field names accepted by in-place updates.
const (
	FieldListingCount = "listingCount"
	FieldIsFeatured   = "isFeatured"
)

// IsUpdatableField reports whether field may be updated without rewriting the record.
func IsUpdatableField(field string) bool {
	return field == FieldListingCount || field == FieldIsFeatured
}
