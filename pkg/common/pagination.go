package common

const (
	// DefaultPageSize is used when a request does not name a page size.
	DefaultPageSize = 50
	// MaxPageSize caps every listing request.
	MaxPageSize = 100
)

// PaginationInfo describes the page returned alongside a listing.
type PaginationInfo struct {
	PageSize   int    `json:"pageSize"`
	TotalItems int    `json:"totalItems"`
	TotalPages int    `json:"totalPages"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ClampPageSize applies the default and the upper bound to a requested page size.
func ClampPageSize(requested int) int {
	if requested <= 0 {
		return DefaultPageSize
	}
	if requested > MaxPageSize {
		return MaxPageSize
	}
	return requested
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// BuildPagination builds pagination metadata for a page of totalItems results.
func BuildPagination(pageSize, totalItems int, hasMore bool, nextCursor string) PaginationInfo {
	return PaginationInfo{
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: CalculateTotalPages(totalItems, pageSize),
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}
}
