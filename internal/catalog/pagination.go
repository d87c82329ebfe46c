package catalog

import "math"

// MaxPage is the largest page whose offset still fits in an int.
func MaxPage(limit int) int {
	if limit <= 0 {
		return math.MaxInt
	}
	return math.MaxInt/limit + 1
}

// OffsetForPage converts a 1-indexed page into a row offset.
// Pages below 1 are treated as the first page; pages past MaxPage saturate.
func OffsetForPage(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page > MaxPage(limit) {
		page = MaxPage(limit)
	}
	return (page - 1) * limit
}

// TotalPages is ceil(count/limit), 0 when there is nothing to page over.
func TotalPages(count, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}
