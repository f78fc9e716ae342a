package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Pagination describes one page of a larger result set. NextPage and
// PreviousPage are null at the boundaries.
type Pagination struct {
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	CurrentPage     int   `json:"currentPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	NextPage        *int  `json:"nextPage"`
	PreviousPage    *int  `json:"previousPage"`
}

// NormalizePageLimit clamps page to >= 1 and limit into [1, MaxLimit].
// Zero values fall back to the defaults.
func NormalizePageLimit(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewPagination computes page metadata for a total count. page and limit
// must already be normalized.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	p := Pagination{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	if page > 1 {
		prev := page - 1
		p.HasPreviousPage = true
		p.PreviousPage = &prev
	}
	if page < totalPages {
		next := page + 1
		p.HasNextPage = true
		p.NextPage = &next
	}
	return p
}

// Slice returns the half-open index range [start, end) for a page over a
// collection of length total.
func Slice(total, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
