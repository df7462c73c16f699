// Package pagination provides page/per_page helpers for list endpoints.
package pagination

const (
	// DefaultPerPage is used when the caller does not set a page size
	DefaultPerPage = 20
	// MaxPerPage caps the page size a caller can request
	MaxPerPage = 100
)

// Params are normalized paging inputs parsed from a request.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Normalize clamps the params into valid bounds: page starts at 1,
// per_page defaults to DefaultPerPage and is capped at MaxPerPage.
func Normalize(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset converts the page number into a row offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit returns the row limit for the page.
func (p Params) Limit() int {
	return p.PerPage
}

// Meta describes one page of a larger result set.
type Meta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewMeta derives page metadata from normalized params and a total
// row count.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PerPage - 1) / p.PerPage
	}
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1 && total > 0,
	}
}
