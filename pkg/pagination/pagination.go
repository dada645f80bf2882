package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any listing query can request.
	MaxPageSize = 100
)

// Params holds page/size pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize enforces the configured default and maximum page sizes.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Page wraps a result slice with the paging metadata listing endpoints return.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}

// NewResult assembles a Result from a normalized request and a total count.
func NewResult[T any](items []T, params Params, total int64) Result[T] {
	n := params.Normalize()
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		Page:       n.Page,
		PageSize:   n.PageSize,
		TotalCount: total,
	}
}
