package model

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Query selects a page of topics.
type Query struct {
	Search string `form:"search"`
	Sort   string `form:"sort"`
	SortBy string `form:"sort_by"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

func (q Query) Limit() int {
	switch {
	case q.Size <= 0:
		return DefaultPageSize
	case q.Size > MaxPageSize:
		return MaxPageSize
	default:
		return q.Size
	}
}

func (q Query) Offset() int {
	if q.Page <= 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit()
}
