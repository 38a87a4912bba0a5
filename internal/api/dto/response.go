package dto

// Response 统一响应体
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PageDTO 分页列表
type PageDTO[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// NewPage hasMore = page*limit < total
func NewPage[T any](items []T, page, limit int, total int64) *PageDTO[T] {
	if items == nil {
		items = []T{}
	}
	return &PageDTO[T]{
		Items:   items,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: int64(page)*int64(limit) < total,
	}
}
