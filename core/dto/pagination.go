package dto

type Pagination[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
}

// NewPagination computes TotalPages from the item count and page size.
func NewPagination[T any](items []T, totalItems, pageNumber, pageSize int) *Pagination[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return &Pagination[T]{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: totalPages,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}
}
