package params

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams reads page_number, page_size and search from the request.
func NewQueryParams(c echo.Context) *QueryParams {
	pageNumber, err := strconv.Atoi(c.QueryParam("page_number"))
	if err != nil || pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}

	pageSize, err := strconv.Atoi(c.QueryParam("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &QueryParams{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.QueryParam("search")),
	}
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
