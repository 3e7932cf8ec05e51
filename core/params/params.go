package params

import (
	"strconv"

	"agreetime-api/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams holds common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams parses pagination params with defaults and caps.
func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}

	return p
}
