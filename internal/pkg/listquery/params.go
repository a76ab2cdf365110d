package listquery

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination and sorting parameters from a query string.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder Direction
}

// Limits bounds the page size accepted from clients.
type Limits struct {
	Default int
	Max     int
}

var DefaultLimits = Limits{Default: DefaultLimit, Max: MaxLimit}

// Parse extracts page, limit, sort_by and sort_order from the request.
func Parse(r *http.Request, limits Limits) Params {
	q := r.URL.Query()

	if limits.Default < MinLimit {
		limits.Default = DefaultLimit
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < MinLimit {
		limit = limits.Default
	}
	if limit > limits.Max {
		limit = limits.Max
	}

	return Params{
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sort_by"),
		SortOrder: ParseDirection(q.Get("sort_order")),
	}
}

// Build turns parsed params into a Query over T. Unknown sort_by values fall
// back to defaultSort.
func Build[T any](p Params, fields Fields[T], defaultSort string, filter func(T) bool) Query[T] {
	return Query[T]{
		Filter:    filter,
		Sort:      fields.Lookup(p.SortBy, defaultSort),
		Direction: p.SortOrder,
		Page:      p.Page,
		PageSize:  p.Limit,
	}
}
