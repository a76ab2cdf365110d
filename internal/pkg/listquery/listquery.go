// Package listquery implements the filter → sort → paginate pipeline shared by
// every list endpoint. Apply never mutates its input and always returns the
// same result for the same arguments.
package listquery

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection defaults to Asc for anything other than "desc".
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// CompareFunc orders two items the way cmp.Compare does.
type CompareFunc[T any] func(a, b T) int

// Query describes one list view's state. A nil Filter keeps every item, a nil
// Sort keeps filtered order.
type Query[T any] struct {
	Filter    func(T) bool
	Sort      CompareFunc[T]
	Direction Direction
	Page      int
	PageSize  int
}

type Result[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// Apply filters, stable-sorts and paginates items.
func Apply[T any](items []T, q Query[T]) Result[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if q.Filter == nil || q.Filter(item) {
			filtered = append(filtered, item)
		}
	}

	if q.Sort != nil {
		less := q.Sort
		if q.Direction == Desc {
			less = func(a, b T) int { return q.Sort(b, a) }
		}
		slices.SortStableFunc(filtered, less)
	}

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultLimit
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := min(max(q.Page, 1), totalPages)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return Result[T]{
		Items:       slices.Clone(filtered[start:end]),
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

// By orders items by an ordered key.
func By[T any, K cmp.Ordered](key func(T) K) CompareFunc[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// ByFold orders items by a string key, ignoring case.
func ByFold[T any](key func(T) string) CompareFunc[T] {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
	}
}

// ByTime orders items by a timestamp key.
func ByTime[T any](key func(T) time.Time) CompareFunc[T] {
	return func(a, b T) int {
		return key(a).Compare(key(b))
	}
}

// ByOptionalTime orders items by a nullable timestamp; nil sorts first.
func ByOptionalTime[T any](key func(T) *time.Time) CompareFunc[T] {
	return func(a, b T) int {
		ta, tb := key(a), key(b)
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return -1
		case tb == nil:
			return 1
		}
		return ta.Compare(*tb)
	}
}

// Fields resolves sort_by names to comparators for one item type.
type Fields[T any] map[string]CompareFunc[T]

// Lookup returns the comparator for name, falling back to fallback when the
// name is empty or unknown.
func (f Fields[T]) Lookup(name, fallback string) CompareFunc[T] {
	if c, ok := f[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return f[fallback]
}
