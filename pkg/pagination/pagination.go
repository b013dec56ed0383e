// Package pagination implements page-number pagination over counted result sets.
//
// Page numbers are 1-indexed. A request for a page that does not exist is clamped to
// the nearest existing page, and an empty result set still has one (empty) page.
package pagination

import (
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items       []T   `json:"object_list"`
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParseNumber reads a raw ?page= value. Anything that is not an integer means page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// NumPages returns how many pages count items span. Never less than 1.
func NumPages(count int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// Clamp moves number into [1, numPages].
func Clamp(number, numPages int) int {
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		return 1
	}
	if number > numPages {
		return numPages
	}
	return number
}

// Offset is the index of the first item on page number.
func Offset(number, size int) int {
	if number < 1 {
		number = 1
	}
	return (number - 1) * size
}

// New assembles a page from items already cut for number.
func New[T any](items []T, number, size int, count int64) *Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	numPages := NumPages(count, size)
	number = Clamp(number, numPages)
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		PageSize:    size,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}
