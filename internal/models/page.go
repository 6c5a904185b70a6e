package models

import "math"

// ItemsPerPage is the fixed page size of every list endpoint.
const ItemsPerPage = 10

// MaxPage is the largest page number whose offset still fits in an int.
const MaxPage = math.MaxInt / ItemsPerPage

// PageRequest describes which slice of a listing the caller wants.
// Page is 1-based; zero means the first page.
type PageRequest struct {
	Page   int
	Search string
}

// Number returns the effective 1-based page number, capped at MaxPage.
func (p PageRequest) Number() int {
	if p.Page < 1 {
		return 1
	}
	return min(p.Page, MaxPage)
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Number() - 1) * ItemsPerPage
}

// Limit returns the page size.
func (p PageRequest) Limit() int {
	return ItemsPerPage
}

// Page is one slice of a listing plus the range it covers.
type Page[T any] struct {
	From       int `json:"from"`
	To         int `json:"to"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Data       []T `json:"data"`
}

// NewPage computes the 1-based inclusive range [From, To] covered by data.
func NewPage[T any](req PageRequest, total int, data []T) Page[T] {
	if data == nil {
		data = []T{}
	}
	page := Page[T]{
		Total:      total,
		TotalPages: (total + ItemsPerPage - 1) / ItemsPerPage,
		Data:       data,
	}
	if total > 0 {
		offset := req.Offset()
		page.From = offset + 1
		page.To = min(offset+ItemsPerPage, total)
	}
	return page
}
