package models

// ListFilter carries the sort field and cap of a collection listing. Sort is a
// field name, optionally prefixed with "-" for descending order.
type ListFilter struct {
	Sort  string
	Limit int
}

// Pagination describes how a list response was cut.
type Pagination struct {
	Sort       string `json:"sort,omitempty"`
	Limit      int    `json:"limit"`
	TotalCount int    `json:"total_count"`
}
