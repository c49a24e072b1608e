package common

import (
	"net/http"
	"strconv"
)

// Unbounded limits turn listing endpoints into full table scans.
const maxPerPage = 100

// Pagination is the paging block echoed back on every list response.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination reads the page and limit query parameters, defaulting
// the page size and capping it at maxPerPage. Malformed or non-positive
// values fall back to the defaults rather than erroring.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		perPage = l
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return
}
