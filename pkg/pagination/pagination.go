package pagination

import (
	"net/url"
	"strconv"
)

// PageRequest is a 1-indexed page with a per-page size.
type PageRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Normalize clamps the request to the configured bounds.
// A non-positive PerPage falls back to def when def is positive, else the config default.
func (r *PageRequest) Normalize(cfg Config, def int) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 {
		r.PerPage = def
		if def < 1 {
			r.PerPage = cfg.DefaultPageSize
		}
	}
	if r.PerPage > cfg.MaxPageSize {
		r.PerPage = cfg.MaxPageSize
	}
}

// Offset calculates the number of records to skip.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// Pages returns the number of pages needed to hold total records.
func (r PageRequest) Pages(total int) int {
	return TotalPages(total, r.PerPage)
}

// PageRequestFromQuery parses page and per_page from query values.
// def is the route-specific default page size.
func PageRequestFromQuery(values url.Values, cfg Config, def int) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	perPage, _ := strconv.Atoi(values.Get("per_page"))

	req := PageRequest{Page: page, PerPage: perPage}
	req.Normalize(cfg, def)
	return req
}

// TotalPages returns ceil(total / perPage), or 0 when there are no records.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}
