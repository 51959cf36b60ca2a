package httputil

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page holds normalized pagination parameters.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParsePage reads limit/offset query parameters, clamping them to sane
// bounds.
func ParsePage(r *http.Request) Page {
	p := Page{Limit: defaultPageSize}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}

// PageResponse is the standard paginated list envelope.
type PageResponse struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Paginated writes a paginated list response.
func Paginated(w http.ResponseWriter, items any, total int, page Page) {
	JSON(w, http.StatusOK, PageResponse{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset})
}
