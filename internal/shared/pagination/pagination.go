package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidPage is returned for non-numeric, non-positive or out-of-range pages.
var ErrInvalidPage = errors.New("invalid page")

// Params is a parsed page request. Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Params) Limit() int {
	return p.PageSize
}

// Parse reads the "page" query value. An empty value means page 1.
func Parse(raw string, pageSize int) (Params, error) {
	if pageSize < 1 {
		pageSize = 10
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "last" {
		// "last" is resolved once the total is known
		page := 1
		if raw == "last" {
			page = -1
		}
		return Params{Page: page, PageSize: pageSize}, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return Params{}, ErrInvalidPage
	}
	return Params{Page: page, PageSize: pageSize}, nil
}

// Resolve checks the page against total and fills in a "last" request.
// Page 1 is always valid, even when there are no results.
func (p Params) Resolve(total int) (Params, error) {
	pages := TotalPages(total, p.PageSize)
	if p.Page == -1 {
		p.Page = max(pages, 1)
		return p, nil
	}
	if p.Page > 1 && p.Page > pages {
		return p, ErrInvalidPage
	}
	return p, nil
}

func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Meta is the pagination envelope returned with list responses.
type Meta struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Next       *string `json:"next"`
	Previous   *string `json:"previous"`
}

// NewMeta builds Meta with absolute next/previous links derived from u.
func NewMeta(p Params, total int, u *url.URL) *Meta {
	pages := TotalPages(total, p.PageSize)
	meta := &Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
	}
	if u == nil {
		return meta
	}
	if p.Page < pages {
		next := pageURL(u, p.Page+1)
		meta.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(u, p.Page-1)
		meta.Previous = &prev
	}
	return meta
}

func pageURL(u *url.URL, page int) string {
	cp := *u
	q := cp.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	cp.RawQuery = q.Encode()
	return cp.String()
}
