//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/url"
	"strconv"
	"strings"
)

// EventFilter narrows an event listing. Empty fields are not sent.
type EventFilter struct {
	CategoryName string
	City         string
	Search       string
	Date         string
	Page         int
	Size         int
}

// Values encodes the filter as query parameters in the API's naming.
func (f EventFilter) Values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	set("categoryName", f.CategoryName)
	set("city", f.City)
	set("search", f.Search)
	set("date", f.Date)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return q
}
