package dto

import (
	"net/url"
	"strconv"
)

// Page is the envelope every listing endpoint returns. Next and Previous
// are absolute URLs, null on the last and first page respectively.
type Page[T any] struct {
	Results  []T     `json:"results"`
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// NewPage wraps one page of results. requestURL must be absolute; its query
// string is kept and only the page parameter is replaced.
func NewPage[T any](results []T, count int64, number, size int, requestURL *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Results: results, Count: count}
	if int64(number*size) < count {
		next := PageLink(requestURL, number+1)
		p.Next = &next
	}
	if number > 1 {
		prev := PageLink(requestURL, number-1)
		p.Previous = &prev
	}
	return p
}

// PageLink returns requestURL pointing at the given page. Page 1 drops the
// parameter entirely.
func PageLink(requestURL *url.URL, page int) string {
	u := *requestURL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LastPage is the highest valid page number for count items; an empty
// listing still has page 1.
func LastPage(count int64, size int) int {
	if count == 0 || size <= 0 {
		return 1
	}
	n := count / int64(size)
	if count%int64(size) != 0 {
		n++
	}
	return int(n)
}
