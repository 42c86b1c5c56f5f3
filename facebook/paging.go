package facebook

import (
	"net/url"
	"strconv"
)

// PagingParameters selects a page of a Graph connection.
// Zero fields are not sent.
type PagingParameters struct {
	Limit  int
	Offset int
	Since  int64
	Until  int64
	After  string
	Before string
}

// Values encodes the parameters as Graph query parameters.
func (p PagingParameters) Values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Since > 0 {
		v.Set("since", strconv.FormatInt(p.Since, 10))
	}
	if p.Until > 0 {
		v.Set("until", strconv.FormatInt(p.Until, 10))
	}
	if p.After != "" {
		v.Set("after", p.After)
	}
	if p.Before != "" {
		v.Set("before", p.Before)
	}
	return v
}

// PagedList is one page of a Graph connection.
type PagedList[T any] struct {
	Data []T

	// Previous and Next are nil when Graph reports no such page.
	Previous *PagingParameters
	Next     *PagingParameters

	PreviousURL string
	NextURL     string
}

type graphPage[T any] struct {
	Data   []T `json:"data"`
	Paging struct {
		Previous string `json:"previous"`
		Next     string `json:"next"`
	} `json:"paging"`
}

func (p *graphPage[T]) list() *PagedList[T] {
	return &PagedList[T]{
		Data:        p.Data,
		Previous:    parsePagingURL(p.Paging.Previous),
		Next:        parsePagingURL(p.Paging.Next),
		PreviousURL: p.Paging.Previous,
		NextURL:     p.Paging.Next,
	}
}

func parsePagingURL(raw string) *PagingParameters {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	q := u.Query()
	p := &PagingParameters{
		After:  q.Get("after"),
		Before: q.Get("before"),
	}
	p.Limit, _ = strconv.Atoi(q.Get("limit"))
	p.Offset, _ = strconv.Atoi(q.Get("offset"))
	p.Since, _ = strconv.ParseInt(q.Get("since"), 10, 64)
	p.Until, _ = strconv.ParseInt(q.Get("until"), 10, 64)
	return p
}
