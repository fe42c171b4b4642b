package api

import (
	"context"
	"net/url"
	"strconv"
)

// ListOptions are the cursor-pagination parameters shared by every list
// endpoint. Starting-after carries the id of the last item on the previous
// page; a zero Limit lets the server pick its default.
type ListOptions struct {
	Limit         int
	StartingAfter string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.StartingAfter != "" {
		q.Set("starting_after", o.StartingAfter)
	}
	return q
}

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	TotalCount int64

	// LastID is the cursor for the following page, taken from the last
	// item on this page. Empty when the page is empty.
	LastID string
}

// NextCursor returns the cursor for the page after this one, or "" when
// there is none. HasMore is never trusted without a usable cursor.
func (p Page[T]) NextCursor() string {
	if !p.HasMore || p.LastID == "" {
		return ""
	}
	return p.LastID
}

// newPage shapes a decoded list response into a Page, deriving the cursor
// from the caller-supplied id accessor.
func newPage[T any](items []T, hasMore bool, total int64, id func(T) string) Page[T] {
	p := Page[T]{Items: items, HasMore: hasMore, TotalCount: total}
	if len(items) > 0 {
		p.LastID = id(items[len(items)-1])
	}
	return p
}

// CollectAll follows the cursor until the listing is exhausted, calling
// fetch once per page. Used by the CLI's --all flag.
func CollectAll[T any](ctx context.Context, opts ListOptions, fetch func(context.Context, ListOptions) (Page[T], error)) ([]T, error) {
	var all []T
	for {
		page, err := fetch(ctx, opts)
		if err != nil {
			return all, err
		}
		all = append(all, page.Items...)
		cursor := page.NextCursor()
		if cursor == "" {
			return all, nil
		}
		opts.StartingAfter = cursor
	}
}
