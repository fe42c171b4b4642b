package tui

// pager tracks the cursor trail through a cursor-paginated listing.
// The API only hands out forward cursors, so going back means replaying
// the listing from a previously seen cursor. The stack holds the cursor
// used to fetch each page on the trail; index 0 is always "" (first
// page).
type pager struct {
	cursors    []string
	nextCursor string
	totalCount int64
}

func newPager() *pager {
	return &pager{cursors: []string{""}}
}

// Current returns the cursor that fetches the page currently shown.
func (p *pager) Current() string {
	return p.cursors[len(p.cursors)-1]
}

// PageNumber is 1-based.
func (p *pager) PageNumber() int {
	return len(p.cursors)
}

// SetResult records what the last fetch reported.
func (p *pager) SetResult(nextCursor string, totalCount int64) {
	p.nextCursor = nextCursor
	if totalCount > 0 {
		p.totalCount = totalCount
	}
}

// TotalCount is the listing size the API last reported, 0 if unknown.
func (p *pager) TotalCount() int64 {
	return p.totalCount
}

// HasNext reports whether a forward page exists.
func (p *pager) HasNext() bool {
	return p.nextCursor != ""
}

// HasPrev reports whether we can walk back.
func (p *pager) HasPrev() bool {
	return len(p.cursors) > 1
}

// Next advances to the next page and returns its cursor. No-op when
// there is no next page.
func (p *pager) Next() (string, bool) {
	if !p.HasNext() {
		return "", false
	}
	p.cursors = append(p.cursors, p.nextCursor)
	p.nextCursor = ""
	return p.Current(), true
}

// Prev steps back one page and returns its cursor.
func (p *pager) Prev() (string, bool) {
	if !p.HasPrev() {
		return "", false
	}
	p.cursors = p.cursors[:len(p.cursors)-1]
	p.nextCursor = ""
	return p.Current(), true
}

// Reset drops the trail, returning to the first page.
func (p *pager) Reset() {
	p.cursors = p.cursors[:1]
	p.nextCursor = ""
	p.totalCount = 0
}
