// Package pagination tracks position within a paged remote collection
// and computes the navigation affordances the presentation layer renders.
package pagination

import (
	"context"
	"errors"
	"sync"

	"github.com/COSYBANANA63/gitcards/internal/model"
)

var (
	// ErrPageOutOfRange reports a GoTo outside [1, TotalPages]; the
	// cursor state is unchanged.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrStaleResponse reports a fetch whose response arrived after a
	// newer operation started; the response was discarded.
	ErrStaleResponse = errors.New("stale response discarded")
)

// FetchFunc retrieves one page of a collection.
type FetchFunc func(ctx context.Context, kind model.CollectionKind, username string, page, perPage int) (*model.CollectionPage, error)

// Cursor is the transient position within one collection of one user.
// Create one per open view and discard it when the view closes.
type Cursor struct {
	kind     model.CollectionKind
	username string
	perPage  int
	fetch    FetchFunc

	mu      sync.Mutex
	current int
	total   int
	gen     uint64
}

// NewCursor creates a cursor positioned before the first page.
func NewCursor(kind model.CollectionKind, username string, perPage int, fetch FetchFunc) *Cursor {
	return &Cursor{
		kind:     kind,
		username: username,
		perPage:  perPage,
		fetch:    fetch,
	}
}

// Open resets to page 1, fetches it, and derives the total page count
// from the response metadata (1 when the response carried none).
func (c *Cursor) Open(ctx context.Context) (*model.CollectionPage, error) {
	c.mu.Lock()
	c.current = 0
	c.total = 0
	c.mu.Unlock()
	return c.load(ctx, 1)
}

// GoTo navigates to the given page. Out-of-range pages are a no-op.
func (c *Cursor) GoTo(ctx context.Context, page int) (*model.CollectionPage, error) {
	c.mu.Lock()
	known := c.total
	c.mu.Unlock()

	if page < 1 || (known > 0 && page > known) {
		return nil, ErrPageOutOfRange
	}
	return c.load(ctx, page)
}

// Next navigates one page forward.
func (c *Cursor) Next(ctx context.Context) (*model.CollectionPage, error) {
	return c.GoTo(ctx, c.CurrentPage()+1)
}

// Prev navigates one page back.
func (c *Cursor) Prev(ctx context.Context) (*model.CollectionPage, error) {
	return c.GoTo(ctx, c.CurrentPage()-1)
}

// load fetches a page and applies it unless a newer operation started
// while the fetch was in flight ("last request wins", not last response).
func (c *Cursor) load(ctx context.Context, page int) (*model.CollectionPage, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	result, err := c.fetch(ctx, c.kind, c.username, page, c.perPage)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, ErrStaleResponse
	}

	c.current = page
	switch {
	case result.LastPage > 0:
		c.total = result.LastPage
	case page == 1 && c.total == 0:
		// No rel="last" on the first page: single-page collection.
		c.total = 1
	case page > c.total:
		// No rel="last" means this is the final page.
		c.total = page
	}
	return result, nil
}

// CurrentPage returns the 1-based page the cursor last applied, or 0
// before the first successful fetch.
func (c *Cursor) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// TotalPages returns the known page count, or 0 before the first
// successful fetch.
func (c *Cursor) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// HasNext reports whether a further page exists.
func (c *Cursor) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current > 0 && c.current < c.total
}

// HasPrev reports whether an earlier page exists.
func (c *Cursor) HasPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current > 1
}

// ShowControls reports whether pagination controls should render at all;
// single-page collections render none.
func (c *Cursor) ShowControls() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total > 1
}
