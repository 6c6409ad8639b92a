package highlevel

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"go.uber.org/zap"
)

// Cursor lazily walks a paginated collection endpoint. The first page is
// fetched when the cursor is created and further pages are fetched when the
// buffer runs dry. A Cursor is forward-only and must not be shared between
// goroutines.
type Cursor[T Object] struct {
	client  *Client
	creds   Credentials
	path    string
	params  map[string]any
	parser  Parser[T]
	queue   []T
	headers http.Header
	hasNext bool
	pages   int
	err     error
}

type pageMeta struct {
	NextPage     any `json:"nextPage"`
	StartAfter   any `json:"startAfter"`
	StartAfterID any `json:"startAfterId"`
}

// NewCursor creates a cursor over path and loads its first page. params is
// owned by the cursor from here on and grows with continuation tokens.
func NewCursor[T Object](ctx context.Context, client *Client, creds Credentials, path string, params map[string]any, parser Parser[T]) (*Cursor[T], error) {
	if params == nil {
		params = make(map[string]any)
	}
	c := &Cursor[T]{
		client: client,
		creds:  creds,
		path:   path,
		params: params,
		parser: parser,
	}
	if _, err := c.LoadNextPage(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadNextPage replaces the buffer with the next page and reports whether a
// further page may exist. An empty page, or a page without "meta", ends the
// sequence. Otherwise startAfter and startAfterId from the metadata are
// written into the parameters and continuation requires both nextPage and
// startAfter to be non-null.
func (c *Cursor[T]) LoadNextPage(ctx context.Context) (bool, error) {
	resp, err := c.client.Call(ctx, http.MethodGet, c.path, c.creds, c.params)
	if err != nil {
		return false, err
	}
	if err := resp.Err(); err != nil {
		return false, err
	}
	c.headers = resp.Headers()

	items, err := c.parser.ParseMultiple(resp.Bytes(), c.creds)
	if err != nil {
		return false, err
	}
	c.queue = items
	c.pages++

	if len(items) == 0 {
		c.hasNext = false
		return false, nil
	}

	var envelope struct {
		Meta *pageMeta `json:"meta"`
	}
	if err := resp.JSON(&envelope); err != nil {
		return false, err
	}
	if envelope.Meta == nil {
		c.hasNext = false
		return false, nil
	}

	c.params["startAfter"] = envelope.Meta.StartAfter
	c.params["startAfterId"] = envelope.Meta.StartAfterID
	c.hasNext = envelope.Meta.NextPage != nil && envelope.Meta.StartAfter != nil

	c.client.logger.Debug("Loaded page",
		zap.String("path", c.path),
		zap.Int("page", c.pages),
		zap.Int("items", len(items)),
		zap.Bool("has_next", c.hasNext))

	return c.hasNext, nil
}

// Next returns the next element, fetching a page when the buffer is empty.
// It returns ErrNoMoreItems once the sequence is exhausted. After a failed
// fetch the same error is returned on every call.
func (c *Cursor[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if c.err != nil {
		return zero, c.err
	}

	if len(c.queue) == 0 {
		if !c.hasNext {
			return zero, ErrNoMoreItems
		}
		if _, err := c.LoadNextPage(ctx); err != nil {
			c.err = err
			return zero, err
		}
		if len(c.queue) == 0 {
			return zero, ErrNoMoreItems
		}
	}

	item := c.queue[0]
	c.queue[0] = zero
	c.queue = c.queue[1:]
	return item, nil
}

// All adapts the cursor to a range-over-func sequence. Breaking out of the
// loop stops fetching; a fetch error is yielded once and ends the sequence.
func (c *Cursor[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := c.Next(ctx)
			if errors.Is(err, ErrNoMoreItems) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains up to max elements (all of them when max <= 0).
func (c *Cursor[T]) Collect(ctx context.Context, max int) ([]T, error) {
	var out []T
	for item, err := range c.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, item)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}

// Len is the number of buffered, not yet consumed elements.
func (c *Cursor[T]) Len() int {
	return len(c.queue)
}

// At returns the i-th element of the current buffer.
func (c *Cursor[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(c.queue) {
		var zero T
		return zero, false
	}
	return c.queue[i], true
}

// HasNext reports whether the last page signalled a continuation.
func (c *Cursor[T]) HasNext() bool {
	return c.hasNext
}

// Pages is the number of pages fetched so far.
func (c *Cursor[T]) Pages() int {
	return c.pages
}

// Params returns a copy of the current parameters, including continuation
// tokens.
func (c *Cursor[T]) Params() map[string]any {
	return copyParams(c.params)
}

// Headers returns the headers of the last page response.
func (c *Cursor[T]) Headers() http.Header {
	return c.headers.Clone()
}
