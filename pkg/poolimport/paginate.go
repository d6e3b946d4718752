package poolimport

import (
	"context"
)

// PageFunc invokes one page of a cursor-based listing operation. An empty
// cursor requests the first page.
type PageFunc[P any] func(ctx context.Context, cursor string) (P, error)

// DrainPages follows a cursor-based listing API to exhaustion and returns the
// concatenation of every page's items in page order.
//
// The items accessor may return a nil or empty slice for a page; that page
// contributes nothing but pagination continues as long as the cursor accessor
// returns a non-empty cursor. A nil call, items, or next function is a
// programming error, not a runtime condition.
func DrainPages[P, I any](ctx context.Context, call PageFunc[P], items func(P) []I, next func(P) string) ([]I, error) {
	if call == nil {
		return nil, ErrInternal("DrainPages: nil page function")
	}
	if items == nil {
		return nil, ErrInternal("DrainPages: nil item accessor")
	}
	if next == nil {
		return nil, ErrInternal("DrainPages: nil cursor accessor")
	}

	var all []I
	cursor := ""
	for {
		page, err := call(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items(page)...)

		cursor = next(page)
		if cursor == "" {
			return all, nil
		}
	}
}
