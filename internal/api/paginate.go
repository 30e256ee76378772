package api

import (
	"context"
	"log/slog"
)

// pageFunc fetches one page for the given cursor and returns the items plus
// the next cursor ("" = last page).
type pageFunc[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// collectPages walks a cursor-paginated endpoint until the server returns an
// empty cursor or an empty batch. An empty batch with a non-empty cursor is
// treated as end-of-stream, so a misbehaving server cannot loop the walk.
//
// A page error truncates the stream: everything collected so far is returned
// with truncated=true and a warning is logged. Pagination failures never
// abort a build.
func collectPages[T any](ctx context.Context, logger *slog.Logger, endpoint string, fetch pageFunc[T]) (all []T, truncated bool) {
	cursor := ""
	for page := 1; ; page++ {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			logger.Warn("pagination truncated",
				"endpoint", endpoint,
				"page", page,
				"collected", len(all),
				"error", err,
			)
			return all, true
		}

		all = append(all, items...)
		logger.Debug("fetched page",
			"endpoint", endpoint,
			"page", page,
			"items", len(items),
			"total", len(all),
		)

		if next == "" || len(items) == 0 {
			return all, false
		}
		cursor = next
	}
}
