package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 4

// newGroup bounds read fan-out; limit 1 runs the goroutines one at a time.
func newGroup(ctx context.Context, limit int) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	return g, gctx
}
