package pregel

import (
	"context"

	"github.com/kelindar/bitmap"
	"golang.org/x/sync/errgroup"
)

// A zeroed bitmap covering nodeCount bits.
func newLocalSet(nodeCount uint32) bitmap.Bitmap {
	var b bitmap.Bitmap
	if nodeCount > 0 {
		b.Grow(nodeCount - 1)
	}
	return b
}

// Zeroes the set in place, keeping its length.
func clearLocalSet(b bitmap.Bitmap) {
	for i := range b {
		b[i] = 0
	}
}

// Merges the sets with a pairwise tree of ORs, each level in parallel. The inputs are
// never modified or returned; the result is always a fresh bitmap.
func unionReduce(ctx context.Context, sets []bitmap.Bitmap, concurrency int) (bitmap.Bitmap, error) {
	switch len(sets) {
	case 0:
		return bitmap.Bitmap{}, nil
	case 1:
		return sets[0].Clone(nil), nil
	}

	level := sets
	owned := false // Whether level holds our own intermediates.
	for len(level) > 1 {
		next := make([]bitmap.Bitmap, (len(level)+1)/2)
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i := range next {
			left := level[2*i]
			if 2*i+1 == len(level) {
				if owned {
					next[i] = left
				} else {
					next[i] = left.Clone(nil)
				}
				continue
			}
			right := level[2*i+1]
			i := i // per-iteration copy (go < 1.22 loop semantics)
			g.Go(func() error {
				var merged bitmap.Bitmap
				if owned {
					merged = left // Intermediate from the previous level; only this goroutine holds it.
				} else {
					merged = left.Clone(nil)
				}
				merged.Or(right)
				next[i] = merged
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		level = next
		owned = true
	}
	return level[0], nil
}
