package favorites

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
)

// DefaultResolveLimit bounds concurrent detail lookups.
const DefaultResolveLimit = 3

// Fetcher loads one anime detail record.
type Fetcher interface {
	GetByID(ctx context.Context, id int) (catalog.AnimeDetail, error)
}

// Resolve fetches the detail record of every id concurrently and returns them
// in the order of ids. Any failure fails the whole resolve.
func Resolve(ctx context.Context, ids []int, f Fetcher, limit int) ([]catalog.AnimeDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultResolveLimit
	}

	out := make([]catalog.AnimeDetail, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			d, err := f.GetByID(gctx, id)
			if err != nil {
				return fmt.Errorf("resolve favorite %d: %w", id, err)
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
