package tasks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
)

// Searcher returns ranked candidates for a query; [workflow.Resolver] implements it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.ArtistCandidate, error)
}

// ResolveOpts configures [ResolveArtists].
type ResolveOpts struct {
	NumWorkers int // Concurrent searches (default: 4, max: 10)
}

func (o ResolveOpts) workers() int {
	switch {
	case o.NumWorkers <= 0:
		return defaultWorkers
	case o.NumWorkers > maxWorkers:
		return maxWorkers
	default:
		return o.NumWorkers
	}
}

// ResolveArtists searches every query and returns each top hit, in query order.
//
// A query without results fails with [shared.ErrNoArtistsFound]. The first failure cancels searches still running.
func ResolveArtists(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	searcher Searcher,
	queries []string,
	opts ResolveOpts,
) ([]models.ArtistCandidate, error) {
	total := len(queries)
	found := make([]models.ArtistCandidate, total)
	if total == 0 {
		return found, nil
	}

	Send(prog, resolvingUpdate(total))

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i, q := range queries {
		g.Go(func() error {
			results, err := searcher.Search(gctx, q)
			if err == nil && len(results) == 0 {
				err = shared.ErrNoArtistsFound
			}
			if err != nil {
				Send(prog, resolveFailedUpdate(int(done.Add(1)), total, q, err))
				return fmt.Errorf("%q: %w", q, err)
			}

			found[i] = results[0]
			Send(prog, resolvedUpdate(int(done.Add(1)), total, q, results[0]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}
