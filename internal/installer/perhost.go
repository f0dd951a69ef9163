package installer

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// HostFunc does all the work for one host and reports what it did
type HostFunc func(ctx context.Context, host models.Host) []models.Action

// PerHost runs fn for every host, up to MaxConcurrent at a time. Actions
// come back grouped by host in input order; failed actions are combined
// into the returned error.
func (i *Installer) PerHost(ctx context.Context, hostList []models.Host, fn HostFunc) ([]models.Action, error) {
	results := make([][]models.Action, len(hostList))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.MaxConcurrent)

	var mu sync.Mutex
	var errs error
	for idx, host := range hostList {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			actions := fn(gctx, host)
			results[idx] = actions
			for _, a := range actions {
				if a.Err != nil {
					mu.Lock()
					errs = multierr.Append(errs, a.Err)
					mu.Unlock()
				}
			}
			// Action failures do not cancel the other hosts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Action
	for _, actions := range results {
		all = append(all, actions...)
	}
	return all, errs
}
