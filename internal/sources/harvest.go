package sources

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/censusalign/censusalign/pkg/constants"
	"github.com/censusalign/censusalign/pkg/logging"
)

// Harvest fetches all sources concurrently. The first failure cancels the
// remaining downloads. Successfully fetched files stay on disk so a rerun
// can serve them from cache.
func Harvest(ctx context.Context, srcs ...Source) error {
	log := logging.Ctx(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MaxConcurrentDownloads)

	for _, src := range srcs {
		src := src
		g.Go(func() error {
			log.Debug().Str("source", src.ID().String()).Msg("Fetching dataset")
			if err := src.Fetch(ctx); err != nil {
				log.Error().Err(err).Str("source", src.ID().String()).Msg("Fetch failed")
				return err
			}
			log.Info().
				Str("source", src.ID().String()).
				Str("path", src.Path()).
				Msg("Dataset ready")
			return nil
		})
	}
	return g.Wait()
}

// Cleanup releases scratch space for all sources. Errors are logged and the
// last one is returned.
func Cleanup(srcs ...Source) error {
	var last error
	for _, src := range srcs {
		if err := src.Cleanup(); err != nil {
			logging.Warn().Err(err).Str("source", src.ID().String()).Msg("Cleanup failed")
			last = err
		}
	}
	return last
}
