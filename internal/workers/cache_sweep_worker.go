package workers

import (
	"context"
	"time"

	"portal-resolver-service/internal/config"
	"portal-resolver-service/internal/services"

	"github.com/rs/zerolog/log"
)

// CacheSweepWorker periodically prunes the resolver cache. TTL
// staleness is otherwise only checked lazily on read, so without the
// sweep the cache grows unbounded under random hostname traffic.
type CacheSweepWorker struct {
	cfg    *config.Config
	cache  *services.ResolverCache
	stopCh chan struct{}
}

// NewCacheSweepWorker creates a new cache sweep worker
func NewCacheSweepWorker(cfg *config.Config, cache *services.ResolverCache) *CacheSweepWorker {
	return &CacheSweepWorker{
		cfg:    cfg,
		cache:  cache,
		stopCh: make(chan struct{}),
	}
}

// Start starts the sweep worker
func (w *CacheSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.cfg.Workers.CacheSweepInterval).Msg("Starting cache sweep worker")

	ticker := time.NewTicker(w.cfg.Workers.CacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Cache sweep worker stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("Cache sweep worker stopped")
			return
		case <-ticker.C:
			w.run()
		}
	}
}

// Stop stops the worker
func (w *CacheSweepWorker) Stop() {
	close(w.stopCh)
}

func (w *CacheSweepWorker) run() {
	removed := w.cache.Sweep()
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Swept resolver cache")
	}
}
