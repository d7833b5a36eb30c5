package emoji

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhath/ezmoji/internal/store"
)

// Outcome of a load.
type Outcome int

const (
	// Failed means no index could be produced.
	Failed Outcome = iota
	// Ready is a full dataset, from the cache or the network.
	Ready
	// Degraded is the fallback table after the network load failed.
	Degraded
)

func (o Outcome) String() string {
	switch o {
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Result is what a load produced. Index is nil only for Failed.
type Result struct {
	Outcome  Outcome
	Index    *Index
	Err      error
	Cached   bool
	Duration time.Duration
}

// Loader runs the load protocol: cache, then mirrors, then the fallback table.
type Loader struct {
	Store   store.KV
	Fetcher Fetcher
	Sources Sources
	Log     *zap.SugaredLogger
}

// Load never panics and never returns an error: failures are folded into Result.
func (l *Loader) Load(ctx context.Context) Result {
	start := time.Now()
	log := l.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	// the cache is keyed by dataset version; without one it is skipped
	cacheable := l.Store != nil && l.Sources.Version != nil
	if cacheable {
		ix, ok, err := readCache(ctx, l.Store, l.Sources.Version)
		switch {
		case err != nil:
			log.Warnw("cached index unreadable, treating as miss", "error", err)
		case ok:
			log.Infow("index loaded from cache", "count", ix.Len())
			return Result{Outcome: Ready, Index: ix, Cached: true, Duration: time.Since(start)}
		}
	}

	ix, err := l.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Warnw("index load cancelled", "error", err)
			return Result{Outcome: Failed, Err: errors.Wrap(ctx.Err(), "load cancelled"), Duration: time.Since(start)}
		}
		log.Errorw("emoji dataset failed, using fallback", "error", err)
		return Result{Outcome: Degraded, Index: FallbackIndex(err), Err: err, Duration: time.Since(start)}
	}

	if cacheable {
		if err := writeCache(ctx, l.Store, l.Sources.Version, ix); err != nil {
			log.Warnw("could not cache index", "error", err)
		}
	}
	log.Infow("index loaded from network", "count", ix.Len(), "keys", ix.Keys())
	return Result{Outcome: Ready, Index: ix, Duration: time.Since(start)}
}

func (l *Loader) fetch(ctx context.Context) (*Index, error) {
	if l.Fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}
	var (
		items      []item
		shortcodes map[string][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = firstSuccess(gctx, l.Fetcher, l.Sources.Dataset, parseDataset)
		return errors.Wrap(err, "dataset")
	})
	g.Go(func() error {
		var err error
		shortcodes, err = firstSuccess(gctx, l.Fetcher, l.Sources.Shortcodes, parseShortcodes)
		return errors.Wrap(err, "shortcodes")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buildIndex(items, shortcodes), nil
}
