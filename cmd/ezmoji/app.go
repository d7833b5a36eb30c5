package main

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/engine"
	"github.com/nhath/ezmoji/internal/logger"
	"github.com/nhath/ezmoji/internal/snippet"
	"github.com/nhath/ezmoji/internal/store"
	"github.com/nhath/ezmoji/internal/ui"
)

type closer interface{ Close() error }

// app holds everything a command needs, opened from the config.
type app struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	kv       store.KV
	sources  emoji.Sources
	catalog  *emoji.Catalog
	session  *engine.Session
	snippets *snippet.Repository
	closer   closer
}

func openApp(ctx context.Context, g *globalFlags) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	a := &app{cfg: cfg, log: logger.Named("app")}

	if g.ephemeral {
		mem := store.NewMemory()
		a.kv, a.closer = mem, mem
	} else {
		params, err := cfg.Store.Params()
		if err != nil {
			return nil, err
		}
		s, err := store.Open(ctx, params, logger.Named("store"))
		if err != nil {
			return nil, errors.Wrapf(err, "open store %s", cfg.Store.BuildDSN())
		}
		a.kv, a.closer = s, s
	}

	a.sources, err = emoji.NewSources(cfg.Dataset.Version, cfg.Dataset.DatasetURLs, cfg.Dataset.ShortcodeURLs)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.catalog = emoji.NewCatalog(&emoji.Loader{
		Store:   a.kv,
		Fetcher: emoji.NewHTTPFetcher(timeout(cfg)),
		Sources: a.sources,
		Log:     logger.Named("emoji"),
	})

	a.session, err = engine.New(ctx, engine.Options{
		Store:      a.kv,
		Catalog:    a.catalog,
		Keys:       ui.PopupKeys(cfg.Keys),
		ToggleKeys: cfg.Keys.Toggle,
		MaxResults: cfg.Popup.MaxItems,
		Visible:    cfg.Popup.Visible,
		AutoExpand: cfg.AutoExpand,
		Log:        logger.Named("engine"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.snippets, err = snippet.Open(ctx, snippet.Options{
		Store:  a.kv,
		Cipher: snippetCipher(a.log),
		Log:    logger.Named("snippet"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// snippetCipher seals snippet code with the keyring master key, or stores it
// plain when no keyring is available.
func snippetCipher(log *zap.SugaredLogger) snippet.Cipher {
	key, err := config.GetMasterKey()
	if err != nil {
		log.Warnw("keyring unavailable, snippets stored unencrypted", "error", err)
		return nil
	}
	return config.KeyCipher{Key: key}
}

// ensureIndex loads the catalog and reports how it went.
func (a *app) ensureIndex(ctx context.Context) emoji.Result {
	ctx, cancel := context.WithTimeout(ctx, timeout(a.cfg))
	defer cancel()
	res, _ := a.catalog.Ensure(ctx)
	return res
}

func (a *app) Close() {
	if a.snippets != nil {
		if err := a.snippets.Flush(context.Background()); err != nil {
			a.log.Warnw("flush snippets failed", "error", err)
		}
	}
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Warnw("close store failed", "error", err)
		}
	}
}

func timeout(cfg *config.Config) time.Duration {
	if cfg.Dataset.TimeoutSec > 0 {
		return time.Duration(cfg.Dataset.TimeoutSec) * time.Second
	}
	return 15 * time.Second
}
