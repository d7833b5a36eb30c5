package emoji

import (
	"context"
	"sync/atomic"
)

// Catalog holds the live index. The index pointer is swapped in one step at the end
// of a load, so readers always see a complete snapshot and need no lock.
type Catalog struct {
	loader  *Loader
	current atomic.Pointer[Index]
	loading atomic.Bool
}

// NewCatalog wraps a loader. Nothing is loaded until Ensure or Retry.
func NewCatalog(l *Loader) *Catalog {
	return &Catalog{loader: l}
}

// State reports loading while a load runs, else the state of the current index.
func (c *Catalog) State() State {
	if c.loading.Load() {
		return StateLoading
	}
	return c.current.Load().State()
}

// Index returns the current snapshot, possibly nil.
func (c *Catalog) Index() *Index {
	return c.current.Load()
}

// Ready reports whether lookups and ranking can use a loaded index.
func (c *Catalog) Ready() bool {
	s := c.current.Load().State()
	return s == StateReady || s == StateDegraded
}

// Lookup resolves a key against the current index and the fallback table.
func (c *Catalog) Lookup(key string) (string, bool) {
	return c.current.Load().Lookup(key)
}

// Ensure loads once per session: only from the empty state. started is false when
// nothing ran because an index exists or a load is already in flight.
func (c *Catalog) Ensure(ctx context.Context) (Result, bool) {
	if c.current.Load() != nil {
		return Result{}, false
	}
	return c.run(ctx)
}

// Retry re-runs the full load protocol from any state, unless a load is in flight.
func (c *Catalog) Retry(ctx context.Context) (Result, bool) {
	return c.run(ctx)
}

func (c *Catalog) run(ctx context.Context) (Result, bool) {
	if !c.loading.CompareAndSwap(false, true) {
		return Result{}, false
	}
	defer c.loading.Store(false)

	res := c.loader.Load(ctx)
	if res.Index != nil {
		c.current.Store(res.Index)
	}
	return res, true
}
