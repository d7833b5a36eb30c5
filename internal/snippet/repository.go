package snippet

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/store"
)

// DefaultSaveDelay is how long edits settle before they are written.
const DefaultSaveDelay = 200 * time.Millisecond

// ErrUnknown is returned for IDs the repository does not hold.
var ErrUnknown = errors.New("unknown snippet")

// record is the persisted form. Code holds ciphertext when Sealed is set.
type record struct {
	Snippet
	Sealed bool `json:"sealed,omitempty"`
}

// Options configure a Repository.
type Options struct {
	Store store.KV
	// Cipher seals code at rest; nil stores plain text.
	Cipher Cipher
	// SaveDelay debounces ScheduleSave; zero means DefaultSaveDelay.
	SaveDelay time.Duration
	Log       *zap.SugaredLogger
}

// Repository is the ordered snippet list backed by one store key.
type Repository struct {
	kv     store.KV
	cipher Cipher
	delay  time.Duration
	log    *zap.SugaredLogger

	mu    sync.Mutex
	items []Snippet
	// locked keeps records that could not be decrypted so saves do not lose them
	locked []record
	timer  *time.Timer
}

// Open loads the snippet list. A missing key is an empty list.
func Open(ctx context.Context, opts Options) (*Repository, error) {
	if opts.Store == nil {
		return nil, errors.New("snippet: store is required")
	}
	if opts.Cipher == nil {
		opts.Cipher = plain{}
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	r := &Repository{kv: opts.Store, cipher: opts.Cipher, delay: opts.SaveDelay, log: opts.Log}

	raw, err := r.kv.Get(ctx, store.KeySnippets)
	if errors.Is(err, store.ErrNotFound) {
		return r, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read snippets")
	}

	var recs []record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		// a broken list is replaced on the next save
		r.log.Warnw("snippet list unreadable, starting empty", "error", err)
		return r, nil
	}
	for _, rec := range recs {
		s := rec.Snippet
		if rec.Sealed {
			code, err := r.cipher.Decrypt(rec.Code)
			if err != nil {
				r.log.Warnw("snippet could not be decrypted", "id", rec.ID, "error", err)
				r.locked = append(r.locked, rec)
				continue
			}
			s.Code = code
		}
		r.items = append(r.items, s)
	}
	return r, nil
}

// List returns a copy of the snippets in order.
func (r *Repository) List() []Snippet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Len reports the number of usable snippets.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Get finds a snippet by ID.
func (r *Repository) Get(id string) (Snippet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		return r.items[i], true
	}
	return Snippet{}, false
}

// AutoRun lists snippets flagged for insertion at startup.
func (r *Repository) AutoRun() []Snippet {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Snippet
	for _, s := range r.items {
		if s.AutoRun {
			out = append(out, s)
		}
	}
	return out
}

// Add appends s, giving it an ID if it has none, and schedules a save.
func (r *Repository) Add(s Snippet) Snippet {
	if s.ID == "" {
		s = New(s.Title, s.Mode, s.Code).withAutoRun(s.AutoRun)
	}
	r.mu.Lock()
	if i := r.index(s.ID); i >= 0 {
		r.items[i] = s
	} else {
		r.items = append(r.items, s)
	}
	r.mu.Unlock()
	r.ScheduleSave()
	return s
}

// Update replaces the snippet with the same ID.
func (r *Repository) Update(s Snippet) error {
	r.mu.Lock()
	i := r.index(s.ID)
	if i < 0 {
		r.mu.Unlock()
		return errors.Wrapf(ErrUnknown, "%s", s.ID)
	}
	r.items[i] = s
	r.mu.Unlock()
	r.ScheduleSave()
	return nil
}

// Remove deletes a snippet by ID.
func (r *Repository) Remove(id string) error {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 {
		r.mu.Unlock()
		return errors.Wrapf(ErrUnknown, "%s", id)
	}
	r.items = slices.Delete(r.items, i, i+1)
	r.mu.Unlock()
	r.ScheduleSave()
	return nil
}

func (r *Repository) index(id string) int {
	return slices.IndexFunc(r.items, func(s Snippet) bool { return s.ID == id })
}

// ScheduleSave writes the list once edits have been quiet for the save delay.
func (r *Repository) ScheduleSave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, func() {
		if err := r.Flush(context.Background()); err != nil {
			r.log.Warnw("snippet save failed", "error", err)
		}
	})
}

// Flush cancels a pending save and writes now.
func (r *Repository) Flush(ctx context.Context) error {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	items := slices.Clone(r.items)
	locked := slices.Clone(r.locked)
	r.mu.Unlock()

	recs := make([]record, 0, len(items)+len(locked))
	for _, s := range items {
		code, err := r.cipher.Encrypt(s.Code)
		if err != nil {
			return errors.Wrapf(err, "seal snippet %s", s.ID)
		}
		_, isPlain := r.cipher.(plain)
		s.Code = code
		recs = append(recs, record{Snippet: s, Sealed: !isPlain})
	}
	recs = append(recs, locked...)

	data, err := json.Marshal(recs)
	if err != nil {
		return errors.Wrap(err, "encode snippets")
	}
	if err := r.kv.Set(ctx, store.KeySnippets, string(data)); err != nil {
		return errors.Wrap(err, "write snippets")
	}
	r.log.Debugw("snippets saved", "count", len(items))
	return nil
}

// ActiveTab returns the persisted panel tab, or def when none is stored.
func ActiveTab(ctx context.Context, kv store.KV, def string) string {
	v, err := kv.Get(ctx, store.KeyActiveTab)
	if err != nil || v == "" {
		return def
	}
	return v
}

// SetActiveTab persists the panel tab.
func SetActiveTab(ctx context.Context, kv store.KV, tab string) error {
	return kv.Set(ctx, store.KeyActiveTab, tab)
}

func (s Snippet) withAutoRun(on bool) Snippet {
	s.AutoRun = on
	return s
}
