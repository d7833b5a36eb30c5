// Package engine ties the pieces together. A Session receives document events and
// keys, keeps the popup in sync with the caret, and writes chosen symbols back into
// the surface the query came from.
package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/emoji"
	"github.com/nhath/ezmoji/internal/popup"
	"github.com/nhath/ezmoji/internal/rank"
	"github.com/nhath/ezmoji/internal/store"
	"github.com/nhath/ezmoji/internal/surface"
	"github.com/nhath/ezmoji/internal/trigger"
)

// ErrStale is returned when a pending query no longer matches the surface text.
var ErrStale = errors.New("pending query is stale")

// Options configure a Session.
type Options struct {
	Store      store.KV
	Catalog    *emoji.Catalog
	Keys       popup.KeyMap
	ToggleKeys []string
	MaxResults int
	// Visible is how many popup rows show at once.
	Visible    int
	AutoExpand bool
	Log        *zap.SugaredLogger
}

// Session is the per-process context: enabled flag, composition gate, catalog and
// popup. Several sessions can coexist, which is what tests rely on.
type Session struct {
	kv         store.KV
	catalog    *emoji.Catalog
	scanner    trigger.Scanner
	popup      popup.Model
	enabled    bool
	autoExpand bool
	maxResults int
	toggleKeys []string
	applying   bool
	log        *zap.SugaredLogger
}

// Result tells the host what an event did.
type Result struct {
	// Expanded is set when a closed trigger was replaced.
	Expanded bool
	// PopupOpen is the popup visibility after the event.
	PopupOpen bool
	// NeedIndex asks the host to start the first index load.
	NeedIndex bool
}

// New builds a session and reads the enabled flag from the store.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("engine: catalog is required")
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = rank.MaxResults
	}
	if opts.Visible <= 0 {
		opts.Visible = min(opts.MaxResults, 6)
	}
	if len(opts.Keys.Commit) == 0 {
		opts.Keys = popup.DefaultKeyMap()
	}
	if len(opts.ToggleKeys) == 0 {
		opts.ToggleKeys = []string{"f8"}
	}

	enabled, err := store.Enabled(ctx, opts.Store)
	if err != nil {
		opts.Log.Warnw("could not read enabled flag, assuming on", "error", err)
	}

	return &Session{
		kv:         opts.Store,
		catalog:    opts.Catalog,
		popup:      popup.New().SetKeyMap(opts.Keys).SetMaxShow(opts.Visible),
		enabled:    enabled,
		autoExpand: opts.AutoExpand,
		maxResults: opts.MaxResults,
		toggleKeys: opts.ToggleKeys,
		log:        opts.Log,
	}, nil
}

// Enabled reports the feature flag.
func (s *Session) Enabled() bool { return s.enabled }

// SetEnabled persists the flag. Disabling closes the popup.
func (s *Session) SetEnabled(ctx context.Context, on bool) error {
	s.enabled = on
	if !on {
		s.popup = s.popup.Close()
	}
	return store.SetEnabled(ctx, s.kv, on)
}

// Catalog returns the index holder.
func (s *Session) Catalog() *emoji.Catalog { return s.catalog }

// Popup returns the current popup state.
func (s *Session) Popup() popup.Model { return s.popup }

// SetPopupStyles applies theme styles to the popup.
func (s *Session) SetPopupStyles(st popup.Styles) {
	s.popup = s.popup.SetStyles(st)
}

// SetKeys rebinds popup navigation and the panel toggle.
func (s *Session) SetKeys(k popup.KeyMap, toggle []string) {
	if len(k.Commit) > 0 {
		s.popup = s.popup.SetKeyMap(k)
	}
	if len(toggle) > 0 {
		s.toggleKeys = toggle
	}
}

// Composing reports whether an IME composition is active.
func (s *Session) Composing() bool { return s.scanner.Composing() }

// HandleEvent reacts to one document event.
func (s *Session) HandleEvent(ev doc.Event) Result {
	var res Result
	switch ev.Type {
	case doc.EventCompositionStart:
		s.scanner.CompositionStart()
		s.popup = s.popup.Close()
	case doc.EventCompositionEnd:
		s.scanner.CompositionEnd()
	case doc.EventInput:
		if s.applying {
			// our own change notification
			break
		}
		if s.autoExpand {
			if sf, ok := surface.Classify(ev.Target, s.log); ok {
				res.Expanded = s.AutoExpand(sf)
			}
		}
		res.NeedIndex = s.Rescan(ev.Target)
	case doc.EventSelectionChange, doc.EventKeyUp:
		res.NeedIndex = s.Rescan(ev.Target)
	case doc.EventFocusOut, doc.EventClick:
		s.popup = s.popup.Close()
	}
	res.PopupOpen = s.popup.Visible()
	return res
}

// Rescan recomputes the pending query for target and reopens or closes the popup.
// It returns true when a trigger was found but no index has been loaded yet.
func (s *Session) Rescan(target *doc.Node) bool {
	if !s.enabled || s.scanner.Composing() {
		s.popup = s.popup.Close()
		return false
	}
	sf, ok := surface.Classify(target, s.log)
	if !ok {
		s.popup = s.popup.Close()
		return false
	}
	w, tok, ok := s.scanner.ScanSurface(sf)
	if !ok {
		s.popup = s.popup.Close()
		return false
	}
	if !s.catalog.Ready() {
		s.popup = s.popup.Close()
		return s.catalog.State() == emoji.StateEmpty
	}

	p := trigger.Pending{Surface: sf, Query: tok.Query, Span: tok.Span(w.Node)}
	candidates := rank.Top(tok.Query, s.catalog.Index().Entries(), s.maxResults)
	s.popup = s.popup.Open(p, candidates)
	return false
}

// HandleKey runs popup navigation. It returns false when the key was not consumed
// and should reach the surface.
func (s *Session) HandleKey(key string) (bool, error) {
	if !s.enabled || !s.popup.Visible() {
		return false, nil
	}
	next, act := s.popup.HandleKey(key)
	switch act {
	case popup.ActionMove:
		s.popup = next
	case popup.ActionCommit:
		_, err := s.Commit()
		return true, err
	case popup.ActionDismiss:
		s.popup = s.popup.Close()
	default:
		return false, nil
	}
	return true, nil
}

// IsToggleKey reports whether key is bound to the panel toggle.
func (s *Session) IsToggleKey(key string) bool {
	for _, k := range s.toggleKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ToggleAllowed reports whether the panel hotkey may act with focus on n. Inside an
// editable surface the key belongs to the surface.
func ToggleAllowed(focus *doc.Node) bool {
	return !surface.IsEditable(focus)
}
