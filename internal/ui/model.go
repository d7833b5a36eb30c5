// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhath/ezmoji/internal/config"
	"github.com/nhath/ezmoji/internal/doc"
	"github.com/nhath/ezmoji/internal/engine"
	"github.com/nhath/ezmoji/internal/snippet"
	"github.com/nhath/ezmoji/internal/store"
	"github.com/nhath/ezmoji/internal/surface"
)

// Options wire the model to its collaborators.
type Options struct {
	Config   *config.Config
	Doc      *doc.Document
	Path     string // where the save key writes the document; empty disables it
	Session  *engine.Session
	Snippets *snippet.Repository
	Store    store.KV
	Log      *zap.SugaredLogger
}

// Model is the root Bubble Tea model
type Model struct {
	config   *config.Config
	doc      *doc.Document
	path     string
	session  *engine.Session
	snippets *snippet.Repository
	kv       store.KV
	log      *zap.SugaredLogger

	width, height int

	// focus is the surface root keys go to; nil means nothing is focused
	focus *doc.Node
	// lastSurface is where snippets go while the panel has the keyboard
	lastSurface *doc.Node

	// Side panel
	panelOpen bool
	tab       Tab
	filter    textinput.Model
	panelIdx  int

	showHelp bool

	// Status
	spinner   spinner.Model
	loading   bool
	statusMsg string
	errorMsg  string
}

// NewModel creates a new UI model
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Doc == nil {
		opts.Doc = doc.New()
	}
	InitStyles(cfg.Theme)
	opts.Session.SetPopupStyles(PopupStyles())

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter..."
	fi.CharLimit = 64
	fi.Width = 30
	fi.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor())

	m := Model{
		config:   cfg,
		doc:      opts.Doc,
		path:     opts.Path,
		session:  opts.Session,
		snippets: opts.Snippets,
		kv:       opts.Store,
		log:      opts.Log,
		tab:      parseTab(snippet.ActiveTab(context.Background(), opts.Store, string(TabEmoji))),
		filter:   fi,
		spinner:  sp,
	}
	m = m.runAutoSnippets()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// runAutoSnippets inserts snippets flagged auto_run into the first surface.
func (m Model) runAutoSnippets() Model {
	if m.snippets == nil {
		return m
	}
	list := focusables(m.doc.Root)
	if len(list) == 0 {
		return m
	}
	target := list[0]
	for _, n := range list {
		if isRich(n) {
			target = n
			break
		}
	}
	for _, s := range m.snippets.AutoRun() {
		if err := m.insertSnippet(target, s); err != nil {
			m.log.Warnw("auto-run snippet failed", "id", s.ID, "error", err)
		}
	}
	return m
}

func (m Model) insertSnippet(target *doc.Node, s snippet.Snippet) error {
	text, err := s.Render(time.Now())
	if err != nil {
		return err
	}
	sf, ok := surface.Classify(target, m.log)
	if !ok {
		return surface.ErrNoSurface
	}
	return snippet.Insert(sf, s.ID, text)
}

// Focused returns the focused surface root, or nil.
func (m Model) Focused() *doc.Node { return m.focus }

// PanelOpen reports whether the side panel is shown.
func (m Model) PanelOpen() bool { return m.panelOpen }

// ActiveTab returns the side panel page.
func (m Model) ActiveTab() Tab { return m.tab }

// Status returns the status and error messages.
func (m Model) Status() (string, string) { return m.statusMsg, m.errorMsg }
