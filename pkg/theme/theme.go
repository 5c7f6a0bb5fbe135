// Package theme persists the light/dark preference and reflects it onto the
// document.
//
// The resolved theme is written to the data-theme attribute of the document
// element. The #theme-toggle control, when present, shows the icon and label
// of the current theme.
package theme

import (
	"context"
	"log/slog"

	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/pref"
)

// State is a theme value.
type State string

const (
	Light State = "light"
	Dark  State = "dark"
)

const (
	// StorageKey is the preference key the theme is stored under.
	StorageKey = "theme"

	// Attribute is the document element attribute carrying the theme.
	Attribute = "data-theme"

	// ToggleID is the id of the toggle control.
	ToggleID = "theme-toggle"
)

// Valid reports whether s is Light or Dark.
func (s State) Valid() bool {
	return s == Light || s == Dark
}

// Opposite returns the other theme.
func (s State) Opposite() State {
	if s == Dark {
		return Light
	}
	return Dark
}

// Icon returns the glyph shown on the toggle control for s.
func (s State) Icon() string {
	if s == Dark {
		return "☾"
	}
	return "☀"
}

// Label returns the toggle control's accessible label for s.
func (s State) Label() string {
	if s == Dark {
		return "Switch to light theme"
	}
	return "Switch to dark theme"
}

// ColorScheme reports the system-level dark mode signal.
type ColorScheme interface {
	PrefersDark() bool
}

// SchemeFunc adapts a function to ColorScheme.
type SchemeFunc func() bool

// PrefersDark implements ColorScheme.
func (f SchemeFunc) PrefersDark() bool { return f() }

// Option configures a Preference.
type Option func(*Preference)

// WithLogger sets the logger used for storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preference) {
		p.logger = logger
	}
}

// Preference applies and persists the theme for one document.
type Preference struct {
	doc     *dom.Document
	pref    *pref.Pref[State]
	system  ColorScheme
	logger  *slog.Logger
	current State
}

// New returns a Preference for doc. store and system may be nil: a nil
// store behaves as empty storage, a nil system scheme as "prefers light".
func New(doc *dom.Document, store pref.Store, system ColorScheme, opts ...Option) *Preference {
	p := &Preference{
		doc:     doc,
		pref:    pref.New(store, StorageKey, Light),
		system:  system,
		logger:  slog.Default().With("component", "theme"),
		current: Light,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Current returns the theme last applied.
func (p *Preference) Current() State {
	return p.current
}

// Initialize resolves the theme from storage, falling back to the system
// scheme, and applies it. Storage failures count as no saved preference.
func (p *Preference) Initialize(ctx context.Context) State {
	state, ok := p.saved(ctx)
	if !ok {
		state = Light
		if p.system != nil && p.system.PrefersDark() {
			state = Dark
		}
	}
	p.apply(state)
	return state
}

func (p *Preference) saved(ctx context.Context) (State, bool) {
	state, found, err := p.pref.Load(ctx)
	if err != nil {
		p.logger.Debug("theme preference unavailable", "error", err)
		return "", false
	}
	if !found || !state.Valid() {
		return "", false
	}
	return state, true
}

// Toggle switches to the opposite theme, applies it and persists it. The
// document changes even when persisting fails.
func (p *Preference) Toggle(ctx context.Context) State {
	next := p.documentState().Opposite()
	p.apply(next)
	if err := p.pref.Set(ctx, next); err != nil {
		p.logger.Debug("theme preference not saved", "error", err)
	}
	return next
}

// documentState reads the theme from the document element, which is the
// source of truth once applied.
func (p *Preference) documentState() State {
	if p.doc != nil {
		if v, ok := p.doc.DocumentElement().Attr(Attribute); ok && State(v).Valid() {
			return State(v)
		}
	}
	return p.current
}

func (p *Preference) apply(state State) {
	p.current = state
	if p.doc == nil {
		return
	}
	p.doc.DocumentElement().SetAttr(Attribute, string(state))

	toggle := p.doc.GetElementByID(ToggleID)
	if toggle == nil {
		return
	}
	toggle.SetText(state.Icon())
	toggle.SetAttr("aria-label", state.Label())
	toggle.SetAttr("title", state.Label())
}
