// Package host is the extension surface plugins register against:
// shortcode handlers that render into page content, and settings pages
// backed by the options store.
package host

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sync"
)

// Attributes are the key/value pairs written inside a shortcode token.
// Keys are lower-cased.
type Attributes map[string]string

// ShortcodeFunc renders one shortcode occurrence into HTML.
type ShortcodeFunc func(ctx context.Context, attrs Attributes) string

// FieldKind selects how a settings field is rendered.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldCheckbox
	FieldSelect
)

type Choice struct {
	Value string
	Label string
}

// Field describes one input on a settings page.
type Field struct {
	ID          string
	Label       string
	Kind        FieldKind
	Placeholder string
	Choices     []Choice
}

// Setting describes a settings page bound to a single option record.
type Setting struct {
	// Option is the options store key the page edits. Form inputs are
	// named Option[field].
	Option string
	// Page is the URL slug of the settings page.
	Page    string
	Title   string
	Section string
	Fields  []Field

	// Values returns the current field values for display.
	Values func(ctx context.Context) map[string]string
	// Save sanitizes and stores a submitted form.
	Save func(ctx context.Context, form url.Values) error
}

var tagName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry holds everything plugins registered at startup.
type Registry struct {
	mu         sync.RWMutex
	shortcodes map[string]ShortcodeFunc
	settings   map[string]Setting
}

func NewRegistry() *Registry {
	return &Registry{
		shortcodes: make(map[string]ShortcodeFunc),
		settings:   make(map[string]Setting),
	}
}

func (r *Registry) RegisterShortcode(tag string, fn ShortcodeFunc) error {
	if !tagName.MatchString(tag) {
		return fmt.Errorf("invalid shortcode tag %q", tag)
	}
	if fn == nil {
		return fmt.Errorf("shortcode %s: nil handler", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shortcodes[tag]; ok {
		return fmt.Errorf("shortcode %s already registered", tag)
	}
	r.shortcodes[tag] = fn
	return nil
}

func (r *Registry) RegisterSetting(s Setting) error {
	if s.Page == "" || s.Option == "" {
		return fmt.Errorf("setting needs both a page and an option name")
	}
	if s.Values == nil || s.Save == nil {
		return fmt.Errorf("setting %s: Values and Save are required", s.Page)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.settings[s.Page]; ok {
		return fmt.Errorf("settings page %s already registered", s.Page)
	}
	r.settings[s.Page] = s
	return nil
}

func (r *Registry) Shortcode(tag string) (ShortcodeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.shortcodes[tag]
	return fn, ok
}

func (r *Registry) Setting(page string) (Setting, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[page]
	return s, ok
}
