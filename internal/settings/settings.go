// Package settings adapts the "daily_seed_options" blob in an options
// store into a typed configuration record.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"derrclan.com/daily-seed/internal/options"
)

// OptionName is the options store key holding the record.
const OptionName = "daily_seed_options"

// Field names, shared by the stored JSON and the admin form.
const (
	FieldAPIKey           = "api_key"
	FieldDefaultVersion   = "default_version"
	FieldUseRandomVersion = "use_random_version"
	FieldVerseScope       = "verse_scope"
)

// Scope restricts which testament the upstream picks verses from.
type Scope string

const (
	ScopeOT   Scope = "ot"
	ScopeNT   Scope = "nt"
	ScopeBoth Scope = "both"
)

// Valid reports whether s is one of the three known scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeOT, ScopeNT, ScopeBoth:
		return true
	}
	return false
}

// ParseScope returns v as a Scope when it is exactly "ot", "nt" or
// "both", and ScopeBoth for anything else.
func ParseScope(v any) Scope {
	s, ok := v.(string)
	if !ok {
		return ScopeBoth
	}
	if scope := Scope(s); scope.Valid() {
		return scope
	}
	return ScopeBoth
}

// Record is the plugin configuration.
type Record struct {
	APIKey           string `json:"api_key"`
	DefaultVersion   string `json:"default_version"`
	UseRandomVersion bool   `json:"use_random_version"`
	VerseScope       Scope  `json:"verse_scope"`
}

// Default returns the record used when nothing has been saved yet.
func Default() Record {
	return Record{VerseScope: ScopeBoth}
}

// Settings reads and writes the record through an options store.
type Settings struct {
	store options.Store
}

func New(store options.Store) *Settings {
	return &Settings{store: store}
}

// Read returns the stored record with defaults for absent fields. It
// never fails: a missing, unreadable or corrupt blob yields Default().
func (s *Settings) Read(ctx context.Context) Record {
	raw, ok, err := s.store.Get(ctx, OptionName)
	if err != nil {
		slog.Error("failed to read settings", "option", OptionName, "error", err)
		return Default()
	}
	if !ok {
		return Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		slog.Error("failed to decode settings", "option", OptionName, "error", err)
		return Default()
	}
	return decode(m, func(s string) string { return s })
}

// Save sanitizes input and persists the result. It is the only write
// path for the record.
func (s *Settings) Save(ctx context.Context, input map[string]any) (Record, error) {
	rec := Sanitize(input)

	raw, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.store.Set(ctx, OptionName, raw); err != nil {
		return rec, fmt.Errorf("failed to store settings: %w", err)
	}

	slog.Info("settings saved",
		"default_version", rec.DefaultVersion,
		"use_random_version", rec.UseRandomVersion,
		"verse_scope", rec.VerseScope,
	)
	return rec, nil
}
