package settings

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"derrclan.com/daily-seed/internal/options"
	"github.com/google/go-cmp/cmp"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  Record
	}{
		{
			name:  "nil input",
			input: nil,
			want:  Record{VerseScope: ScopeBoth},
		},
		{
			name: "valid values",
			input: map[string]any{
				"api_key":            " k ",
				"default_version":    "NIV",
				"use_random_version": "1",
				"verse_scope":        "nt",
			},
			want: Record{APIKey: "k", DefaultVersion: "NIV", UseRandomVersion: true, VerseScope: ScopeNT},
		},
		{
			name:  "garbage scope",
			input: map[string]any{"verse_scope": "xyz"},
			want:  Record{VerseScope: ScopeBoth},
		},
		{
			name:  "scope is case sensitive",
			input: map[string]any{"verse_scope": "OT"},
			want:  Record{VerseScope: ScopeBoth},
		},
		{
			name:  "non-string scope",
			input: map[string]any{"verse_scope": 1},
			want:  Record{VerseScope: ScopeBoth},
		},
		{
			name:  "random flag zero string",
			input: map[string]any{"use_random_version": "0"},
			want:  Record{VerseScope: ScopeBoth},
		},
		{
			name:  "random flag bool",
			input: map[string]any{"use_random_version": true, "verse_scope": "ot"},
			want:  Record{UseRandomVersion: true, VerseScope: ScopeOT},
		},
		{
			name:  "markup stripped",
			input: map[string]any{"api_key": "<b>key</b>\n", "default_version": "<script>x()</script>KJV"},
			want:  Record{APIKey: "key", DefaultVersion: "KJV", VerseScope: ScopeBoth},
		},
		{
			name:  "numeric text",
			input: map[string]any{"api_key": 42},
			want:  Record{APIKey: "42", VerseScope: ScopeBoth},
		},
		{
			name:  "composite text",
			input: map[string]any{"api_key": []any{"a"}},
			want:  Record{VerseScope: ScopeBoth},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sanitize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSanitize_ScopeAlwaysValid(t *testing.T) {
	inputs := []any{nil, "", "ot", "nt", "both", "BOTH", " ot", "ot ", "<ot>", 0, 3.5, true, []any{"ot"}, map[string]any{"ot": 1}}
	for _, in := range inputs {
		got := Sanitize(map[string]any{"verse_scope": in}).VerseScope
		if !got.Valid() {
			t.Errorf("Sanitize(verse_scope=%#v) produced invalid scope %q", in, got)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  padded\t\tand\nsplit  ", "padded and split"},
		{"<p>hello <em>world</em></p>", "hello world"},
		{"a < b", "a &lt; b"},
		{"a<b", "a&lt;b"},
		{"x<b></b>&lt;script&gt;alert(1)&lt;/script&gt;", "x&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"&lt;b&gt;no tags here", "&lt;b&gt;no tags here"},
		{"heart <3> you", "heart &lt;3> you"},
		{"a %20 b", "a b"},
		{"<style>p{}</style>kept", "kept"},
		{"x%20y%2Fz", "xyz"},
		{"%%4141", ""},
		{"bad\xffutf8", "badutf8"},
		{"bell\a", "bell"},
	}

	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"x<b></b>&lt;script&gt;alert(1)&lt;/script&gt;",
		"a < b <i>c</i>",
		"<p>&amp;&lt;&gt;</p>",
		"heart <3> you",
		"%%4141 a %20 b",
		"<script>&lt;b&gt;</script>&lt;b&gt;",
	}
	for _, in := range inputs {
		once := SanitizeText(in)
		if twice := SanitizeText(once); twice != once {
			t.Errorf("SanitizeText not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.Contains(once, "<script") || strings.Contains(once, "<b") || strings.Contains(once, "<i") {
			t.Errorf("SanitizeText(%q) = %q still holds markup", in, once)
		}
	}
}

func TestFormInput(t *testing.T) {
	form := url.Values{
		"daily_seed_options[api_key]":     {"k"},
		"daily_seed_options[verse_scope]": {"ot"},
		"default_version":                 {"ESV"},
		"unrelated":                       {"x"},
	}

	got := FormInput(form)
	want := map[string]any{"api_key": "k", "verse_scope": "ot", "default_version": "ESV"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormInput mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDefaults(t *testing.T) {
	s := New(options.NewMemoryStore())
	if diff := cmp.Diff(Default(), s.Read(context.Background())); diff != "" {
		t.Errorf("Read on empty store mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPartialAndCorrupt(t *testing.T) {
	ctx := context.Background()
	store := options.NewMemoryStore()
	s := New(store)

	store.Set(ctx, OptionName, []byte(`{"api_key":"k","verse_scope":"bogus"}`))
	want := Record{APIKey: "k", VerseScope: ScopeBoth}
	if diff := cmp.Diff(want, s.Read(ctx)); diff != "" {
		t.Errorf("Read partial mismatch (-want +got):\n%s", diff)
	}

	store.Set(ctx, OptionName, []byte(`not json`))
	if diff := cmp.Diff(Default(), s.Read(ctx)); diff != "" {
		t.Errorf("Read corrupt mismatch (-want +got):\n%s", diff)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestReadStoreFailure(t *testing.T) {
	s := New(failingStore{})
	if diff := cmp.Diff(Default(), s.Read(context.Background())); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Save(context.Background(), nil); err == nil {
		t.Errorf("expected Save to report the store failure")
	}
}

func TestSaveThenRead(t *testing.T) {
	ctx := context.Background()
	store, err := options.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	defer store.Close()

	s := New(store)
	saved, err := s.Save(ctx, map[string]any{
		"api_key":            "<i>secret</i>",
		"default_version":    "KJV",
		"use_random_version": "on",
		"verse_scope":        "ot",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := Record{APIKey: "secret", DefaultVersion: "KJV", UseRandomVersion: true, VerseScope: ScopeOT}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Errorf("Save result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.Read(ctx)); diff != "" {
		t.Errorf("Read after Save mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(options.NewMemoryStore())
	schema := s.Schema()

	if schema.Option != OptionName || len(schema.Fields) != 4 {
		t.Fatalf("unexpected schema: %+v", schema)
	}

	form := url.Values{
		"daily_seed_options[api_key]":            {"k"},
		"daily_seed_options[use_random_version]": {"1"},
		"daily_seed_options[verse_scope]":        {"nope"},
	}
	if err := schema.Save(ctx, form); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := map[string]string{
		"api_key":            "k",
		"default_version":    "",
		"use_random_version": "1",
		"verse_scope":        "both",
	}
	if diff := cmp.Diff(want, schema.Values(ctx)); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
}
