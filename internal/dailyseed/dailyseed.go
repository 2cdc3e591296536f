// Package dailyseed renders the [daily_seed] shortcode: one random Bible
// verse fetched from the scripture API using the stored settings.
package dailyseed

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"derrclan.com/daily-seed/internal/host"
	"derrclan.com/daily-seed/internal/notify"
	"derrclan.com/daily-seed/internal/scripture"
	"derrclan.com/daily-seed/internal/settings"
)

const ShortcodeTag = "daily_seed"

// ErrorMessage is shown in place of the verse whenever fetching fails.
const ErrorMessage = "Error retrieving the verse. Please check API key and settings."

// Translations are the versions picked from when randomizing.
var Translations = []string{"NIV", "KJV", "ESV", "NASB"}

// The upstream fields are plain text, so entities in them are escaped
// like any other '&' and show up literally.
var verseTmpl = template.Must(template.New("verse").Parse(`<p><strong>{{.Reference}}</strong>: {{.Text}}</p>`))

type SettingsReader interface {
	Read(ctx context.Context) settings.Record
}

type VerseFetcher interface {
	FetchRandomVerse(ctx context.Context, apiKey, translation, scope string) (scripture.Verse, error)
}

// Translator localizes a user-facing message.
type Translator func(msg string) string

// Attributes are the shortcode attributes after defaults are applied.
type Attributes struct {
	// ConfigID is accepted but does not select anything yet.
	ConfigID int
}

// ParseAttributes applies defaults to raw shortcode attributes. Unknown
// attributes are dropped; a non-numeric config_id reads as 0.
func ParseAttributes(raw host.Attributes) Attributes {
	var a Attributes
	if v, ok := raw["config_id"]; ok {
		a.ConfigID, _ = strconv.Atoi(strings.TrimSpace(v))
	}
	return a
}

type Renderer struct {
	settings  SettingsReader
	verses    VerseFetcher
	translate Translator
	notifier  notify.Notifier
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	notified map[string]time.Time
}

// DefaultNotifyCooldown is how long an API error stays quiet after the
// admin has been told about it once.
const DefaultNotifyCooldown = time.Hour

type Option func(*Renderer)

// WithRand sets the source used to pick a random translation.
func WithRand(rng *rand.Rand) Option {
	return func(r *Renderer) { r.rng = rng }
}

func WithTranslator(t Translator) Option {
	return func(r *Renderer) { r.translate = t }
}

// WithNotifier sets who hears about API errors. The default drops them.
func WithNotifier(n notify.Notifier) Option {
	return func(r *Renderer) { r.notifier = n }
}

// WithNotifyCooldown sets how long a repeated API error is suppressed.
func WithNotifyCooldown(d time.Duration) Option {
	return func(r *Renderer) { r.cooldown = d }
}

func New(s SettingsReader, v VerseFetcher, opts ...Option) *Renderer {
	r := &Renderer{
		settings:  s,
		verses:    v,
		translate: func(msg string) string { return msg },
		notifier:  notify.Nop{},
		cooldown:  DefaultNotifyCooldown,
		now:       time.Now,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		notified:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs the shortcode and its settings page.
func (r *Renderer) Register(reg *host.Registry, schema host.Setting) error {
	if err := reg.RegisterSetting(schema); err != nil {
		return err
	}
	return reg.RegisterShortcode(ShortcodeTag, r.RenderShortcode)
}

// ResolveTranslation picks the translation for one render: a uniformly
// random entry of Translations when randomizing, otherwise the stored
// default as is.
func (r *Renderer) ResolveTranslation(rec settings.Record) string {
	if !rec.UseRandomVersion {
		return rec.DefaultVersion
	}
	r.mu.Lock()
	i := r.rng.IntN(len(Translations))
	r.mu.Unlock()
	return Translations[i]
}

// RenderShortcode returns the verse as an HTML fragment, or the localized
// ErrorMessage if it could not be fetched.
func (r *Renderer) RenderShortcode(ctx context.Context, raw host.Attributes) string {
	attrs := ParseAttributes(raw)

	rec := r.settings.Read(ctx)
	translation := r.ResolveTranslation(rec)

	verse, err := r.verses.FetchRandomVerse(ctx, rec.APIKey, translation, string(rec.VerseScope))
	if err != nil {
		r.reportFailure(ctx, translation, err)
		return r.translate(ErrorMessage)
	}

	var b strings.Builder
	if err := verseTmpl.Execute(&b, verse); err != nil {
		slog.Error("failed to render verse", "error", err)
		return r.translate(ErrorMessage)
	}

	slog.Debug("rendered verse", "reference", verse.Reference, "translation", translation, "config_id", attrs.ConfigID)
	return b.String()
}

func (r *Renderer) reportFailure(ctx context.Context, translation string, err error) {
	var apiErr *scripture.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("failed to fetch verse", "translation", translation, "error", err)
		return
	}

	slog.Warn("scripture API rejected request", "translation", translation, "kind", apiErr.Kind(), "message", apiErr.Message)
	if _, nop := r.notifier.(notify.Nop); nop || !r.shouldNotify(apiErr.Message) {
		return
	}
	go func() {
		if err := r.notifier.APIError(context.WithoutCancel(ctx), translation, apiErr.Message); err != nil {
			slog.Error("failed to notify admin", "error", err)
		}
	}()
}

// shouldNotify reports whether the API error message key is outside its
// cooldown, and if so starts a new one. Expired keys are dropped on the way.
func (r *Renderer) shouldNotify(key string) bool {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, at := range r.notified {
		if now.Sub(at) >= r.cooldown {
			delete(r.notified, k)
		}
	}
	if _, recent := r.notified[key]; recent {
		return false
	}
	r.notified[key] = now
	return true
}
