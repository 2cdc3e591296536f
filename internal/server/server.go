package server

import (
	"crypto/subtle"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"derrclan.com/daily-seed/internal/host"
	"golang.org/x/crypto/bcrypt"
)

// Config controls what the server shows and who may change settings.
type Config struct {
	Title string
	// Content is the page body; shortcodes in it are expanded per request.
	Content string

	AdminUser string
	// AdminPasswordHash is a bcrypt hash. Admin pages are disabled when
	// it is empty.
	AdminPasswordHash string
}

type Server struct {
	registry *host.Registry
	cfg      Config
	tmpl     *template.Template
}

func New(registry *host.Registry, cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(web, "web/*.html", "web/*.gotmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{registry: registry, cfg: cfg, tmpl: tmpl}, nil
}

func (s *Server) Muxer() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/shortcode/", s.handleShortcode)
	// Browsers mark cross-site form posts; those never reach the admin.
	mux.Handle("/admin/", http.NewCrossOriginProtection().Handler(s.requireAdmin(s.handleSettings)))

	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := map[string]any{
		"title":   s.cfg.Title,
		"content": template.HTML(s.registry.Render(r.Context(), s.cfg.Content)),
	}

	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.Error("failed to execute template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// handleShortcode renders a single shortcode as a bare fragment, taking
// its attributes from the query string. Useful for embedding via HTMX or
// an iframe.
func (s *Server) handleShortcode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tag := strings.TrimPrefix(r.URL.Path, "/shortcode/")
	fn, ok := s.registry.Shortcode(tag)
	if !ok {
		http.NotFound(w, r)
		return
	}

	attrs := make(host.Attributes)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			attrs[strings.ToLower(k)] = v[0]
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, fn(r.Context(), attrs))
}

// handleSettings serves GET and POST for /admin/{page}
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	page := strings.TrimPrefix(r.URL.Path, "/admin/")
	setting, ok := s.registry.Setting(page)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		data := newSettingsPage(r.Context(), setting, r.URL.Path, r.URL.Query().Get("settings-updated") == "true")
		if err := s.tmpl.ExecuteTemplate(w, "settings.gotmpl", data); err != nil {
			slog.Error("failed to execute settings template", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			slog.Error("failed to parse settings form", "error", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if err := setting.Save(r.Context(), r.PostForm); err != nil {
			slog.Error("failed to save settings", "page", page, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, r.URL.Path+"?settings-updated=true", http.StatusSeeOther)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminPasswordHash == "" {
			http.Error(w, "Admin pages are disabled", http.StatusForbidden)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !s.checkAdmin(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="daily-seed admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) checkAdmin(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.AdminUser)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(pass)) == nil
	return userOK && passOK
}
