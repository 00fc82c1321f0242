package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/promptshield/promptshield/internal/auth"
	"github.com/promptshield/promptshield/internal/platform/httpx"
	"github.com/promptshield/promptshield/internal/shared"
	"github.com/promptshield/promptshield/internal/view"
	"github.com/promptshield/promptshield/jobs"
	"github.com/promptshield/promptshield/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	AuthHandler    *auth.Handler
	JobHandler     *jobs.Handler
}

// NewRouter constructs the chi.Router serving the API and the pages.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	// Unknown routes answer with the same failure envelope as the API.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", params.AuthHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Get("/", params.renderPage("pages/index.html", "PromptShield"))
	r.Get("/login", params.renderPage("pages/login.html", "Log in"))
	r.Get("/signup", params.renderPage("pages/signup.html", "Sign up"))

	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		_, username, _ := sess.Identity()
		data := view.TemplateData{
			Title:       "Dashboard",
			CurrentPath: r.URL.Path,
			Data:        map[string]any{"Username": username},
		}
		if err := params.Templates.Render(w, "pages/dashboard.html", data); err != nil {
			params.Logger.Error("render dashboard", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

func (p RouterParams) renderPage(template, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := view.TemplateData{Title: title, CurrentPath: r.URL.Path}
		if err := p.Templates.Render(w, template, data); err != nil {
			p.Logger.Error("render page", slog.String("template", template), slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
	}
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
