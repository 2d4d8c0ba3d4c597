package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/safhub/portald/internal/auth"
	"github.com/safhub/portald/internal/config"
	"github.com/safhub/portald/internal/credstore"
)

//go:embed templates/*.html
var templatesFS embed.FS

type App struct {
	secret     []byte
	cookieName string
	pages      map[string]*template.Template
	users      *credstore.Store
	noticeHTML template.HTML
}

type ViewData struct {
	Authed    bool
	Username  string
	Role      string
	Admin     bool
	HideNav   bool
	Flash     string
	FlashKind string // ok|err|""

	// login
	LoginRole string

	// landing
	NoticeHTML template.HTML

	// admin
	Users []UserRow

	// preserve submitted fields on validation failure
	FormUser string
	FormRole string
}

type UserRow struct {
	Name string
	Role string
}

func newApp(cfg config.Config, users *credstore.Store) (*App, error) {
	secret, err := cfg.SecretBytes()
	if err != nil {
		return nil, err
	}

	base := template.New("layout.html")

	pages := map[string]*template.Template{}
	for _, page := range []string{"index", "login", "home", "admin", "change_password"} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		// Each page file defines the same block names (title/content).
		// Parse layout first, then the page to override blocks.
		if _, err := t.ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html"); err != nil {
			return nil, err
		}
		pages[page] = t
	}

	app := &App{
		secret:     secret,
		cookieName: auth.DefaultCookieName,
		pages:      pages,
		users:      users,
	}
	if cfg.LandingNotice != "" {
		app.noticeHTML = RenderMarkdown(cfg.LandingNotice)
	}
	return app, nil
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", a.handleIndex)
	mux.HandleFunc("/login/", a.handleLogin)
	mux.HandleFunc("/home", a.requireSession(a.handleHome))
	mux.HandleFunc("/admin", a.requireRole("admin", a.handleAdmin))
	mux.HandleFunc("/change_password", a.requireSession(a.handleChangePassword))
	mux.HandleFunc("/logout", a.handleLogout)

	mux.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{\"ok\":true}\n"))
	})

	return a.withSession(mux)
}

func (a *App) issueCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
		MaxAge:   int(auth.DefaultSessionTTL / time.Second),
	})
}

func (a *App) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
		MaxAge:   -1,
	})
}
