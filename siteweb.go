// Package siteweb is a personal website built with Go, Echo and templ.
// It serves a Markdown blog from disk, photo and project pages backed by a
// remote API, browser tools, and key-gated admin panels over that API.
package siteweb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/apiclient"
	"github.com/siyuanink/siteweb/content"
	"github.com/siyuanink/siteweb/views"
)

// MessageTTL is how long flash messages stay on screen.
const MessageTTL = 3 * time.Second

// App is the central application. It wires together the content loader,
// API client, contact store, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Posts  *content.Loader
	API    *apiclient.Client
	Store  *Store

	site           atomic.Pointer[views.Site]
	loginLimiter   *RateLimiter
	contactLimiter *RateLimiter
	customRoutes   []func(*App)
	logger         *slog.Logger
	now            func() time.Time
	ready          bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Posts:  content.NewLoader(cfg.ContentDir),
		logger: slog.Default(),
		now:    time.Now,
	}
	a.Echo.HideBanner = true
	a.SetSite(cfg.Name, cfg.Description)

	for _, opt := range opts {
		opt(a)
	}
	if a.API == nil {
		a.API = apiclient.New(cfg.APIURL,
			apiclient.WithTimeout(cfg.APITimeout),
			apiclient.WithLogger(a.logger),
		)
	}
	return a
}

// SetSite updates the site name and description shown on pages. It is safe
// to call while serving.
func (a *App) SetSite(name, description string) {
	a.site.Store(&views.Site{
		Name:        name,
		URL:         a.Config.URL,
		Description: description,
		Author:      a.Config.Author,
	})
}

// Site returns the current site identity.
func (a *App) Site() views.Site {
	return *a.site.Load()
}

// Setup opens the store and registers middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("siteweb: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("siteweb: init store: %w", err)
	}
	a.Store = store

	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.contactLimiter = NewRateLimiter(3, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded site assets (site.css, site.js) are served under /public/ and
	// fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/site.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.POST("/theme/", handleTheme)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlogList)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/life/", a.handleLife)
	e.GET("/life/:id/", a.handlePhoto)
	e.GET("/projects/", a.handleProjects)
	e.GET("/tools/", a.handleTools)
	e.GET("/tools/json-formatter/", a.handleJSONFormatter)
	e.POST("/tools/json-formatter/", a.handleJSONFormatter)
	e.GET("/tools/responsive/", a.handleResponsive)
	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)

	a.registerBlogAdmin(e.Group(blogPanel.Base))
	a.registerLifeAdmin(e.Group(lifePanel.Base))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
