package siteweb

import (
	"log/slog"
	"time"

	"github.com/siyuanink/siteweb/apiclient"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Siyuan")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	Addr         string `mapstructure:"addr"`          // Listen address (default ":3000")
	DatabasePath string `mapstructure:"database_path"` // SQLite path (default "data/site.db")
	ContentDir   string `mapstructure:"content_dir"`   // Markdown posts (default "content/blog")
	StaticDir    string `mapstructure:"static_dir"`    // User static assets (default "public")

	APIURL     string        `mapstructure:"api_url"`     // Backend API root (default "http://localhost:8000")
	APITimeout time.Duration `mapstructure:"api_timeout"` // Per-call timeout (default 10s)

	SessionSecret string `mapstructure:"session_secret"` // Required: session signing secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	DefaultPreviewURL string `mapstructure:"default_preview_url"` // Initial URL of the responsive preview
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Siyuan"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.APIURL == "" {
		c.APIURL = "http://localhost:8000"
	}
	if c.APITimeout == 0 {
		c.APITimeout = apiclient.DefaultTimeout
	}
	if c.DefaultPreviewURL == "" {
		c.DefaultPreviewURL = "https://siyuan.ink"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithAPIClient replaces the client built from APIURL.
func WithAPIClient(c *apiclient.Client) Option {
	return func(a *App) {
		a.API = c
	}
}

// WithLogger sets the structured logger handed to the API client.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithClock overrides time.Now, used for default dates.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
