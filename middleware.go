package siteweb

import (
	"crypto/sha256"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// maxRequestBody bounds any request body, multi-file photo uploads included.
const maxRequestBody = "64M"

// pathKind groups request paths that the middleware treats alike.
type pathKind int

const (
	pathPage pathKind = iota
	pathAdmin
	pathAsset
	pathFeed
	pathProbe
)

func kindOf(path string) pathKind {
	switch {
	case path == "/public" || strings.HasPrefix(path, "/public/"):
		return pathAsset
	case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
		return pathFeed
	case path == "/healthz":
		return pathProbe
	case strings.HasPrefix(path, "/admin/"):
		return pathAdmin
	}
	return pathPage
}

var cacheControl = map[pathKind]string{
	pathPage:  "private, no-cache", // flashes, theme and CSRF tokens are per user
	pathAdmin: "no-store",
	pathAsset: "public, max-age=31536000, immutable",
	pathFeed:  "public, max-age=86400",
	pathProbe: "no-store",
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestID())
	e.Use(a.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxRequestBody))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return kindOf(c.Request().URL.Path) == pathAsset
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: a.contentSecurityPolicy(),
		HSTSMaxAge:            31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(middleware.CSRFWithConfig(a.csrfConfig()))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			if c.Request().Method != http.MethodGet {
				return true
			}
			k := kindOf(c.Request().URL.Path)
			return k != pathPage && k != pathAdmin
		},
	}))

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", cacheControl[kindOf(c.Request().URL.Path)])
			return next(c)
		}
	})
}

// requestLogger writes one structured line per request. Errors are handed
// to the error handler first so the logged status is the one sent.
func (a *App) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"ip", v.RemoteIP,
				"id", v.RequestID,
			}
			if v.Error != nil {
				a.logger.Error("request failed", append(attrs, "err", v.Error)...)
				return nil
			}
			a.logger.Info("request", attrs...)
			return nil
		},
	})
}

func (a *App) csrfConfig() middleware.CSRFConfig {
	return middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		CookieHTTPOnly: true,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}
}

// contentSecurityPolicy allows framing any page for the device preview and
// loading images from the API origin.
func (a *App) contentSecurityPolicy() string {
	img := "'self' https: data:"
	if u, err := url.Parse(a.Config.APIURL); err == nil && u.Scheme == "http" && u.Host != "" {
		img += " " + u.Scheme + "://" + u.Host
	}
	return "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
		"img-src " + img + "; font-src 'self'; connect-src 'self'; frame-src https: http:; " +
		"form-action 'self'"
}

// newSessionStore derives separate signing and encryption keys from the
// secret so stored API keys are not readable from the cookie.
func (a *App) newSessionStore() *sessions.CookieStore {
	hashKey := sha256.Sum256([]byte("auth:" + a.Config.SessionSecret))
	blockKey := sha256.Sum256([]byte("enc:" + a.Config.SessionSecret))
	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
