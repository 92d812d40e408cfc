package siteweb

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/apiclient"
	"github.com/siyuanink/siteweb/views"
)

const apiContextKey = "admin_api"

// adminPanel is one key-gated admin screen. verify makes the protected list
// call used to check a key.
type adminPanel struct {
	views.AdminPanel
	sessKey string
	verify  func(ctx context.Context, api *apiclient.Client) error
}

var blogPanel = adminPanel{
	AdminPanel: views.AdminPanel{Name: "blog", Title: "Blog admin", Base: "/admin/blog/"},
	sessKey:    "blog_admin_api_key",
	verify: func(ctx context.Context, api *apiclient.Client) error {
		_, err := api.ListArticles(ctx)
		return err
	},
}

var lifePanel = adminPanel{
	AdminPanel: views.AdminPanel{Name: "life", Title: "Life admin", Base: "/admin/life/"},
	sessKey:    "life_admin_api_key",
	verify: func(ctx context.Context, api *apiclient.Client) error {
		_, err := api.AdminListPhotos(ctx)
		return err
	},
}

func (p adminPanel) meta() views.PageMeta {
	return views.PageMeta{Title: p.Title}
}

func (a *App) renderLogin(c echo.Context, p adminPanel, msg string) error {
	return a.renderLoginStatus(c, http.StatusOK, p, msg)
}

func (a *App) renderLoginStatus(c echo.Context, code int, p adminPanel, msg string) error {
	return RenderStatus(c, code, views.AdminLogin(a.chrome(c, "admin", p.meta()), views.AdminLoginData{
		Panel: p.AdminPanel,
		Error: msg,
	}))
}

// gateFailure handles a failed key check on page load. A rejected key is
// dropped from the session; a network failure keeps it.
func (a *App) gateFailure(c echo.Context, p adminPanel, err error) error {
	if errors.Is(err, apiclient.ErrUnreachable) {
		c.Logger().Warnf("%s admin: %v", p.Name, err)
		return a.renderLogin(c, p, "Cannot reach server")
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		c.Logger().Infof("%s admin: stored key rejected: %v", p.Name, err)
		if cerr := clearAdminKey(c, p.sessKey); cerr != nil {
			return cerr
		}
		return a.renderLogin(c, p, "Invalid API key")
	}
	return err
}

func (a *App) handleAdminLogin(p adminPanel) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if !a.loginLimiter.Check(ip) {
			return a.renderLoginStatus(c, http.StatusTooManyRequests, p, "Too many login attempts. Try again later.")
		}
		key := strings.TrimSpace(c.FormValue("api_key"))
		if key == "" {
			return a.renderLogin(c, p, "Please enter an API key")
		}

		err := p.verify(c.Request().Context(), a.API.WithAPIKey(key))
		switch {
		case err == nil:
		case errors.Is(err, apiclient.ErrUnreachable):
			c.Logger().Warnf("%s admin login: %v", p.Name, err)
			return a.renderLogin(c, p, "Cannot reach server")
		default:
			a.loginLimiter.Record(ip)
			c.Logger().Infof("%s admin login rejected from %s: %v", p.Name, ip, err)
			return a.renderLogin(c, p, "Invalid API key")
		}

		if err := setAdminKey(c, p.sessKey, key); err != nil {
			return err
		}
		if err := flashSuccess(c, "Logged in"); err != nil {
			return err
		}
		return redirectBack(c, p.Base)
	}
}

func handleAdminLogout(p adminPanel) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := clearAdminKey(c, p.sessKey); err != nil {
			return err
		}
		return redirectBack(c, p.Base)
	}
}

// requireKey guards mutating admin routes and hands the keyed client to the
// handler through the context.
func (a *App) requireKey(p adminPanel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := adminKey(c, p.sessKey)
			if key == "" {
				if err := flashError(c, "Please log in"); err != nil {
					return err
				}
				return redirectBack(c, p.Base)
			}
			c.Set(apiContextKey, a.API.WithAPIKey(key))
			return next(c)
		}
	}
}

func keyedAPI(c echo.Context) *apiclient.Client {
	api, _ := c.Get(apiContextKey).(*apiclient.Client)
	return api
}

// adminError turns a failed mutation into a flash message. A rejected key is
// dropped and the login form shown again; anything else goes back to back.
func (a *App) adminError(c echo.Context, p adminPanel, err error, fallback, back string) error {
	if apiclient.IsUnauthorized(err) {
		c.Logger().Infof("%s admin: key rejected: %v", p.Name, err)
		if cerr := clearAdminKey(c, p.sessKey); cerr != nil {
			return cerr
		}
		if ferr := flashError(c, "Invalid API key"); ferr != nil {
			return ferr
		}
		return redirectBack(c, p.Base)
	}
	c.Logger().Warnf("%s admin: %v", p.Name, err)
	if ferr := flashError(c, apiclient.Message(err, fallback)); ferr != nil {
		return ferr
	}
	return redirectBack(c, back)
}

// confirmed reports whether a delete POST carries the confirmation. GET
// requests and unconfirmed posts get the confirmation page instead.
func (a *App) confirmed(c echo.Context, p adminPanel, title, message, back string) (bool, error) {
	if c.Request().Method == http.MethodPost && c.FormValue("confirm") == "yes" {
		return true, nil
	}
	return false, Render(c, views.Confirm(a.chrome(c, "admin", p.meta()), views.ConfirmData{
		Panel:   p.AdminPanel,
		Title:   title,
		Message: message,
		Action:  c.Request().URL.Path,
		Back:    back,
	}))
}

func withFlashes(ch views.Chrome, flashes ...views.Flash) views.Chrome {
	ch.Flashes = append(ch.Flashes, flashes...)
	return ch
}
