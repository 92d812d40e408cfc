package siteweb

import (
	"encoding/gob"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/views"
)

const (
	sessionName = "site_session"
	themeCookie = "theme"

	themeLight = "light"
	themeDark  = "dark"
)

func init() {
	gob.Register(views.Flash{})
}

// adminKey returns the API key stored under sessKey, or "".
func adminKey(c echo.Context, sessKey string) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	key, _ := sess.Values[sessKey].(string)
	return key
}

func setAdminKey(c echo.Context, sessKey, key string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessKey] = key
	return sess.Save(c.Request(), c.Response())
}

func clearAdminKey(c echo.Context, sessKey string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessKey)
	return sess.Save(c.Request(), c.Response())
}

func addFlash(c echo.Context, kind, text string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(views.Flash{Kind: kind, Text: text})
	return sess.Save(c.Request(), c.Response())
}

func flashSuccess(c echo.Context, text string) error { return addFlash(c, "success", text) }

func flashError(c echo.Context, text string) error { return addFlash(c, "error", text) }

// takeFlashes pops the pending flashes of the session.
func takeFlashes(c echo.Context) []views.Flash {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]views.Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(views.Flash); ok {
			out = append(out, fl)
		}
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("save session: %v", err)
	}
	return out
}

func themeOf(c echo.Context) string {
	if ck, err := c.Cookie(themeCookie); err == nil && ck.Value == themeDark {
		return themeDark
	}
	return themeLight
}

func handleTheme(c echo.Context) error {
	next := themeDark
	if themeOf(c) == themeDark {
		next = themeLight
	}
	c.SetCookie(&http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, backPath(c.Request().Referer()))
}

// backPath keeps only the path and query of a referer so redirects stay
// on this site.
func backPath(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	if len(u.Path) > 1 && u.Path[1] == '/' {
		return "/"
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}

// chrome builds the page shell for the current request.
func (a *App) chrome(c echo.Context, section string, meta views.PageMeta) views.Chrome {
	return views.Chrome{
		Site:       a.Site(),
		Meta:       meta,
		Path:       section,
		Theme:      themeOf(c),
		CSRF:       CsrfToken(c),
		Flashes:    takeFlashes(c),
		MessageTTL: int(MessageTTL / time.Millisecond),
		Year:       a.now().Year(),
	}
}
