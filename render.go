package siteweb

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, views.NotFound(a.chrome(c, "", views.PageMeta{Title: "Not found"})))
}

// redirectBack sends the browser to target with a 303 so a reload does not
// resubmit the form.
func redirectBack(c echo.Context, target string) error {
	return c.Redirect(http.StatusSeeOther, target)
}
