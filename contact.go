package siteweb

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/views"
)

const (
	maxNameLen    = 100
	maxEmailLen   = 254
	maxSubjectLen = 200
	maxMessageLen = 5000
)

func contactMeta(site string) views.PageMeta {
	return views.PageMeta{Title: "Contact", URL: BuildURL(site, "contact")}
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, views.Contact(a.chrome(c, "contact", contactMeta(a.Config.URL)), views.ContactData{}))
}

// validateContact returns field errors keyed by form field name.
func validateContact(d views.ContactData) map[string]string {
	errs := map[string]string{}
	check := func(field, value, label string, max int) {
		switch n := utf8.RuneCountInString(value); {
		case n == 0:
			errs[field] = label + " is required"
		case n > max:
			errs[field] = label + " is too long"
		}
	}
	check("name", d.Name, "Name", maxNameLen)
	check("email", d.Email, "Email", maxEmailLen)
	check("subject", d.Subject, "Subject", maxSubjectLen)
	check("message", d.Message, "Message", maxMessageLen)

	if _, ok := errs["email"]; !ok {
		addr, err := mail.ParseAddress(d.Email)
		if err != nil || addr.Address != d.Email {
			errs["email"] = "Please enter a valid email address"
		}
	}
	return errs
}

func (a *App) handleContactSubmit(c echo.Context) error {
	data := views.ContactData{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Subject: strings.TrimSpace(c.FormValue("subject")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}
	meta := contactMeta(a.Config.URL)

	if errs := validateContact(data); len(errs) > 0 {
		data.Errors = errs
		return RenderStatus(c, http.StatusUnprocessableEntity, views.Contact(a.chrome(c, "contact", meta), data))
	}

	ip := c.RealIP()
	if !a.contactLimiter.Allow(ip) {
		ch := withFlashes(a.chrome(c, "contact", meta), views.Flash{Kind: "error", Text: "Too many messages. Please try again later."})
		return RenderStatus(c, http.StatusTooManyRequests, views.Contact(ch, data))
	}

	if _, err := a.Store.SaveMessage(c.Request().Context(), ContactMessage{
		Name:      data.Name,
		Email:     data.Email,
		Subject:   data.Subject,
		Message:   data.Message,
		RemoteIP:  ip,
		CreatedAt: a.now(),
	}); err != nil {
		return err
	}
	a.logger.Info("contact message stored", "ip", ip, "subject", data.Subject)

	if err := flashSuccess(c, "Thanks! Your message has been sent."); err != nil {
		return err
	}
	return redirectBack(c, "/contact/")
}
