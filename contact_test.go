package siteweb

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/siyuanink/siteweb/views"
)

func validContactForm() url.Values {
	return url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"subject": {"Hello"},
		"message": {"Nice site."},
	}
}

func TestValidateContact(t *testing.T) {
	ok := views.ContactData{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}
	if errs := validateContact(ok); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	tests := []struct {
		name  string
		edit  func(*views.ContactData)
		field string
		want  string
	}{
		{"missing name", func(d *views.ContactData) { d.Name = "" }, "name", "Name is required"},
		{"long subject", func(d *views.ContactData) { d.Subject = strings.Repeat("s", maxSubjectLen+1) }, "subject", "Subject is too long"},
		{"bad email", func(d *views.ContactData) { d.Email = "not-an-email" }, "email", "Please enter a valid email address"},
		{"display name email", func(d *views.ContactData) { d.Email = "Ada <ada@example.com>" }, "email", "Please enter a valid email address"},
		{"long message", func(d *views.ContactData) { d.Message = strings.Repeat("é", maxMessageLen+1) }, "message", "Message is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ok
			tt.edit(&d)
			errs := validateContact(d)
			if errs[tt.field] != tt.want {
				t.Errorf("errs[%q] = %q, want %q", tt.field, errs[tt.field], tt.want)
			}
		})
	}

	// Multi-byte runes count once.
	d := ok
	d.Message = strings.Repeat("é", maxMessageLen)
	if errs := validateContact(d); len(errs) != 0 {
		t.Errorf("expected message at the limit to pass, got %v", errs)
	}
}

func TestContactSubmitStoresMessage(t *testing.T) {
	a := newTestApp(t, unreachableURL(t))
	b := newBrowser(t, a)

	rec := b.post("/contact/", validContactForm())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	assertContains(t, b.follow(rec).Body.String(), "Thanks! Your message has been sent.")

	msgs, err := a.Store.ListMessages(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	m := msgs[0]
	if m.Name != "Ada" || m.Email != "ada@example.com" || m.Message != "Nice site." {
		t.Errorf("unexpected message %+v", m)
	}
	if !m.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", m.CreatedAt, testNow)
	}
	if m.RemoteIP == "" {
		t.Error("expected the sender IP to be recorded")
	}
}

func TestContactSubmitValidationKeepsInput(t *testing.T) {
	a := newTestApp(t, unreachableURL(t))
	form := validContactForm()
	form.Set("email", "nope")
	form.Set("name", "  ")

	rec := newBrowser(t, a).post("/contact/", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Name is required", "Please enter a valid email address", `value="Hello"`, "Nice site.")

	if n, _ := a.Store.CountMessages(context.Background()); n != 0 {
		t.Errorf("expected nothing stored, got %d", n)
	}
}

func TestContactSubmitRateLimited(t *testing.T) {
	a := newTestApp(t, unreachableURL(t))
	b := newBrowser(t, a)

	for i := 0; i < 3; i++ {
		if rec := b.post("/contact/", validContactForm()); rec.Code != http.StatusSeeOther {
			t.Fatalf("message %d: expected 303, got %d", i+1, rec.Code)
		}
	}
	rec := b.post("/contact/", validContactForm())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Too many messages. Please try again later.", `value="Ada"`)

	if n, _ := a.Store.CountMessages(context.Background()); n != 3 {
		t.Errorf("expected 3 stored messages, got %d", n)
	}
}
