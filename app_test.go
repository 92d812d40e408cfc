package siteweb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/siyuanink/siteweb/apiclient"
)

const (
	testAPIKey    = "good-key"
	testCSRFToken = "test-csrf-token"
)

var testNow = time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC)

var testPosts = map[string]string{
	"hello-go.md": `---
title: Hello Go
date: 2024-03-01
description: First steps
tags: [go, web]
---
# Hello

Some **Go** text.
`,
	"old-notes.md": `---
title: Old Notes
date: 2023-05-10
tags: [notes]
---
Old notes body.
`,
	"tokyo.md": `---
title: Tokyo Trip
date: 2024-07-01
tags: [travel, Go]
---
Trip report.
`,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp builds a ready App whose API points at apiURL.
func newTestApp(t *testing.T, apiURL string) *App {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "blog")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range testPosts {
		if err := os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	logger := quietLogger()
	a := New(SiteConfig{
		Name:          "Test Site",
		URL:           "https://example.com",
		Description:   "A test site",
		Author:        "Tester",
		DatabasePath:  filepath.Join(dir, "data", "site.db"),
		ContentDir:    contentDir,
		StaticDir:     filepath.Join(dir, "public"),
		APIURL:        apiURL,
		SessionSecret: "test-secret",
	},
		WithLogger(logger),
		WithClock(func() time.Time { return testNow }),
		WithAPIClient(apiclient.New(apiURL, apiclient.WithLogger(logger), apiclient.WithTimeout(2*time.Second))),
	)
	if err := a.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// unreachableURL returns the address of a server that has already shut down.
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

// browser drives the app like a browser: it keeps cookies between requests
// and submits the CSRF token with every form.
type browser struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, a *App) *browser {
	return &browser{
		t:   t,
		app: a,
		cookies: map[string]*http.Cookie{
			"_csrf": {Name: "_csrf", Value: testCSRFToken},
		},
	}
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	b.app.Echo.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

// upload posts files as multipart field.
func (b *browser) upload(target, field string, files map[string][]byte, order ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("_csrf", testCSRFToken)
	for _, name := range order {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			b.t.Fatal(err)
		}
		part.Write(files[name])
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.send(req)
}

// follow fetches the Location of a redirect.
func (b *browser) follow(rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.t.Helper()
	if rec.Code != http.StatusSeeOther && rec.Code != http.StatusFound && rec.Code != http.StatusMovedPermanently {
		b.t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	return b.get(rec.Header().Get("Location"))
}

// fakeAPI is an in-memory stand-in for the backend REST API.
type fakeAPI struct {
	mu          sync.Mutex
	articles    []apiclient.Article
	images      map[string][]apiclient.ArticleImage
	photos      map[int64]*apiclient.Photo
	nextID      int64
	uploads     []string
	failUploads map[string]bool
	github      *apiclient.GitHubData
	listCalls   int
	revoked     bool
	failDetail  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		articles: []apiclient.Article{
			{Slug: "from-api", Title: "From The API", Date: "2024-08-01", Tags: []string{"api"}, Content: "Body"},
		},
		images: map[string][]apiclient.ArticleImage{},
		photos: map[int64]*apiclient.Photo{
			1: {ID: 1, Title: "Kyoto", Date: "2024-04-02", Content: "A **good** trip.", Images: []apiclient.PhotoImage{
				{ID: 11, URL: "/uploads/a.jpg", Order: 0},
				{ID: 12, URL: "/uploads/b.jpg", Order: 1, IsCover: true},
				{ID: 13, URL: "/uploads/c.jpg", Order: 2},
			}},
		},
		nextID:      2,
		failUploads: map[string]bool{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.revoked || r.Header.Get("X-API-Key") != testAPIKey {
			detail(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		next(w, r)
	}
}

func (f *fakeAPI) article(slug string) int {
	for i, a := range f.articles {
		if a.Slug == slug {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) summaries() []apiclient.PhotoSummary {
	var out []apiclient.PhotoSummary
	for id := int64(1); id < f.nextID; id++ {
		p, ok := f.photos[id]
		if !ok {
			continue
		}
		s := apiclient.PhotoSummary{ID: p.ID, Title: p.Title, Description: p.Description, Date: p.Date}
		for _, img := range p.Images {
			if img.IsCover {
				s.CoverImage = img.URL
			}
		}
		out = append(out, s)
	}
	return out
}

func pathID(r *http.Request, name string) int64 {
	var id int64
	fmt.Sscan(r.PathValue(name), &id)
	return id
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/blog/latest", f.public(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.articles)
	}))
	mux.HandleFunc("GET /api/blog/articles", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.listCalls++
		writeJSON(w, http.StatusOK, f.articles)
	}))
	mux.HandleFunc("GET /api/blog/articles/{slug}", f.public(func(w http.ResponseWriter, r *http.Request) {
		if f.failDetail {
			detail(w, http.StatusInternalServerError, "db hiccup")
			return
		}
		i := f.article(r.PathValue("slug"))
		if i < 0 {
			detail(w, http.StatusNotFound, "Article not found")
			return
		}
		writeJSON(w, http.StatusOK, f.articles[i])
	}))
	mux.HandleFunc("POST /api/blog/articles", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.ArticleInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			detail(w, http.StatusBadRequest, "bad body")
			return
		}
		if f.article(in.Slug) >= 0 {
			detail(w, http.StatusBadRequest, "Slug already exists")
			return
		}
		ar := apiclient.Article{Slug: in.Slug, Title: in.Title, Description: in.Description, Tags: in.Tags, Content: in.Content, Date: "2024-08-15"}
		if in.Cover != nil {
			ar.Cover = *in.Cover
		}
		f.articles = append(f.articles, ar)
		writeJSON(w, http.StatusCreated, ar)
	}))
	mux.HandleFunc("PUT /api/blog/articles/{slug}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		i := f.article(r.PathValue("slug"))
		if i < 0 {
			detail(w, http.StatusNotFound, "Article not found")
			return
		}
		var in apiclient.ArticleInput
		json.NewDecoder(r.Body).Decode(&in)
		f.articles[i].Title = in.Title
		f.articles[i].Tags = in.Tags
		f.articles[i].Content = in.Content
		writeJSON(w, http.StatusOK, f.articles[i])
	}))
	mux.HandleFunc("DELETE /api/blog/articles/{slug}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		i := f.article(r.PathValue("slug"))
		if i < 0 {
			detail(w, http.StatusNotFound, "Article not found")
			return
		}
		f.articles = append(f.articles[:i], f.articles[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/blog/articles/{slug}/images", f.public(func(w http.ResponseWriter, r *http.Request) {
		imgs := f.images[r.PathValue("slug")]
		if imgs == nil {
			imgs = []apiclient.ArticleImage{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"images": imgs})
	}))
	mux.HandleFunc("POST /api/blog/articles/{slug}/images", f.authed(func(w http.ResponseWriter, r *http.Request) {
		_, fh, err := r.FormFile("file")
		if err != nil {
			detail(w, http.StatusBadRequest, "file missing")
			return
		}
		slug := r.PathValue("slug")
		img := apiclient.ArticleImage{Filename: fh.Filename, URL: "/uploads/" + slug + "/" + fh.Filename}
		f.images[slug] = append(f.images[slug], img)
		f.uploads = append(f.uploads, fh.Filename)
		writeJSON(w, http.StatusOK, apiclient.UploadedImage{
			Success: true, Filename: img.Filename, URL: img.URL,
			Markdown: fmt.Sprintf("![%s](%s)", img.Filename, img.URL),
		})
	}))
	mux.HandleFunc("DELETE /api/blog/articles/{slug}/images/{filename}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		slug, name := r.PathValue("slug"), r.PathValue("filename")
		kept := f.images[slug][:0]
		for _, img := range f.images[slug] {
			if img.Filename != name {
				kept = append(kept, img)
			}
		}
		f.images[slug] = kept
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("GET /api/life/photos", f.public(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.summaries())
	}))
	mux.HandleFunc("GET /api/life/photos/{id}", f.public(func(w http.ResponseWriter, r *http.Request) {
		if f.failDetail {
			detail(w, http.StatusInternalServerError, "db hiccup")
			return
		}
		p, ok := f.photos[pathID(r, "id")]
		if !ok {
			detail(w, http.StatusNotFound, "Photo not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("GET /api/life/admin/photos", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.listCalls++
		writeJSON(w, http.StatusOK, f.summaries())
	}))
	mux.HandleFunc("POST /api/life/admin/photos", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.PhotoInput
		json.NewDecoder(r.Body).Decode(&in)
		p := &apiclient.Photo{ID: f.nextID, Title: in.Title, Date: in.Date, Images: []apiclient.PhotoImage{}}
		if in.Description != nil {
			p.Description = *in.Description
		}
		f.photos[p.ID] = p
		f.nextID++
		writeJSON(w, http.StatusCreated, p)
	}))
	mux.HandleFunc("PUT /api/life/admin/photos/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		p, ok := f.photos[pathID(r, "id")]
		if !ok {
			detail(w, http.StatusNotFound, "Photo not found")
			return
		}
		var in apiclient.PhotoInput
		json.NewDecoder(r.Body).Decode(&in)
		p.Title, p.Date = in.Title, in.Date
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("DELETE /api/life/admin/photos/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		delete(f.photos, pathID(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("DELETE /api/life/admin/photos/{id}/images/{image}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		p, ok := f.photos[pathID(r, "id")]
		if !ok {
			detail(w, http.StatusNotFound, "Photo not found")
			return
		}
		imageID := pathID(r, "image")
		kept := p.Images[:0]
		for _, img := range p.Images {
			if img.ID != imageID {
				kept = append(kept, img)
			}
		}
		p.Images = kept
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /api/life/admin/photos/{id}/images", f.authed(func(w http.ResponseWriter, r *http.Request) {
		_, fh, err := r.FormFile("file")
		if err != nil {
			detail(w, http.StatusBadRequest, "file missing")
			return
		}
		f.uploads = append(f.uploads, fh.Filename)
		if f.failUploads[fh.Filename] {
			detail(w, http.StatusInternalServerError, "disk full")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))
	mux.HandleFunc("PUT /api/life/admin/photos/{id}/images/{image}/cover", f.authed(func(w http.ResponseWriter, r *http.Request) {
		imageID := pathID(r, "image")
		p, ok := f.photos[pathID(r, "id")]
		if !ok {
			detail(w, http.StatusNotFound, "Photo not found")
			return
		}
		for i := range p.Images {
			p.Images[i].IsCover = p.Images[i].ID == imageID
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))

	mux.HandleFunc("GET /api/github/data", f.public(func(w http.ResponseWriter, r *http.Request) {
		if f.github == nil {
			detail(w, http.StatusServiceUnavailable, "Sync not completed")
			return
		}
		writeJSON(w, http.StatusOK, f.github)
	}))
	return mux
}

// startFakeAPI serves f and returns an app wired to it.
func startFakeAPI(t *testing.T, f *fakeAPI) *App {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return newTestApp(t, srv.URL)
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(body, u) {
			t.Errorf("body unexpectedly contains %q", u)
		}
	}
}
