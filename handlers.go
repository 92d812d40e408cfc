package siteweb

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/apiclient"
	"github.com/siyuanink/siteweb/canvas"
	"github.com/siyuanink/siteweb/content"
	"github.com/siyuanink/siteweb/gallery"
	"github.com/siyuanink/siteweb/jsonfmt"
	"github.com/siyuanink/siteweb/markdown"
	"github.com/siyuanink/siteweb/views"
)

const (
	homeLatestCount = 3
	relatedCount    = 3
)

func (a *App) handleHome(c echo.Context) error {
	latest, offline := a.latestPosts(c)
	return Render(c, views.Home(
		a.chrome(c, "home", views.PageMeta{URL: BuildURL(a.Config.URL)}),
		views.HomeData{Latest: latest, Offline: offline},
	))
}

// latestPosts asks the API for the newest posts and falls back to the local
// content directory when the API fails.
func (a *App) latestPosts(c echo.Context) ([]content.PostMeta, bool) {
	articles, err := a.API.LatestArticles(c.Request().Context(), homeLatestCount)
	if err == nil {
		out := make([]content.PostMeta, 0, len(articles))
		for _, ar := range articles {
			out = append(out, articleMeta(ar))
		}
		return out, false
	}
	c.Logger().Warnf("latest posts from api: %v", err)

	posts, lerr := a.Posts.Posts()
	if lerr != nil {
		c.Logger().Errorf("latest posts from disk: %v", lerr)
		return nil, true
	}
	if len(posts) > homeLatestCount {
		posts = posts[:homeLatestCount]
	}
	return posts, errors.Is(err, apiclient.ErrUnreachable)
}

func articleMeta(ar apiclient.Article) content.PostMeta {
	tags := ar.Tags
	if tags == nil {
		tags = []string{}
	}
	return content.PostMeta{
		Slug:        ar.Slug,
		Title:       ar.Title,
		Date:        ar.Date,
		Description: ar.Description,
		Tags:        tags,
		Cover:       ar.Cover,
	}
}

func (a *App) handleBlogList(c echo.Context) error {
	posts, err := a.Posts.Posts()
	if err != nil {
		return err
	}
	collapsed := content.ParseCollapsed(c.QueryParam("collapsed"))
	list := content.BuildList(posts, c.QueryParam("tag"), collapsed)

	data := views.BlogListData{
		Tag:    list.Tag,
		AllURL: blogListURL("", ""),
		Total:  list.Total,
	}
	for _, t := range list.Tags {
		data.Tags = append(data.Tags, views.TagLink{
			Name:   t,
			URL:    blogListURL(t, ""),
			Active: strings.EqualFold(t, list.Tag),
		})
	}
	for _, g := range list.Groups {
		data.Sections = append(data.Sections, views.YearSection{
			Year:      g.Year,
			Posts:     g.Posts,
			Collapsed: g.Collapsed,
			ToggleURL: blogListURL(list.Tag, content.ToggleCollapsed(collapsed, g.Year)),
		})
	}

	meta := views.PageMeta{Title: "Blog", URL: BuildURL(a.Config.URL, "blog")}
	return Render(c, views.BlogList(a.chrome(c, "blog", meta), data))
}

// blogListURL links to the blog list. Tag links carry no collapse state so
// switching tags expands every year.
func blogListURL(tag, collapsed string) string {
	q := url.Values{}
	if tag != "" {
		q.Set("tag", tag)
	}
	if collapsed != "" {
		q.Set("collapsed", collapsed)
	}
	if len(q) == 0 {
		return "/blog/"
	}
	return "/blog/?" + q.Encode()
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Posts.PostBySlug(slug)
	if err != nil {
		return err
	}
	if post == nil {
		return a.renderNotFound(c)
	}
	posts, err := a.Posts.Posts()
	if err != nil {
		return err
	}
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return Render(c, views.Post(a.chrome(c, "blog", meta), views.PostData{
		Post:    *post,
		Related: views.FilterRelatedPosts(post.PostMeta, posts, relatedCount),
	}))
}

// assetURL resolves image paths served by the API.
func (a *App) assetURL(u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return a.API.BaseURL() + u
	}
	return u
}

func (a *App) handleLife(c echo.Context) error {
	meta := views.PageMeta{Title: "Life", URL: BuildURL(a.Config.URL, "life")}
	photos, err := a.API.ListPhotos(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("list photos: %v", err)
		return Render(c, views.Life(a.chrome(c, "life", meta), views.LifeData{
			Error: apiclient.Message(err, "Failed to load photos"),
		}))
	}
	for i := range photos {
		photos[i].CoverImage = a.assetURL(photos[i].CoverImage)
	}
	return Render(c, views.Life(a.chrome(c, "life", meta), views.LifeData{Photos: photos}))
}

func (a *App) handlePhoto(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return a.renderNotFound(c)
	}
	photo, err := a.API.GetPhoto(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return a.renderNotFound(c)
		}
		c.Logger().Warnf("get photo %d: %v", id, err)
		meta := views.PageMeta{Title: "Life"}
		return RenderStatus(c, http.StatusBadGateway, views.Life(a.chrome(c, "life", meta), views.LifeData{
			Error: apiclient.Message(err, "Failed to load photo"),
		}))
	}
	for i := range photo.Images {
		photo.Images[i].URL = a.assetURL(photo.Images[i].URL)
	}

	index := -1
	if raw := c.QueryParam("image"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			index = n
		}
	}

	var body string
	if strings.TrimSpace(photo.Content) != "" {
		if body, err = markdown.ToHTML([]byte(photo.Content)); err != nil {
			return err
		}
	}

	meta := views.PageMeta{
		Title:       photo.Title,
		Description: photo.Description,
		URL:         BuildURL(a.Config.URL, "life", strconv.FormatInt(id, 10)),
		OGType:      "article",
	}
	return Render(c, views.Photo(a.chrome(c, "life", meta), views.PhotoData{
		Photo:       *photo,
		ContentHTML: body,
		Lightbox:    gallery.NewLightbox(photo.Images, index),
	}))
}

func (a *App) handleProjects(c echo.Context) error {
	meta := views.PageMeta{Title: "Projects", URL: BuildURL(a.Config.URL, "projects")}
	var data views.ProjectsData
	gh, err := a.API.GitHubData(c.Request().Context())
	switch {
	case err == nil:
		dash := gallery.BuildDashboard(*gh)
		data.Dashboard = &dash
	case apiclient.IsSyncPending(err):
		data.Syncing = true
	default:
		c.Logger().Warnf("github data: %v", err)
		data.Error = "Failed to load data: " + apiclient.Message(err, "unknown error")
	}
	return Render(c, views.Projects(a.chrome(c, "projects", meta), data))
}

var toolList = []views.Tool{
	{Name: "JSON Formatter", Description: "Format, minify and validate JSON.", URL: "/tools/json-formatter/"},
	{Name: "Responsive Preview", Description: "Preview a page on desktop, laptop, tablet and mobile at once.", URL: "/tools/responsive/"},
}

func (a *App) handleTools(c echo.Context) error {
	meta := views.PageMeta{Title: "Tools", URL: BuildURL(a.Config.URL, "tools")}
	return Render(c, views.Tools(a.chrome(c, "tools", meta), views.ToolsData{Tools: toolList}))
}

func (a *App) handleJSONFormatter(c echo.Context) error {
	meta := views.PageMeta{Title: "JSON Formatter", URL: BuildURL(a.Config.URL, "tools", "json-formatter")}
	data := views.JSONFormatterData{Indent: jsonfmt.DefaultIndent}
	if c.Request().Method == http.MethodPost {
		data.Input = c.FormValue("input")
		n, _ := strconv.Atoi(c.FormValue("indent"))
		data.Indent = jsonfmt.Indent(n)

		var err error
		switch c.FormValue("action") {
		case "minify":
			data.Output, err = jsonfmt.Minify(data.Input)
		case "validate":
			if err = jsonfmt.Validate(data.Input); err == nil {
				data.Message = "Valid JSON"
			}
		default:
			data.Output, err = jsonfmt.Format(data.Input, data.Indent)
		}
		if err != nil {
			data.Error = err.Error()
		}
	}
	return Render(c, views.JSONFormatter(a.chrome(c, "tools", meta), data))
}

func (a *App) handleResponsive(c echo.Context) error {
	meta := views.PageMeta{Title: "Responsive Preview", URL: BuildURL(a.Config.URL, "tools", "responsive")}
	q := c.QueryParams()

	input := a.Config.DefaultPreviewURL
	if q.Has("url") {
		input = q.Get("url")
	}
	target := canvas.NormalizeURL(input)
	if target != "" && markdown.SafeURL(target) == "" {
		target = ""
	}

	data := views.ResponsiveData{URL: target, Input: input}
	cv := canvas.New()
	if layout, err := canvas.ParseLayout(q); err != nil {
		data.Error = err.Error()
	} else if err := cv.Apply(layout); err != nil {
		data.Error = err.Error()
	}
	data.Devices = views.DevicesOf(cv)

	share := canvas.LayoutOf(cv).Encode()
	share.Set("url", target)
	data.ShareURL = "/tools/responsive/?" + share.Encode()
	data.ResetURL = "/tools/responsive/?" + url.Values{"url": {target}}.Encode()

	return Render(c, views.Responsive(a.chrome(c, "tools", meta), data))
}

func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.StaticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	body := "User-agent: *\nDisallow: /admin/\n\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Posts.Posts()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Posts.Posts()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.chrome(c, "", views.PageMeta{Title: "Error"})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
