package siteweb

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/apiclient"
	"github.com/siyuanink/siteweb/views"
)

func (a *App) registerBlogAdmin(g *echo.Group) {
	p := blogPanel
	key := a.requireKey(p)

	g.GET("", a.handleBlogAdmin)
	g.POST("login/", a.handleAdminLogin(p))
	g.POST("logout/", handleAdminLogout(p))

	g.POST("articles/", a.handleArticleCreate, key)
	g.POST("articles/:slug/", a.handleArticleUpdate, key)
	g.GET("articles/:slug/delete/", a.handleArticleDelete, key)
	g.POST("articles/:slug/delete/", a.handleArticleDelete, key)
	g.POST("articles/:slug/images/", a.handleArticleImageUpload, key)
	g.GET("articles/:slug/images/:filename/delete/", a.handleArticleImageDelete, key)
	g.POST("articles/:slug/images/:filename/delete/", a.handleArticleImageDelete, key)
}

func blogEditURL(slug string) string {
	return blogPanel.Base + "?edit=" + url.QueryEscape(slug)
}

func (a *App) handleBlogAdmin(c echo.Context) error {
	key := adminKey(c, blogPanel.sessKey)
	if key == "" {
		return a.renderLogin(c, blogPanel, "")
	}
	api := a.API.WithAPIKey(key)
	data := views.AdminBlogData{Panel: blogPanel.AdminPanel}

	switch slug := c.QueryParam("edit"); {
	case slug != "":
		ar, err := api.GetArticle(c.Request().Context(), slug)
		if err != nil {
			if errors.Is(err, apiclient.ErrNotFound) {
				if ferr := flashError(c, "Article not found"); ferr != nil {
					return ferr
				}
				return redirectBack(c, blogPanel.Base)
			}
			if apiclient.IsUnauthorized(err) {
				return a.gateFailure(c, blogPanel, err)
			}
			c.Logger().Warnf("get article %s: %v", slug, err)
			return a.renderBlogAdmin(c, api, data, "", views.Flash{Kind: "error", Text: apiclient.Message(err, "Failed to load article")})
		}
		data.Editing = ar.Slug
		data.ShowForm = true
		data.Form = articleForm(*ar)
	case c.QueryParam("new") != "":
		data.ShowForm = true
	}
	return a.renderBlogAdmin(c, api, data, c.QueryParam("uploaded"))
}

// renderBlogAdmin loads the article list, which doubles as the key check,
// and the images of the article being edited.
func (a *App) renderBlogAdmin(c echo.Context, api *apiclient.Client, data views.AdminBlogData, uploaded string, flashes ...views.Flash) error {
	ctx := c.Request().Context()
	articles, err := api.ListArticles(ctx)
	if err != nil {
		return a.gateFailure(c, blogPanel, err)
	}
	data.Articles = articles

	if data.Editing != "" {
		images, err := api.ListArticleImages(ctx, data.Editing)
		if err != nil {
			c.Logger().Warnf("list images of %s: %v", data.Editing, err)
			flashes = append(flashes, views.Flash{Kind: "error", Text: apiclient.Message(err, "Failed to load images")})
		}
		for i := range images {
			images[i].URL = a.assetURL(images[i].URL)
			if images[i].Filename == uploaded {
				img := images[i]
				data.LastUpload = &apiclient.UploadedImage{
					Success:  true,
					Filename: img.Filename,
					URL:      img.URL,
					Markdown: fmt.Sprintf("![%s](%s)", img.Filename, img.URL),
				}
			}
		}
		data.Images = images
	}

	ch := withFlashes(a.chrome(c, "admin", blogPanel.meta()), flashes...)
	return Render(c, views.AdminBlog(ch, data))
}

func articleForm(ar apiclient.Article) views.ArticleForm {
	return views.ArticleForm{
		Slug:        ar.Slug,
		Title:       ar.Title,
		Description: ar.Description,
		Tags:        strings.Join(ar.Tags, ", "),
		Content:     ar.Content,
		Cover:       ar.Cover,
	}
}

func articleFormOf(c echo.Context) views.ArticleForm {
	return views.ArticleForm{
		Slug:        strings.TrimSpace(c.FormValue("slug")),
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Tags:        c.FormValue("tags"),
		Content:     c.FormValue("content"),
		Cover:       strings.TrimSpace(c.FormValue("cover")),
	}
}

func articleInput(f views.ArticleForm) apiclient.ArticleInput {
	return apiclient.ArticleInput{
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
		Tags:        SplitTags(f.Tags),
		Content:     f.Content,
		Cover:       apiclient.Nullable(f.Cover),
	}
}

// validateArticle checks what the API would reject before sending.
func validateArticle(f views.ArticleForm, creating bool) string {
	switch {
	case creating && f.Slug == "":
		return "Slug is required"
	case creating && Slugify(f.Slug) != f.Slug:
		return "Slug may only contain lowercase letters, digits and dashes"
	case f.Title == "":
		return "Title is required"
	}
	return ""
}

func (a *App) handleArticleCreate(c echo.Context) error {
	api := keyedAPI(c)
	form := articleFormOf(c)
	if msg := validateArticle(form, true); msg != "" {
		return a.renderBlogAdmin(c, api, views.AdminBlogData{
			Panel:    blogPanel.AdminPanel,
			ShowForm: true,
			Form:     form,
		}, "", views.Flash{Kind: "error", Text: msg})
	}
	if err := api.CreateArticle(c.Request().Context(), articleInput(form)); err != nil {
		return a.adminError(c, blogPanel, err, "Failed to create article", blogPanel.Base+"?new=1")
	}
	if err := flashSuccess(c, "Article created"); err != nil {
		return err
	}
	return redirectBack(c, blogEditURL(form.Slug))
}

func (a *App) handleArticleUpdate(c echo.Context) error {
	api := keyedAPI(c)
	slug := c.Param("slug")
	form := articleFormOf(c)
	form.Slug = slug
	if msg := validateArticle(form, false); msg != "" {
		return a.renderBlogAdmin(c, api, views.AdminBlogData{
			Panel:    blogPanel.AdminPanel,
			Editing:  slug,
			ShowForm: true,
			Form:     form,
		}, "", views.Flash{Kind: "error", Text: msg})
	}
	if err := api.UpdateArticle(c.Request().Context(), slug, articleInput(form)); err != nil {
		return a.adminError(c, blogPanel, err, "Failed to save article", blogEditURL(slug))
	}
	if err := flashSuccess(c, "Article saved"); err != nil {
		return err
	}
	return redirectBack(c, blogEditURL(slug))
}

func (a *App) handleArticleDelete(c echo.Context) error {
	slug := c.Param("slug")
	ok, err := a.confirmed(c, blogPanel, "Delete article",
		fmt.Sprintf("Delete the article %q and its images? This cannot be undone.", slug), blogEditURL(slug))
	if !ok {
		return err
	}
	if err := keyedAPI(c).DeleteArticle(c.Request().Context(), slug); err != nil {
		return a.adminError(c, blogPanel, err, "Failed to delete article", blogPanel.Base)
	}
	if err := flashSuccess(c, "Article deleted"); err != nil {
		return err
	}
	return redirectBack(c, blogPanel.Base)
}

func (a *App) handleArticleImageUpload(c echo.Context) error {
	slug := c.Param("slug")
	back := blogEditURL(slug)
	fh, err := c.FormFile("file")
	if err != nil {
		if ferr := flashError(c, "No file selected"); ferr != nil {
			return ferr
		}
		return redirectBack(c, back)
	}
	upload, err := prepareUpload(fh)
	if err != nil {
		c.Logger().Infof("reject upload for %s: %v", slug, err)
		if ferr := flashError(c, "Invalid image: "+err.Error()); ferr != nil {
			return ferr
		}
		return redirectBack(c, back)
	}
	img, err := keyedAPI(c).UploadArticleImage(c.Request().Context(), slug, upload)
	if err != nil {
		return a.adminError(c, blogPanel, err, "Upload failed", back)
	}
	if err := flashSuccess(c, "Image uploaded"); err != nil {
		return err
	}
	return redirectBack(c, back+"&uploaded="+url.QueryEscape(img.Filename))
}

func (a *App) handleArticleImageDelete(c echo.Context) error {
	slug, filename := c.Param("slug"), c.Param("filename")
	back := blogEditURL(slug)
	ok, err := a.confirmed(c, blogPanel, "Delete image",
		fmt.Sprintf("Delete %q from %q?", filename, slug), back)
	if !ok {
		return err
	}
	if err := keyedAPI(c).DeleteArticleImage(c.Request().Context(), slug, filename); err != nil {
		return a.adminError(c, blogPanel, err, "Failed to delete image", back)
	}
	if err := flashSuccess(c, "Image deleted"); err != nil {
		return err
	}
	return redirectBack(c, back)
}
