package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListArticles returns every article. The call requires a valid key and is
// used to validate it.
func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var articles []Article
	if err := c.getJSON(ctx, "/api/blog/articles", &articles); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// GetArticle returns one article including its Markdown content.
func (c *Client) GetArticle(ctx context.Context, slug string) (*Article, error) {
	var a Article
	if err := c.getJSON(ctx, "/api/blog/articles/"+url.PathEscape(slug), &a); err != nil {
		return nil, fmt.Errorf("get article %s: %w", slug, err)
	}
	return &a, nil
}

// CreateArticle creates an article. in.Slug must be set.
func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) error {
	if err := c.sendJSON(ctx, http.MethodPost, "/api/blog/articles", in, nil); err != nil {
		return fmt.Errorf("create article %s: %w", in.Slug, err)
	}
	c.logger.Info("article created", "slug", in.Slug)
	return nil
}

// UpdateArticle replaces the article at slug. The slug itself cannot change.
func (c *Client) UpdateArticle(ctx context.Context, slug string, in ArticleInput) error {
	in.Slug = ""
	if err := c.sendJSON(ctx, http.MethodPut, "/api/blog/articles/"+url.PathEscape(slug), in, nil); err != nil {
		return fmt.Errorf("update article %s: %w", slug, err)
	}
	c.logger.Info("article updated", "slug", slug)
	return nil
}

// DeleteArticle removes the article at slug.
func (c *Client) DeleteArticle(ctx context.Context, slug string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/blog/articles/"+url.PathEscape(slug), nil, "", nil); err != nil {
		return fmt.Errorf("delete article %s: %w", slug, err)
	}
	c.logger.Info("article deleted", "slug", slug)
	return nil
}

// ListArticleImages returns the images stored for an article.
func (c *Client) ListArticleImages(ctx context.Context, slug string) ([]ArticleImage, error) {
	var resp struct {
		Images []ArticleImage `json:"images"`
	}
	if err := c.getJSON(ctx, "/api/blog/articles/"+url.PathEscape(slug)+"/images", &resp); err != nil {
		return nil, fmt.Errorf("list images of %s: %w", slug, err)
	}
	return resp.Images, nil
}

// UploadArticleImage uploads one image for an article.
func (c *Client) UploadArticleImage(ctx context.Context, slug string, u Upload) (*UploadedImage, error) {
	body, contentType, err := u.multipart()
	if err != nil {
		return nil, err
	}
	var img UploadedImage
	if err := c.do(ctx, http.MethodPost, "/api/blog/articles/"+url.PathEscape(slug)+"/images", body, contentType, &img); err != nil {
		return nil, fmt.Errorf("upload %s to %s: %w", u.Name, slug, err)
	}
	c.logger.Info("article image uploaded", "slug", slug, "file", img.Filename)
	return &img, nil
}

// DeleteArticleImage removes one image of an article.
func (c *Client) DeleteArticleImage(ctx context.Context, slug, filename string) error {
	path := "/api/blog/articles/" + url.PathEscape(slug) + "/images/" + url.PathEscape(filename)
	if err := c.do(ctx, http.MethodDelete, path, nil, "", nil); err != nil {
		return fmt.Errorf("delete image %s of %s: %w", filename, slug, err)
	}
	return nil
}

// LatestArticles returns the newest limit articles. No key is needed.
func (c *Client) LatestArticles(ctx context.Context, limit int) ([]Article, error) {
	var articles []Article
	if err := c.getJSON(ctx, fmt.Sprintf("/api/blog/latest?limit=%d", limit), &articles); err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	return articles, nil
}
