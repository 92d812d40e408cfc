package views

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/siyuanink/siteweb/content"
	"github.com/siyuanink/siteweb/markdown"
)

// absURL resolves segments against the site URL as a directory path.
func absURL(site string, segments ...string) string {
	u, err := url.Parse(site)
	if err != nil || len(segments) == 0 {
		return site
	}
	u.Path = strings.TrimSuffix(path.Join(append([]string{"/", u.Path}, segments...)...), "/") + "/"
	return u.String()
}

// FilterRelatedPosts returns up to limit posts that share at least one tag
// with the current post.
func FilterRelatedPosts(current content.PostMeta, posts []content.PostMeta, limit int) []content.PostMeta {
	var related []content.PostMeta
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range current.Tags {
			if content.HasTag(p, t) {
				related = append(related, p)
				break
			}
		}
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type ldWebSite struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Author      *ldThing `json:"author,omitempty"`
}

type ldBlogPosting struct {
	Context          string   `json:"@context"`
	Type             string   `json:"@type"`
	Headline         string   `json:"headline"`
	Description      string   `json:"description"`
	DatePublished    string   `json:"datePublished"`
	URL              string   `json:"url"`
	Image            string   `json:"image,omitempty"`
	Keywords         string   `json:"keywords,omitempty"`
	Author           *ldThing `json:"author,omitempty"`
	Publisher        ldThing  `json:"publisher"`
	MainEntityOfPage ldThing  `json:"mainEntityOfPage"`
}

func ldAuthor(site Site) *ldThing {
	if site.Author == "" {
		return nil
	}
	return &ldThing{Type: "Person", Name: site.Author}
}

// WebsiteJsonLD describes the site as a schema.org WebSite.
func WebsiteJsonLD(site Site) template.JS {
	return marshalJS(ldWebSite{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        site.Name,
		URL:         site.URL,
		Description: site.Description,
		Author:      ldAuthor(site),
	})
}

// BlogPostingJsonLD describes a post as a schema.org BlogPosting.
func BlogPostingJsonLD(site Site, post content.PostMeta) template.JS {
	link := absURL(site.URL, "blog", post.Slug)
	return marshalJS(ldBlogPosting{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         post.Title,
		Description:      post.Description,
		DatePublished:    post.Date,
		URL:              link,
		Image:            post.Cover,
		Keywords:         strings.Join(post.Tags, ", "),
		Author:           ldAuthor(site),
		Publisher:        ldThing{Type: "Organization", Name: site.Name},
		MainEntityOfPage: ldThing{Type: "WebPage", ID: link},
	})
}

// json.Marshal escapes <, > and & so the output is safe inside <script>.
func marshalJS(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

// ShortDate trims an ISO timestamp to its date part.
func ShortDate(s string) string {
	if t, ok := content.ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

var funcs = template.FuncMap{
	"safeURL":     markdown.SafeURL,
	"pathEscape":  url.PathEscape,
	"queryEscape": url.QueryEscape,
	"joinTags":    JoinTags,
	"tagClass":    TagClass,
	"shortDate":   ShortDate,
	"rawHTML":     func(s string) template.HTML { return template.HTML(s) },
	"websiteLD":   WebsiteJsonLD,
	"postLD":      BlogPostingJsonLD,
	"scale":       func(f float64) string { return fmt.Sprintf("%.4f", f) },
	"percent":     func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"add":         func(a, b int) int { return a + b },
	"eq64":        func(a, b int64) bool { return a == b },
}
