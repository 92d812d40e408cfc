package siteweb

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

var sitemapPages = [][]string{
	{"blog"},
	{"life"},
	{"projects"},
	{"tools"},
	{"tools", "json-formatter"},
	{"tools", "responsive"},
	{"contact"},
}

func buildSitemap(base string, posts []content.PostMeta) sitemapURLSet {
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	for _, segs := range sitemapPages {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, segs...)})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(base, "blog", p.Slug)}
		if t, ok := content.ParseDate(p.Date); ok {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []content.PostMeta) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(buildSitemap(a.Config.URL, posts))
}
