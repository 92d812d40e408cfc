package siteweb

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/content"
)

const feedItemLimit = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

// buildFeed maps posts (newest first) to an RSS 2.0 document.
func buildFeed(site SiteConfig, posts []content.PostMeta) rssXML {
	if len(posts) > feedItemLimit {
		posts = posts[:feedItemLimit]
	}
	items := make([]rssItem, 0, len(posts))
	var latest time.Time
	for _, p := range posts {
		pubDate := ""
		if t, ok := content.ParseDate(p.Date); ok {
			pubDate = t.Format(time.RFC1123Z)
			if t.After(latest) {
				latest = t
			}
		}
		postURL := BuildURL(site.URL, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			PubDate:     pubDate,
			GUID:        postURL,
			Categories:  p.Tags,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Name,
			Link:        BuildURL(site.URL),
			Description: site.Description,
			Items:       items,
		},
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.Format(time.RFC1123Z)
	}
	return feed
}

func (a *App) renderRSS(c echo.Context, posts []content.PostMeta) error {
	cfg := a.Config
	site := a.Site()
	cfg.Name, cfg.Description = site.Name, site.Description

	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(buildFeed(cfg, posts))
}
