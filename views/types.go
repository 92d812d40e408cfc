package views

import (
	"github.com/siyuanink/siteweb/apiclient"
	"github.com/siyuanink/siteweb/canvas"
	"github.com/siyuanink/siteweb/content"
	"github.com/siyuanink/siteweb/gallery"
)

// Site holds the identity of the site shown on every page.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Flash is a one-shot message shown after a redirect.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

// Chrome is the per-request data of the page shell.
type Chrome struct {
	Site       Site
	Meta       PageMeta
	Path       string
	Theme      string
	CSRF       string
	Flashes    []Flash
	MessageTTL int // milliseconds before flashes dismiss
	Year       int
}

// HomeData is the landing page.
type HomeData struct {
	Latest  []content.PostMeta
	Offline bool
}

// TagLink is one entry of the tag filter bar.
type TagLink struct {
	Name   string
	URL    string
	Active bool
}

// YearSection is one collapsible year of the blog list.
type YearSection struct {
	Year      string
	Posts     []content.PostMeta
	Collapsed bool
	ToggleURL string
}

// BlogListData is the blog index.
type BlogListData struct {
	Tag      string
	AllURL   string
	Tags     []TagLink
	Total    int
	Sections []YearSection
}

// PostData is a single blog post.
type PostData struct {
	Post    content.Post
	Related []content.PostMeta
}

// LifeData is the photo list.
type LifeData struct {
	Photos []apiclient.PhotoSummary
	Error  string
}

// PhotoData is one photo set with the lightbox open on one image.
type PhotoData struct {
	Photo       apiclient.Photo
	ContentHTML string
	Lightbox    gallery.Lightbox
}

// ProjectsData is the GitHub dashboard.
type ProjectsData struct {
	Dashboard *gallery.Dashboard
	Syncing   bool
	Error     string
}

// Tool is an entry of the tools index.
type Tool struct {
	Name        string
	Description string
	URL         string
}

// ToolsData is the tools index.
type ToolsData struct {
	Tools []Tool
}

// JSONFormatterData is the JSON formatter form and its result.
type JSONFormatterData struct {
	Input   string
	Output  string
	Error   string
	Message string
	Indent  int
}

// DeviceView is the rendered state of one device mockup.
type DeviceView struct {
	Key       string
	Name      string
	X, Y, Z   int
	Visible   bool
	Landscape bool
	Rotatable bool
	Geometry  canvas.Geometry
}

// ResponsiveData is the multi-device preview.
type ResponsiveData struct {
	URL      string
	Input    string
	Devices  []DeviceView
	ShareURL string
	ResetURL string
	Error    string
}

// DevicesOf converts canvas state to device views in catalog order.
func DevicesOf(c *canvas.Canvas) []DeviceView {
	devs := c.Devices()
	out := make([]DeviceView, 0, len(devs))
	for _, d := range devs {
		k := d.Kind()
		out = append(out, DeviceView{
			Key:       string(d.Key),
			Name:      k.Name,
			X:         d.Pos.X,
			Y:         d.Pos.Y,
			Z:         d.Z,
			Visible:   d.Visible(),
			Landscape: d.Landscape,
			Rotatable: k.Rotatable,
			Geometry:  d.Geometry(),
		})
	}
	return out
}

// ContactData is the contact form, refilled after validation errors.
type ContactData struct {
	Name    string
	Email   string
	Subject string
	Message string
	Errors  map[string]string
}

// AdminPanel identifies one of the admin screens.
type AdminPanel struct {
	Name  string
	Title string
	Base  string
}

// AdminLoginData is the key prompt of an admin panel.
type AdminLoginData struct {
	Panel AdminPanel
	Error string
}

// ArticleForm holds the editable fields of an article.
type ArticleForm struct {
	Slug        string
	Title       string
	Description string
	Tags        string
	Content     string
	Cover       string
}

// AdminBlogData is the authenticated blog panel.
type AdminBlogData struct {
	Panel      AdminPanel
	Articles   []apiclient.Article
	Editing    string // slug being edited, empty when creating
	ShowForm   bool
	Form       ArticleForm
	Images     []apiclient.ArticleImage
	LastUpload *apiclient.UploadedImage
}

// PhotoForm holds the editable fields of a photo set.
type PhotoForm struct {
	Title       string
	Description string
	Content     string
	Date        string
}

// AdminLifeData is the authenticated photo panel.
type AdminLifeData struct {
	Panel    AdminPanel
	Photos   []apiclient.PhotoSummary
	Editing  int64 // photo id being edited, 0 when creating
	ShowForm bool
	Form     PhotoForm
	Images   []apiclient.PhotoImage
}

// ConfirmData asks before a destructive action.
type ConfirmData struct {
	Panel   AdminPanel
	Title   string
	Message string
	Action  string
	Back    string
}
