// Package views renders every page of the site as templ components backed
// by embedded html/template files.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// pages maps a page name to the layout cloned with that page's blocks.
var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	base := template.Must(template.New("base").Funcs(funcs).ParseFS(templateFS, layoutFile))
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(files))
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t := template.Must(template.Must(base.Clone()).ParseFS(templateFS, f))
		out[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return out
}

type page struct {
	Chrome Chrome
	Data   any
}

func render(name string, chrome Chrome, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", page{Chrome: chrome, Data: data})
	})
}

// Home renders the landing page.
func Home(c Chrome, d HomeData) templ.Component { return render("home", c, d) }

// BlogList renders the blog index grouped by year.
func BlogList(c Chrome, d BlogListData) templ.Component { return render("blog_list", c, d) }

// Post renders a single blog post.
func Post(c Chrome, d PostData) templ.Component { return render("post", c, d) }

// Life renders the photo set grid.
func Life(c Chrome, d LifeData) templ.Component { return render("life", c, d) }

// Photo renders one photo set with its lightbox.
func Photo(c Chrome, d PhotoData) templ.Component { return render("photo", c, d) }

// Projects renders the GitHub dashboard.
func Projects(c Chrome, d ProjectsData) templ.Component { return render("projects", c, d) }

// Tools renders the tool index.
func Tools(c Chrome, d ToolsData) templ.Component { return render("tools", c, d) }

// JSONFormatter renders the JSON formatter tool.
func JSONFormatter(c Chrome, d JSONFormatterData) templ.Component {
	return render("json_formatter", c, d)
}

// Responsive renders the multi-device preview.
func Responsive(c Chrome, d ResponsiveData) templ.Component { return render("responsive", c, d) }

// Contact renders the contact form.
func Contact(c Chrome, d ContactData) templ.Component { return render("contact", c, d) }

// AdminLogin renders the API key form of an admin panel.
func AdminLogin(c Chrome, d AdminLoginData) templ.Component { return render("admin_login", c, d) }

// AdminBlog renders the blog admin panel.
func AdminBlog(c Chrome, d AdminBlogData) templ.Component { return render("admin_blog", c, d) }

// AdminLife renders the photo admin panel.
func AdminLife(c Chrome, d AdminLifeData) templ.Component { return render("admin_life", c, d) }

// Confirm asks the user to confirm a delete before it is sent.
func Confirm(c Chrome, d ConfirmData) templ.Component { return render("confirm", c, d) }

// NotFound renders the 404 page.
func NotFound(c Chrome) templ.Component { return render("not_found", c, nil) }

// ServerError renders the 500 page.
func ServerError(c Chrome) templ.Component { return render("server_error", c, nil) }
