// Package markdown converts Markdown to HTML with goldmark and exposes the
// result as templ components.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// The default goldmark HTML renderer drops raw HTML blocks and dangerous
// link schemes, so the output is safe to embed as-is.
var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML renders src as HTML.
func ToHTML(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert(src, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := ToHTML([]byte(content))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// HTML returns a templ.Component that writes already rendered HTML.
// Only pass output of ToHTML.
func HTML(rendered string) templ.Component {
	return templ.Raw(rendered)
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths and http(s), mailto and tel URLs pass; anything else
// returns "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
