// Package scaffold renders new blog post files for the siteweb CLI.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v2"

	"github.com/siyuanink/siteweb/content"
)

// Templates contains the post body template.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

var postTemplate = template.Must(template.ParseFS(Templates, "templates/post.md.tmpl"))

// Post renders a Markdown file: the YAML front-matter of fm followed by the
// starter body.
func Post(fm content.FrontMatter) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front-matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	if err := postTemplate.Execute(&buf, fm); err != nil {
		return nil, fmt.Errorf("execute post template: %w", err)
	}
	return buf.Bytes(), nil
}
