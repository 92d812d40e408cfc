package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/siyuanink/siteweb"
	"github.com/siyuanink/siteweb/content"
	"github.com/siyuanink/siteweb/scaffold"
)

var (
	newPostTitle       string
	newPostTags        string
	newPostDescription string
	newPostDir         string
)

var newPostCmd = &cobra.Command{
	Use:   "new-post <slug>",
	Short: "Create a Markdown post with front-matter",
	Example: `  siteweb new-post hello-world
  siteweb new-post go-generics --title "Go Generics" --tags go,notes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := newPostDir
		if dir == "" {
			_, cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.ContentDir
		}
		path, err := writePost(dir, args[0], newPostTitle, newPostDescription, newPostTags, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
		return nil
	},
}

func init() {
	newPostCmd.Flags().StringVar(&newPostTitle, "title", "", "post title (default derived from the slug)")
	newPostCmd.Flags().StringVar(&newPostTags, "tags", "", "comma-separated tags")
	newPostCmd.Flags().StringVar(&newPostDescription, "description", "", "short description")
	newPostCmd.Flags().StringVar(&newPostDir, "dir", "", "content directory (default from config)")
}

// titleFromSlug turns "my-first-post" into "My First Post".
func titleFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// writePost creates dir/slug.md and refuses to overwrite an existing file.
func writePost(dir, slug, title, description, tags string, now time.Time) (string, error) {
	if siteweb.Slugify(slug) != slug || slug == "" {
		return "", fmt.Errorf("invalid slug %q (use lowercase letters, digits and dashes)", slug)
	}
	if title == "" {
		title = titleFromSlug(slug)
	}
	data, err := scaffold.Post(content.FrontMatter{
		Title:       title,
		Date:        now.Format("2006-01-02"),
		Description: description,
		Tags:        siteweb.SplitTags(tags),
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("post %q already exists", path)
		}
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
