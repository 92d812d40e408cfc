// Package content loads blog posts from a directory of Markdown files with
// YAML front-matter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"

	"github.com/siyuanink/siteweb/markdown"
)

const (
	fileExt        = ".md"
	charsPerMinute = 200
)

// FrontMatter is the YAML header of a post file.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Cover       string   `yaml:"cover,omitempty"`
}

// PostMeta is the summary of a post used by list pages.
type PostMeta struct {
	Slug        string
	Title       string
	Date        string
	Description string
	Tags        []string
	Cover       string
	ReadingTime string
}

// Post is a fully loaded post with its body rendered to HTML.
type Post struct {
	PostMeta
	HTML string
}

// Loader reads posts from a directory on every call.
type Loader struct {
	dir string
	now func() time.Time
}

// NewLoader returns a Loader for dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, now: time.Now}
}

// Dir returns the directory posts are read from.
func (l *Loader) Dir() string { return l.dir }

// Posts returns every post summary sorted by date, newest first. Posts with
// equal dates keep directory order. A missing directory yields no posts.
func (l *Loader) Posts() ([]PostMeta, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []PostMeta{}, nil
		}
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	posts := make([]PostMeta, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), fileExt)
		meta, _, err := l.read(slug)
		if err != nil {
			return nil, err
		}
		posts = append(posts, meta)
	}
	SortByDate(posts)
	return posts, nil
}

// PostBySlug loads one post. It returns nil, nil when no such post exists.
func (l *Loader) PostBySlug(slug string) (*Post, error) {
	if !validSlug(slug) {
		return nil, nil
	}
	meta, body, err := l.read(slug)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	rendered, err := markdown.ToHTML(body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", slug, err)
	}
	return &Post{PostMeta: meta, HTML: rendered}, nil
}

// Slugs returns the slug of every post in listing order.
func (l *Loader) Slugs() ([]string, error) {
	posts, err := l.Posts()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
	}
	return slugs, nil
}

// Tags returns the distinct tags across all posts, sorted. Tags that differ
// only in case are reported once, spelled as first seen.
func (l *Loader) Tags() ([]string, error) {
	posts, err := l.Posts()
	if err != nil {
		return nil, err
	}
	return CollectTags(posts), nil
}

// PostsByTag returns the posts carrying tag.
func (l *Loader) PostsByTag(tag string) ([]PostMeta, error) {
	posts, err := l.Posts()
	if err != nil {
		return nil, err
	}
	return FilterByTag(posts, tag), nil
}

func (l *Loader) read(slug string) (PostMeta, []byte, error) {
	raw, err := os.ReadFile(filepath.Join(l.dir, slug+fileExt))
	if err != nil {
		return PostMeta{}, nil, err
	}

	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		slog.Warn("front-matter not parsed, using file as body", "slug", slug, "err", err)
		fm = FrontMatter{}
		body = raw
	}

	meta := PostMeta{
		Slug:        slug,
		Title:       fm.Title,
		Date:        fm.Date,
		Description: fm.Description,
		Tags:        fm.Tags,
		Cover:       fm.Cover,
		ReadingTime: ReadingTime(string(body)),
	}
	if meta.Title == "" {
		meta.Title = slug
	}
	if meta.Date == "" {
		meta.Date = l.now().UTC().Format(time.RFC3339)
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return meta, body, nil
}

func validSlug(slug string) bool {
	if slug == "" || slug == "." || strings.Contains(slug, "..") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}

// ReadingMinutes estimates minutes to read body at a fixed rate of
// characters per minute. Characters are counted as runes.
func ReadingMinutes(body string) int {
	n := utf8.RuneCountInString(body)
	return int(math.Ceil(float64(n) / charsPerMinute))
}

// ReadingTime formats ReadingMinutes as "N min read".
func ReadingTime(body string) string {
	return fmt.Sprintf("%d min read", ReadingMinutes(body))
}

// SortByDate orders posts newest first, keeping the relative order of posts
// with equal dates.
func SortByDate(posts []PostMeta) {
	sort.SliceStable(posts, func(i, j int) bool {
		return dateAfter(posts[i].Date, posts[j].Date)
	})
}

// dateAfter orders parseable dates newest first, then unparseable ones by
// their text, descending.
func dateAfter(a, b string) bool {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA != okB:
		return okA
	}
	return a > b
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats accepted in front-matter.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CollectTags returns the distinct tags of posts, sorted case-insensitively.
func CollectTags(posts []PostMeta) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var tags []string
	fold := cases.Fold()
	for _, p := range posts {
		for _, t := range p.Tags {
			key := fold.String(t)
			if t == "" || seen.Contains(key) {
				continue
			}
			seen.Add(key)
			tags = append(tags, t)
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return fold.String(tags[i]) < fold.String(tags[j])
	})
	if tags == nil {
		tags = []string{}
	}
	return tags
}
