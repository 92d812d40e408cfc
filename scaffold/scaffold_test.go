package scaffold

import (
	"strings"
	"testing"

	"github.com/adrg/frontmatter"

	"github.com/siyuanink/siteweb/content"
)

func TestPostRoundTripsFrontMatter(t *testing.T) {
	in := content.FrontMatter{
		Title:       "Hello World",
		Date:        "2024-03-01",
		Description: "First post",
		Tags:        []string{"go", "web"},
	}
	out, err := Post(in)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if !strings.HasPrefix(string(out), "---\n") {
		t.Fatalf("expected front-matter delimiter, got %q", out[:10])
	}

	var got content.FrontMatter
	body, err := frontmatter.Parse(strings.NewReader(string(out)), &got)
	if err != nil {
		t.Fatalf("parse front-matter: %v", err)
	}
	if got.Title != in.Title || got.Date != in.Date || got.Description != in.Description {
		t.Errorf("front-matter = %+v, want %+v", got, in)
	}
	if strings.Join(got.Tags, ",") != "go,web" {
		t.Errorf("tags = %v", got.Tags)
	}
	if !strings.Contains(string(body), "# Hello World") {
		t.Errorf("body missing title heading: %q", body)
	}
	if !strings.Contains(string(body), "First post") {
		t.Errorf("body missing description: %q", body)
	}
}

func TestPostOmitsEmptyFields(t *testing.T) {
	out, err := Post(content.FrontMatter{Title: "Bare", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	for _, key := range []string{"tags:", "cover:", "description:"} {
		if strings.Contains(string(out), key) {
			t.Errorf("expected %q to be omitted:\n%s", key, out)
		}
	}
}
