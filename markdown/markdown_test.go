package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	got, err := ToHTML([]byte(input))
	if err != nil {
		t.Fatalf("ToHTML(%q): %v", input, err)
	}
	return got
}

func TestToHTMLInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text `code` more", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestToHTMLHeadingsGetIDs(t *testing.T) {
	got := render(t, "# Hello World\n\n## Second")
	if !strings.Contains(got, `<h1 id="hello-world">Hello World</h1>`) {
		t.Errorf("missing h1 with id: %q", got)
	}
	if !strings.Contains(got, `<h2 id="second">Second</h2>`) {
		t.Errorf("missing h2 with id: %q", got)
	}
}

func TestToHTMLCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(1)\n```")
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block missing language class: %q", got)
	}
	if !strings.Contains(got, "fmt.Println(1)") {
		t.Errorf("code block missing content: %q", got)
	}
}

func TestToHTMLTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>2</td>") {
		t.Errorf("GFM table not rendered: %q", got)
	}
}

func TestToHTMLLists(t *testing.T) {
	got := render(t, "- one\n- two\n\n1. first\n2. second")
	if !strings.Contains(got, "<ul>") || !strings.Contains(got, "<li>two</li>") {
		t.Errorf("unordered list not rendered: %q", got)
	}
	if !strings.Contains(got, "<ol>") || !strings.Contains(got, "<li>first</li>") {
		t.Errorf("ordered list not rendered: %q", got)
	}
}

func TestToHTMLDropsRawHTML(t *testing.T) {
	got := render(t, "before\n\n<script>alert(1)</script>\n\nafter")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw script survived: %q", got)
	}
	if !strings.Contains(got, "after") {
		t.Errorf("content after raw block lost: %q", got)
	}
}

func TestToHTMLDropsDangerousLinks(t *testing.T) {
	got := render(t, "[click](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript link survived: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("*hi*").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<em>hi</em>") {
		t.Errorf("Markdown component = %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"http://example.com", "http://example.com"},
		{"/uploads/a.png", "/uploads/a.png"},
		{"#top", "#top"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"JaVaScRiPt:alert(1)", ""},
		{"data:text/html;base64,xx", ""},
		{"//evil.example.com", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
