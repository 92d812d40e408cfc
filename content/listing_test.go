package content

import (
	"testing"
)

func samplePosts() []PostMeta {
	return []PostMeta{
		{Slug: "p1", Date: "2024-12-31", Tags: []string{"Go", "web"}},
		{Slug: "p2", Date: "2024-01-01T08:00:00Z", Tags: []string{"life"}},
		{Slug: "p3", Date: "2023-12-31", Tags: []string{"go"}},
		{Slug: "p4", Date: "whenever", Tags: []string{}},
		{Slug: "p5", Date: "2022-06-01", Tags: []string{"web"}},
	}
}

func slugsOf(posts []PostMeta) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterByTag(t *testing.T) {
	posts := samplePosts()
	tests := []struct {
		tag  string
		want []string
	}{
		{"go", []string{"p1", "p3"}},
		{"GO", []string{"p1", "p3"}},
		{" web ", []string{"p1", "p5"}},
		{"missing", []string{}},
		{"", []string{"p1", "p2", "p3", "p4", "p5"}},
		{"all", []string{"p1", "p2", "p3", "p4", "p5"}},
		{"All", []string{"p1", "p2", "p3", "p4", "p5"}},
	}
	for _, tt := range tests {
		got := slugsOf(FilterByTag(posts, tt.tag))
		if !equalStrings(got, tt.want) {
			t.Errorf("FilterByTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestFilterByTagIsSubset(t *testing.T) {
	posts := samplePosts()
	for _, tag := range []string{"go", "web", "life"} {
		for _, p := range FilterByTag(posts, tag) {
			if !HasTag(p, tag) {
				t.Errorf("FilterByTag(%q) returned %s without the tag", tag, p.Slug)
			}
		}
	}
}

func TestGroupByYear(t *testing.T) {
	groups := GroupByYear(samplePosts())
	want := []struct {
		year  string
		slugs []string
	}{
		{"2024", []string{"p1", "p2"}},
		{"2023", []string{"p3"}},
		{"2022", []string{"p5"}},
		{UnknownYear, []string{"p4"}},
	}
	if len(groups) != len(want) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(want))
	}
	for i, w := range want {
		if groups[i].Year != w.year {
			t.Errorf("groups[%d].Year = %q, want %q", i, groups[i].Year, w.year)
		}
		if got := slugsOf(groups[i].Posts); !equalStrings(got, w.slugs) {
			t.Errorf("groups[%d].Posts = %v, want %v", i, got, w.slugs)
		}
	}
}

func TestGroupByYearOutOfOrderInput(t *testing.T) {
	posts := []PostMeta{
		{Slug: "a", Date: "2021-01-01"},
		{Slug: "b", Date: "2023-01-01"},
		{Slug: "c", Date: "2021-05-01"},
	}
	groups := GroupByYear(posts)
	if len(groups) != 2 || groups[0].Year != "2023" || groups[1].Year != "2021" {
		t.Fatalf("groups = %+v", groups)
	}
	if got := slugsOf(groups[1].Posts); !equalStrings(got, []string{"a", "c"}) {
		t.Errorf("2021 posts = %v, want [a c]", got)
	}
}

func TestCollapsed(t *testing.T) {
	set := ParseCollapsed("2024, 2022,,")
	if set.Cardinality() != 2 || !set.Contains("2024") || !set.Contains("2022") {
		t.Fatalf("ParseCollapsed = %v", set.ToSlice())
	}
	if got := ToggleCollapsed(set, "2023"); got != "2024,2023,2022" {
		t.Errorf("ToggleCollapsed add = %q", got)
	}
	if got := ToggleCollapsed(set, "2024"); got != "2022" {
		t.Errorf("ToggleCollapsed remove = %q", got)
	}
	if set.Cardinality() != 2 {
		t.Error("ToggleCollapsed mutated its input")
	}
}

func TestBuildList(t *testing.T) {
	posts := samplePosts()
	view := BuildList(posts, "web", ParseCollapsed("2024"))
	if view.Tag != "web" || view.Total != 2 {
		t.Errorf("view = %+v", view)
	}
	if len(view.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(view.Groups))
	}
	if !view.Groups[0].Collapsed || view.Groups[1].Collapsed {
		t.Errorf("collapse flags = %v, %v", view.Groups[0].Collapsed, view.Groups[1].Collapsed)
	}
	if len(view.Tags) != 3 {
		t.Errorf("Tags = %v, want 3 distinct", view.Tags)
	}

	all := BuildList(posts, "all", nil)
	if all.Tag != "" || all.Total != len(posts) {
		t.Errorf("all view = %+v", all)
	}
	for _, g := range all.Groups {
		if g.Collapsed {
			t.Errorf("year %s collapsed without a collapse set", g.Year)
		}
	}
}
