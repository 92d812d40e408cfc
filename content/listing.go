package content

import (
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"
)

// AllTags selects every post in FilterByTag.
const AllTags = "all"

// UnknownYear groups posts whose date cannot be parsed.
const UnknownYear = "unknown"

// HasTag reports whether p carries tag, ignoring case.
func HasTag(p PostMeta, tag string) bool {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(tag))
	for _, t := range p.Tags {
		if fold.String(t) == want {
			return true
		}
	}
	return false
}

// FilterByTag returns the posts carrying tag in their original order. An
// empty tag or AllTags returns posts unchanged.
func FilterByTag(posts []PostMeta, tag string) []PostMeta {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, AllTags) {
		return posts
	}
	out := make([]PostMeta, 0, len(posts))
	for _, p := range posts {
		if HasTag(p, tag) {
			out = append(out, p)
		}
	}
	return out
}

// YearGroup is one year section of the blog list.
type YearGroup struct {
	Year      string
	Posts     []PostMeta
	Collapsed bool
}

// YearOf returns the calendar year of a post date, or UnknownYear.
func YearOf(date string) string {
	t, ok := ParseDate(date)
	if !ok {
		return UnknownYear
	}
	return strconv.Itoa(t.Year())
}

// GroupByYear splits posts into year groups, newest year first. Posts keep
// their relative order inside a group. Posts with unparseable dates go in a
// trailing UnknownYear group.
func GroupByYear(posts []PostMeta) []YearGroup {
	index := map[string]int{}
	var groups []YearGroup
	var unknown []PostMeta
	for _, p := range posts {
		year := YearOf(p.Date)
		if year == UnknownYear {
			unknown = append(unknown, p)
			continue
		}
		i, ok := index[year]
		if !ok {
			i = len(groups)
			index[year] = i
			groups = append(groups, YearGroup{Year: year})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	sortGroups(groups)
	if len(unknown) > 0 {
		groups = append(groups, YearGroup{Year: UnknownYear, Posts: unknown})
	}
	return groups
}

func sortGroups(groups []YearGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return yearNum(groups[i].Year) > yearNum(groups[j].Year)
	})
}

func yearNum(y string) int {
	n, _ := strconv.Atoi(y)
	return n
}

// ParseCollapsed reads the comma separated "collapsed" query value.
func ParseCollapsed(raw string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, y := range strings.Split(raw, ",") {
		if y = strings.TrimSpace(y); y != "" {
			set.Add(y)
		}
	}
	return set
}

// ToggleCollapsed returns the collapsed query value after flipping year.
func ToggleCollapsed(collapsed mapset.Set[string], year string) string {
	next := collapsed.Clone()
	if next.Contains(year) {
		next.Remove(year)
	} else {
		next.Add(year)
	}
	years := next.ToSlice()
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return strings.Join(years, ",")
}

// ListView is the derived state of the blog list page.
type ListView struct {
	Tag    string
	Tags   []string
	Total  int
	Groups []YearGroup
}

// BuildList filters posts by tag and groups the result by year, marking the
// years present in collapsed. Callers drop collapsed when the tag changes so
// that every year is expanded again.
func BuildList(posts []PostMeta, tag string, collapsed mapset.Set[string]) ListView {
	filtered := FilterByTag(posts, tag)
	groups := GroupByYear(filtered)
	for i := range groups {
		groups[i].Collapsed = collapsed != nil && collapsed.Contains(groups[i].Year)
	}
	if strings.EqualFold(strings.TrimSpace(tag), AllTags) {
		tag = ""
	}
	return ListView{
		Tag:    strings.TrimSpace(tag),
		Tags:   CollectTags(posts),
		Total:  len(filtered),
		Groups: groups,
	}
}
