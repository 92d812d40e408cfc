package siteweb

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts a title to a URL-safe slug: lowercase ASCII letters and
// digits separated by single dashes. Accents are dropped ("Café" → "cafe");
// other characters become separators.
func Slugify(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return b.String()
}

// BuildURL joins path segments onto base. A URL with segments always ends
// in a slash; base alone is returned as parsed.
func BuildURL(base string, segments ...string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return base
	}
	if len(segments) == 0 {
		return u.String()
	}
	p := path.Join(append([]string{"/", u.Path}, segments...)...)
	if p != "/" {
		p += "/"
	}
	u.Path = p
	return u.String()
}

// SplitTags parses a comma-separated tag field. Blank entries and
// case-insensitive repeats are dropped; the first spelling wins. It never
// returns nil.
func SplitTags(raw string) []string {
	fold := cases.Fold()
	seen := mapset.NewThreadUnsafeSet[string]()
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || !seen.Add(fold.String(t)) {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}
