// Package gallery derives view state for photo sets and the projects
// dashboard from API data.
package gallery

import (
	"sort"

	"github.com/siyuanink/siteweb/apiclient"
)

// Next returns the index after i, wrapping to 0.
func Next(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (Clamp(i, n) + 1) % n
}

// Prev returns the index before i, wrapping to n-1.
func Prev(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (Clamp(i, n) - 1 + n) % n
}

// Clamp limits i to [0, n).
func Clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// SortImages orders images by their display order, keeping ties stable.
func SortImages(images []apiclient.PhotoImage) []apiclient.PhotoImage {
	out := make([]apiclient.PhotoImage, len(images))
	copy(out, images)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CoverIndex returns the index of the cover image, or 0 when none is marked.
func CoverIndex(images []apiclient.PhotoImage) int {
	for i, img := range images {
		if img.IsCover {
			return i
		}
	}
	return 0
}

// Lightbox is the state of the full-screen image viewer.
type Lightbox struct {
	Images  []apiclient.PhotoImage
	Current int
	Prev    int
	Next    int
}

// Image returns the image being shown.
func (l Lightbox) Image() (apiclient.PhotoImage, bool) {
	if len(l.Images) == 0 {
		return apiclient.PhotoImage{}, false
	}
	return l.Images[l.Current], true
}

// Shown returns the image being shown, or nil for an empty set.
func (l Lightbox) Shown() *apiclient.PhotoImage {
	if img, ok := l.Image(); ok {
		return &img
	}
	return nil
}

// Position is the 1-based index of the current image.
func (l Lightbox) Position() int {
	if len(l.Images) == 0 {
		return 0
	}
	return l.Current + 1
}

// NewLightbox opens the viewer on images at index, or on the cover when
// index is negative.
func NewLightbox(images []apiclient.PhotoImage, index int) Lightbox {
	sorted := SortImages(images)
	n := len(sorted)
	if index < 0 {
		index = CoverIndex(sorted)
	}
	cur := Clamp(index, n)
	return Lightbox{
		Images:  sorted,
		Current: cur,
		Prev:    Prev(cur, n),
		Next:    Next(cur, n),
	}
}
