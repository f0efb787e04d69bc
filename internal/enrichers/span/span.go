// Package span converts byte ranges in a string to grapheme-cluster
// offsets, the unit highlights are reported in.
package span

import (
	"sort"

	"github.com/rivo/uniseg"
)

// Index maps byte positions of a text to grapheme-cluster positions.
type Index struct {
	text   string
	starts []int // byte offset where each grapheme cluster begins
}

// New builds an Index over text.
func New(text string) *Index {
	idx := &Index{text: text}
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		from, _ := g.Positions()
		idx.starts = append(idx.starts, from)
	}
	return idx
}

// Len returns the number of grapheme clusters in the text.
func (i *Index) Len() int {
	return len(i.starts)
}

// Grapheme returns the grapheme index containing byte offset b.
func (i *Index) Grapheme(b int) int {
	if b <= 0 || len(i.starts) == 0 {
		return 0
	}
	if b >= len(i.text) {
		return len(i.starts)
	}
	// Largest k with starts[k] <= b.
	return sort.Search(len(i.starts), func(k int) bool { return i.starts[k] > b }) - 1
}

// Range converts the half-open byte range [from, to) to a half-open
// grapheme range. A range ending inside a cluster is widened to cover it.
func (i *Index) Range(from, to int) (start, end int) {
	start = i.Grapheme(from)
	end = sort.Search(len(i.starts), func(k int) bool { return i.starts[k] >= to })
	if end < start {
		end = start
	}
	return start, end
}

// Clusters splits text into its grapheme clusters.
func Clusters(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
