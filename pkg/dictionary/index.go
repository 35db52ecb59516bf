package dictionary

import (
	"slices"
	"strings"

	"golang.org/x/text/width"
)

// Fold is the normal form of index keys: full-width Latin and half-width
// katakana folded to their usual width, ASCII letters lowercased. Terms and
// lookups are both folded, so ＯＬ, OL and ol meet under one key.
func Fold(term string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, width.Fold.String(term))
}

// Index maps every searchable term of one kind of entry to the entries
// carrying it. It stores positions into the shared entry slice and is
// read-only after construction.
type Index struct {
	entries []Entry
	terms   map[string][]int
}

// NewIndex indexes the entries of the given kind.
func NewIndex(entries []Entry, kind Kind) *Index {
	idx := &Index{
		entries: entries,
		terms:   make(map[string][]int),
	}
	for i := range entries {
		if entries[i].Kind != kind {
			continue
		}
		for _, t := range entries[i].Terms() {
			t = Fold(t)
			positions := idx.terms[t]
			// an entry listing the same term twice is indexed once
			if n := len(positions); n > 0 && positions[n-1] == i {
				continue
			}
			idx.terms[t] = append(positions, i)
		}
	}
	return idx
}

// Get returns the entries filed under term, compared after Fold, in index
// order.
func (idx *Index) Get(term string) []*Entry {
	positions := idx.terms[Fold(term)]
	if len(positions) == 0 {
		return nil
	}
	out := make([]*Entry, len(positions))
	for i, p := range positions {
		out[i] = &idx.entries[p]
	}
	return out
}

// GetAll concatenates Get over terms. An entry found under several terms
// appears once per term.
func (idx *Index) GetAll(terms ...string) []*Entry {
	var out []*Entry
	for _, t := range terms {
		out = append(out, idx.Get(t)...)
	}
	return out
}

// Count is len(GetAll(terms...)) without building the slice.
func (idx *Index) Count(terms ...string) int {
	n := 0
	for _, t := range terms {
		n += len(idx.terms[Fold(t)])
	}
	return n
}

// Len returns the number of distinct terms.
func (idx *Index) Len() int {
	return len(idx.terms)
}

// Sort orders entries by Compare. It is stable so equal entries keep index order.
func Sort(entries []*Entry) {
	slices.SortStableFunc(entries, Compare)
}

// Dedupe removes repeated pointers, keeping the first occurrence.
func Dedupe(entries []*Entry) []*Entry {
	seen := make(map[*Entry]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
