// Package segment splits Japanese sentences into dictionary words by greedy
// longest match.
package segment

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/japaniel/jiten/pkg/dictionary"
)

// MaxWordLen is the longest candidate tried, in characters. It is one more
// than the longest name in the corpus.
const MaxWordLen = 42

// ErrUndecomposed is returned when some position of a sentence starts no known word.
var ErrUndecomposed = errors.New("sentence could not be decomposed")

// Lookuper finds entries filed under an exact term.
type Lookuper interface {
	Lookup(term string, kinds ...dictionary.Kind) []*dictionary.Entry
}

// Span is one segment of a sentence. Start and End are character offsets,
// End exclusive. Punctuation and whitespace spans have no candidates.
type Span struct {
	Surface    string
	Start      int
	End        int
	Candidates []*dictionary.Entry
}

func (sp Span) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", sp.Surface)
	b.WriteString("----------------------------------------\n")
	for _, c := range sp.Candidates {
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	b.WriteString("----------------------------------------\n")
	return b.String()
}

// Segmenter matches words and names only.
type Segmenter struct {
	dict  Lookuper
	kinds []dictionary.Kind

	// SkipSeparators turns runs of punctuation, whitespace and symbols
	// that start no word into spans without candidates instead of failing
	// the sentence.
	SkipSeparators bool
}

// New returns a Segmenter over d.
func New(d Lookuper) *Segmenter {
	return &Segmenter{
		dict:  d,
		kinds: []dictionary.Kind{dictionary.KindWord, dictionary.KindName},
	}
}

// LongestMatch returns the longest word starting at character i whose
// surface is exactly the matched text.
func (s *Segmenter) LongestMatch(runes []rune, i int) (Span, bool) {
	n := min(len(runes)-i, MaxWordLen)
	for ; n > 0; n-- {
		sub := string(runes[i : i+n])
		var candidates []*dictionary.Entry
		for _, e := range s.dict.Lookup(sub, s.kinds...) {
			if e.Surface() == sub {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) > 0 {
			return Span{Surface: sub, Start: i, End: i + n, Candidates: candidates}, true
		}
	}
	return Span{}, false
}

// Segment decomposes sentence left to right. A position that starts no
// word fails the whole sentence with ErrUndecomposed, unless SkipSeparators
// is set and the position holds a separator.
func (s *Segmenter) Segment(sentence string) ([]Span, error) {
	runes := []rune(sentence)
	var spans []Span
	for i := 0; i < len(runes); {
		if sp, ok := s.LongestMatch(runes, i); ok {
			spans = append(spans, sp)
			i = sp.End
			continue
		}
		if !s.SkipSeparators || !separator(runes[i]) {
			return nil, fmt.Errorf("%w: no word at %q", ErrUndecomposed, string(runes[i:]))
		}
		j := i + 1
		for j < len(runes) && separator(runes[j]) {
			j++
		}
		spans = append(spans, Span{Surface: string(runes[i:j]), Start: i, End: j})
		i = j
	}
	return spans, nil
}

func separator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}
