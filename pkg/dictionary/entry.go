package dictionary

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"github.com/japaniel/jiten/pkg/conjugate"
)

// Kind identifies which of the four entry types an Entry holds.
type Kind uint8

const (
	KindWord Kind = iota + 1
	KindName
	KindKanji
	KindRadical
)

// Kinds lists every kind in result order.
var Kinds = []Kind{KindWord, KindKanji, KindName, KindRadical}

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "Word"
	case KindName:
		return "Name"
	case KindKanji:
		return "Kanji"
	case KindRadical:
		return "Radical"
	}
	return "Unknown"
}

// Tag is the query flag selecting this kind, e.g. "#word".
func (k Kind) Tag() string {
	return "#" + strings.ToLower(k.String())
}

// ParseKind accepts a kind tag with or without the leading '#'.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimPrefix(strings.ToLower(s), "#")
	for _, k := range Kinds {
		if strings.ToLower(k.String()) == s {
			return k, true
		}
	}
	return 0, false
}

// Tag is a part-of-speech or usage tag resolved against a tag bank.
type Tag struct {
	Name        string
	Category    string
	Description string
}

// Pitch is a downstep position for one reading of a word.
type Pitch struct {
	Reading  string
	Position int
	Tags     []string
}

// Word is a vocabulary entry. Frequency is a rank where lower is more common;
// zero means unknown.
type Word struct {
	Vocabulary   string
	Reading      string
	Romaji       string
	Meanings     []string
	Tags         []Tag
	ID           uint32
	Frequency    uint32
	Pitches      []Pitch
	Conjugations []conjugate.Form
}

// Name is a proper name.
type Name struct {
	Name         string
	Reading      string
	Romaji       string
	Translations []string
	Tags         []Tag
	ID           uint32
}

// Kanji is a single character entry. ID is its Unicode code point.
// JLPT and Grade are zero when unknown.
type Kanji struct {
	Kanji      string
	OnYomi     []string
	KunYomi    []string
	Meanings   []string
	Strokes    int
	ID         uint32
	Frequency  uint32
	JLPT       int
	Grade      int
	Radicals   []string
	Tags       []Tag
	Attributes map[string]string
}

// Radical is a kanji component and the kanji containing it.
type Radical struct {
	Radical string
	Strokes int
	Kanji   []string
}

// Entry holds exactly one of Word, Name, Kanji or Radical, selected by Kind.
type Entry struct {
	Kind    Kind
	Word    *Word
	Name    *Name
	Kanji   *Kanji
	Radical *Radical
}

func NewWord(w Word) Entry       { return Entry{Kind: KindWord, Word: &w} }
func NewName(n Name) Entry       { return Entry{Kind: KindName, Name: &n} }
func NewKanji(k Kanji) Entry     { return Entry{Kind: KindKanji, Kanji: &k} }
func NewRadical(r Radical) Entry { return Entry{Kind: KindRadical, Radical: &r} }

// Key is the primary key: the numeric id, or the glyph for radicals.
func (e *Entry) Key() string {
	if e.Kind == KindRadical {
		return e.Radical.Radical
	}
	return strconv.FormatUint(uint64(e.id()), 10)
}

func (e *Entry) id() uint32 {
	switch e.Kind {
	case KindWord:
		return e.Word.ID
	case KindName:
		return e.Name.ID
	case KindKanji:
		return e.Kanji.ID
	}
	return 0
}

// Surface is the entry as written: vocabulary, name, kanji or radical glyph.
func (e *Entry) Surface() string {
	switch e.Kind {
	case KindWord:
		return e.Word.Vocabulary
	case KindName:
		return e.Name.Name
	case KindKanji:
		return e.Kanji.Kanji
	case KindRadical:
		return e.Radical.Radical
	}
	return ""
}

// Terms returns every string the entry can be found by. Empty strings are omitted.
func (e *Entry) Terms() []string {
	var terms []string
	add := func(s ...string) {
		for _, t := range s {
			if t != "" {
				terms = append(terms, t)
			}
		}
	}

	switch e.Kind {
	case KindWord:
		w := e.Word
		for _, m := range w.Meanings {
			add(strings.Split(m, ", ")...)
		}
		add(w.Vocabulary, w.Reading)
		for _, t := range w.Tags {
			add(t.Name)
		}
		for _, f := range w.Conjugations {
			add(f.Kanji, f.Kana)
		}
	case KindName:
		n := e.Name
		add(n.Translations...)
		add(n.Name, n.Reading)
	case KindKanji:
		k := e.Kanji
		add(k.Meanings...)
		add(k.Kanji)
		add(k.KunYomi...)
		add(k.OnYomi...)
	case KindRadical:
		add(e.Radical.Radical)
	}
	return terms
}

// OrderingKey is the primary sort key: the frequency rank for words and kanji
// (unknown ranks sort last), the stroke count for radicals.
func (e *Entry) OrderingKey() uint64 {
	switch e.Kind {
	case KindWord:
		if e.Word.Frequency > 0 {
			return uint64(e.Word.Frequency)
		}
	case KindKanji:
		if e.Kanji.Frequency > 0 {
			return uint64(e.Kanji.Frequency)
		}
	case KindRadical:
		return uint64(e.Radical.Strokes)
	}
	return math.MaxUint64
}

// Compare orders entries by OrderingKey, then id, then surface.
func Compare(a, b *Entry) int {
	if c := cmp.Compare(a.OrderingKey(), b.OrderingKey()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.id(), b.id()); c != 0 {
		return c
	}
	return strings.Compare(a.Surface(), b.Surface())
}
