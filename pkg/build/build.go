// Package build turns yomichan-style dictionary banks into the entries the
// dictionary cache stores.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/jiten/pkg/conjugate"
	"github.com/japaniel/jiten/pkg/dictionary"
	"github.com/japaniel/jiten/pkg/kana"
)

// Builder composes entries from parsed sources.
type Builder struct {
	Logger *log.Logger
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}

// Rebuild discovers the sources under resourcesDir, builds every entry and
// writes the cache to cachePath.
func (b *Builder) Rebuild(ctx context.Context, resourcesDir, cachePath string) ([]dictionary.Entry, error) {
	src, err := DiscoverSources(resourcesDir)
	if err != nil {
		return nil, err
	}
	entries, err := b.Build(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := dictionary.SaveCache(cachePath, entries); err != nil {
		return nil, err
	}
	b.logf("wrote %d entries to %s", len(entries), cachePath)
	return entries, nil
}

// Build parses src and returns words, names, kanji and radicals in that order.
func (b *Builder) Build(ctx context.Context, src Sources) ([]dictionary.Entry, error) {
	d, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	b.logf("parsed %d word rows, %d name rows, %d kanji, %d radicals",
		len(d.wordTerms), len(d.nameTerms), len(d.kanji), len(d.radk))

	tags := tagMap(d.tags)
	words, err := composeWords(d, tags)
	if err != nil {
		return nil, err
	}
	names, err := composeNames(d.nameTerms, tags)
	if err != nil {
		return nil, err
	}
	kanji, err := composeKanji(d)
	if err != nil {
		return nil, err
	}
	radicals := composeRadicals(d.radk)

	entries := make([]dictionary.Entry, 0, len(words)+len(names)+len(kanji)+len(radicals))
	entries = append(entries, words...)
	entries = append(entries, names...)
	entries = append(entries, kanji...)
	entries = append(entries, radicals...)
	b.logf("built %d words, %d names, %d kanji, %d radicals",
		len(words), len(names), len(kanji), len(radicals))
	return entries, nil
}

func tagMap(rows []tagRow) map[string]dictionary.Tag {
	m := make(map[string]dictionary.Tag, len(rows))
	for _, r := range rows {
		if _, ok := m[r.Name]; ok {
			continue
		}
		m[r.Name] = dictionary.Tag{Name: r.Name, Category: r.Category, Description: r.Notes}
	}
	return m
}

// resolveTags keeps the known tags among the space separated fields, first
// occurrence order.
func resolveTags(known map[string]dictionary.Tag, fields ...string) []dictionary.Tag {
	var out []dictionary.Tag
	seen := make(map[string]bool)
	for _, f := range fields {
		for _, name := range strings.Fields(f) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if t, ok := known[name]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}

func tagNames(tags []dictionary.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

// merged is every row sharing one (sequence, expression, reading).
type merged struct {
	first    termRow
	glossary []string
	tagText  []string
}

type termKey struct {
	sequence   uint32
	expression string
	reading    string
}

func mergeTerms(rows []termRow) []*merged {
	var order []*merged
	byKey := make(map[termKey]*merged)
	for _, r := range rows {
		k := termKey{r.Sequence, r.Expression, r.Reading}
		m, ok := byKey[k]
		if !ok {
			m = &merged{first: r}
			byKey[k] = m
			order = append(order, m)
		}
		m.glossary = append(m.glossary, r.Glossary...)
		m.tagText = append(m.tagText, r.DefinitionTags, r.Rules, r.TermTags)
	}
	return order
}

func romajiOf(reading, surface string) (string, error) {
	if reading == "" {
		reading = surface
	}
	r, err := kana.KanaToRomaji(reading)
	if err != nil {
		return "", fmt.Errorf("romaji for %s: %w", surface, err)
	}
	return r, nil
}

func composeWords(d *sourceData, tags map[string]dictionary.Tag) ([]dictionary.Entry, error) {
	freq := rankMap(d.wordFreq)
	pitches := pitchMap(d.pitch)

	var out []dictionary.Entry
	for _, m := range mergeTerms(d.wordTerms) {
		r := m.first
		resolved := resolveTags(tags, m.tagText...)
		romaji, err := romajiOf(r.Reading, r.Expression)
		if err != nil {
			return nil, err
		}
		forms, err := conjugate.Conjugate(r.Expression, r.Reading, tagNames(resolved))
		if err != nil {
			return nil, fmt.Errorf("conjugate %s (%d): %w", r.Expression, r.Sequence, err)
		}
		reading := r.Reading
		if reading == "" {
			reading = r.Expression
		}
		out = append(out, dictionary.NewWord(dictionary.Word{
			Vocabulary:   r.Expression,
			Reading:      r.Reading,
			Romaji:       romaji,
			Meanings:     m.glossary,
			Tags:         resolved,
			ID:           r.Sequence,
			Frequency:    freq[r.Expression],
			Pitches:      pitches[pitchKey{r.Expression, reading}],
			Conjugations: forms,
		}))
	}
	return out, nil
}

func composeNames(rows []termRow, tags map[string]dictionary.Tag) ([]dictionary.Entry, error) {
	var out []dictionary.Entry
	for _, m := range mergeTerms(rows) {
		r := m.first
		romaji, err := romajiOf(r.Reading, r.Expression)
		if err != nil {
			return nil, err
		}
		out = append(out, dictionary.NewName(dictionary.Name{
			Name:         r.Expression,
			Reading:      r.Reading,
			Romaji:       romaji,
			Translations: m.glossary,
			Tags:         resolveTags(tags, m.tagText...),
			ID:           r.Sequence,
		}))
	}
	return out, nil
}

type pitchKey struct {
	expression string
	reading    string
}

func pitchMap(rows []metaRow) map[pitchKey][]dictionary.Pitch {
	m := make(map[pitchKey][]dictionary.Pitch)
	for _, r := range rows {
		if r.Mode != "pitch" {
			continue
		}
		var p pitchData
		if err := json.Unmarshal(r.Data, &p); err != nil {
			continue
		}
		k := pitchKey{r.Expression, p.Reading}
		for _, pp := range p.Pitches {
			m[k] = append(m[k], dictionary.Pitch{Reading: p.Reading, Position: pp.Position, Tags: pp.Tags})
		}
	}
	return m
}

// Stats lifted out of the kanji bank into typed fields.
const (
	statStrokes = "strokes"
	statUCS     = "ucs"
	statJLPT    = "jlpt"
	statGrade   = "grade"
)

func composeKanji(d *sourceData) ([]dictionary.Entry, error) {
	freq := rankMap(d.kanjiFreq)
	tags := tagMap(d.kanjiTags)
	radicals := make(map[string][]string, len(d.krad))
	for _, r := range d.krad {
		radicals[r.Kanji] = r.Radicals
	}

	var out []dictionary.Entry
	for _, r := range d.kanji {
		c, size := utf8.DecodeRuneInString(r.Character)
		if c == utf8.RuneError || size != len(r.Character) {
			return nil, &ParseError{Ext: ".json", Path: "kanji bank", Err: fmt.Errorf("invalid kanji %q", r.Character)}
		}
		k := dictionary.Kanji{
			Kanji:     r.Character,
			OnYomi:    strings.Fields(r.OnYomi),
			KunYomi:   strings.Fields(r.KunYomi),
			Meanings:  r.Meanings,
			ID:        uint32(c),
			Frequency: freq[r.Character],
			Radicals:  radicals[r.Character],
			Tags:      resolveTags(tags, r.Tags),
		}
		for name, value := range r.Stats {
			switch name {
			case statStrokes:
				k.Strokes = atoi(value)
			case statJLPT:
				k.JLPT = atoi(value)
			case statGrade:
				k.Grade = atoi(value)
			case statUCS:
			default:
				if k.Attributes == nil {
					k.Attributes = make(map[string]string)
				}
				k.Attributes[name] = value
			}
		}
		out = append(out, dictionary.NewKanji(k))
	}
	return out, nil
}

// atoi reads the leading integer of a stat such as "12" or "8 (variant)".
func atoi(s string) int {
	f := strings.Fields(s)
	if len(f) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(f[0])
	return n
}

func composeRadicals(rows []radkRow) []dictionary.Entry {
	out := make([]dictionary.Entry, 0, len(rows))
	for _, r := range rows {
		var kanji []string
		for _, c := range r.Kanji {
			kanji = append(kanji, string(c))
		}
		out = append(out, dictionary.NewRadical(dictionary.Radical{
			Radical: r.Radical,
			Strokes: r.Strokes,
			Kanji:   slices.Compact(kanji),
		}))
	}
	return out
}
