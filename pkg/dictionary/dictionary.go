package dictionary

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/japaniel/jiten/pkg/kana"
)

// QueryCacheSize bounds the number of memoized query results.
const QueryCacheSize = 256

// Dictionary owns the loaded entries and one index per kind.
// It is immutable once built and safe for concurrent use.
type Dictionary struct {
	entries []Entry
	indexes map[Kind]*Index
	cache   *lru.Cache[string, QueryResult]
}

// New indexes entries. The slice must not be modified afterwards.
func New(entries []Entry) *Dictionary {
	d := &Dictionary{
		entries: entries,
		indexes: make(map[Kind]*Index, len(Kinds)),
	}
	for _, k := range Kinds {
		d.indexes[k] = NewIndex(entries, k)
	}
	d.cache, _ = lru.New[string, QueryResult](QueryCacheSize)
	return d
}

// Entries returns the backing entries.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Index returns the index for one kind.
func (d *Dictionary) Index(k Kind) *Index {
	return d.indexes[k]
}

// Stats counts entries per kind.
func (d *Dictionary) Stats() map[Kind]int {
	stats := make(map[Kind]int, len(Kinds))
	for i := range d.entries {
		stats[d.entries[i].Kind]++
	}
	return stats
}

var kindFlag = regexp.MustCompile(`#(kanji|word|name|radical)`)

const trimSet = " \t\n\r\v\f\"“”"

// ParseQuery normalizes a raw query with Fold, trims surrounding whitespace
// and quotes, and splits off its kind flags.
func ParseQuery(raw string) (string, []Kind) {
	q := strings.Trim(Fold(raw), trimSet)

	var kinds []Kind
	for _, m := range kindFlag.FindAllString(q, -1) {
		k, _ := ParseKind(m)
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	q = strings.Trim(kindFlag.ReplaceAllString(q, ""), trimSet)
	return q, kinds
}

// QueryResult is the answer to one query. Hiragana and Katakana hold the
// romaji conversion of Key when one exists; Converted reports whether it was
// used for the lookup. Entries are grouped word, kanji, name, radical and
// must not be modified.
type QueryResult struct {
	Key       string
	Kinds     []Kind
	Hiragana  string
	Katakana  string
	Converted bool
	Entries   []*Entry
}

// Hint describes the alternative spelling of the query, if any.
func (r QueryResult) Hint() string {
	switch {
	case r.Converted:
		return fmt.Sprintf("Searched for %s, you can also search for \"%s\"", r.Hiragana, r.Key)
	case r.Hiragana != "":
		return fmt.Sprintf("You can also search for %s or %s", r.Hiragana, r.Katakana)
	}
	return ""
}

// Query looks up a raw user query. It never fails: unknown queries yield
// an empty result.
func (d *Dictionary) Query(raw string) QueryResult {
	if res, ok := d.cache.Get(raw); ok {
		return res
	}

	key, kinds := ParseQuery(raw)
	res := QueryResult{Key: key, Kinds: kinds}
	terms := []string{key}

	if key != "" {
		if kata, err := kana.RomajiToKatakana(key); err == nil {
			if hira, err := kana.KatakanaToHiragana(kata); err == nil {
				res.Hiragana, res.Katakana = hira, kata
				if d.worthConverting(key, hira, kata) {
					res.Converted = true
					terms = []string{hira, kata}
				}
			}
		}
	}

	res.Entries = d.lookup(terms, kinds)
	d.cache.Add(raw, res)
	return res
}

// worthConverting prefers the kana spelling only when it finds strictly more
// words, names and kanji than the query as typed.
func (d *Dictionary) worthConverting(original string, converted ...string) bool {
	var before, after int
	for _, k := range []Kind{KindWord, KindName, KindKanji} {
		before += d.indexes[k].Count(original)
		after += d.indexes[k].Count(converted...)
	}
	return after > before
}

// Lookup returns the entries of the given kinds filed under term exactly,
// grouped and ordered like Query results. No kinds means all kinds.
func (d *Dictionary) Lookup(term string, kinds ...Kind) []*Entry {
	return d.lookup([]string{term}, kinds)
}

func (d *Dictionary) lookup(terms []string, kinds []Kind) []*Entry {
	var out []*Entry
	for _, k := range Kinds {
		if len(kinds) > 0 && !slices.Contains(kinds, k) {
			continue
		}
		keys := terms
		if k == KindKanji {
			keys = kanjiTerms(terms)
		}
		found := d.indexes[k].GetAll(keys...)
		Sort(found)
		out = append(out, Dedupe(found)...)
	}
	return out
}

// kanjiTerms splits terms into their Han characters. Terms without any are
// kept whole so kanji stay searchable by meaning and reading.
func kanjiTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		if chars := kana.KanjiIn(t); len(chars) > 0 {
			out = append(out, chars...)
		} else {
			out = append(out, t)
		}
	}
	return out
}
