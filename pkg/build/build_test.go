package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/jiten/pkg/conjugate"
	"github.com/japaniel/jiten/pkg/dictionary"
)

var fixture = map[string]string{
	"jmdict_english/term_bank_1.json": `[
		["食べる","たべる","v1 vt","v1",100,["to eat"],1358280,"P"],
		["食べる","たべる","","v1",90,["to live on"],1358280,""],
		["さようなら","","int","",1,["goodbye"],1357610,""],
		["高い","たかい","adj-i","adj-i",1,[{"type":"text","text":"high"},{"type":"structured-content","content":[]}],1000,""]
	]`,
	"jmdict_english/term_bank_2.json":  `[]`,
	"jmdict_english/term_bank_10.json": `[["今日","きょう","n","",1,["today"],1579110,""]]`,
	"jmdict_english/tag_bank_1.json": `[
		["v1","partOfSpeech",-3,"Ichidan verb",0],
		["vt","partOfSpeech",-3,"transitive verb",0],
		["adj-i","partOfSpeech",-3,"adjective (keiyoushi)",0],
		["P","popular",-10,"popular term",10],
		["n","partOfSpeech",-3,"noun",0]
	]`,
	"jmnedict/term_bank_1.json": `[["東京","とうきょう","place","",0,["Tokyo"],5000000,""]]`,
	"jmnedict/tag_bank_1.json":  `[["place","name",0,"place name",0]]`,
	"kanjidic_english/kanji_bank_1.json": `[
		["食","ショク ジキ","く.う た.べる","jouyou",["eat","food"],
		 {"strokes":"9","grade":"2","jlpt":"4","freq":"328","ucs":"98df","skip":"2-2-7"}]
	]`,
	"kanjidic_english/tag_bank_1.json":            `[["jouyou","misc",0,"regular-use character",0]]`,
	"kanjium_pitch_accents/term_meta_bank_1.json": `[["食べる","pitch",{"reading":"たべる","pitches":[{"position":2}]}]]`,
	"innocent_corpus/term_meta_bank_1.json":       `[["食べる","freq",250],["今日","freq",{"value":49}],["今日","freq",70]]`,
	"innocent_corpus/kanji_meta_bank_1.json":      `[["食","freq",328]]`,
	"frequency/extra.tsv":                         "さようなら\tx\t5000\n",
	"radicals/kradfile.json":                      `[{"kanji":"食","radicals":["人","良"]}]`,
	"radicals/radkfilex.json":                     `[{"radical":"人","strokes":2,"kanji":"今食"}]`,
}

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func withFile(name, content string) map[string]string {
	m := make(map[string]string, len(fixture)+1)
	for k, v := range fixture {
		m[k] = v
	}
	m[name] = content
	return m
}

func buildFixture(t *testing.T, files map[string]string) []dictionary.Entry {
	t.Helper()
	src, err := DiscoverSources(writeFixture(t, files))
	require.NoError(t, err)
	entries, err := (&Builder{}).Build(context.Background(), src)
	require.NoError(t, err)
	return entries
}

func byKind(entries []dictionary.Entry, k dictionary.Kind) []dictionary.Entry {
	var out []dictionary.Entry
	for _, e := range entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func TestDiscoverSources(t *testing.T) {
	src, err := DiscoverSources(writeFixture(t, fixture))
	require.NoError(t, err)

	var bases []string
	for _, p := range src.WordTerms {
		bases = append(bases, filepath.Base(p))
	}
	assert.Equal(t, []string{"term_bank_1.json", "term_bank_2.json", "term_bank_10.json"}, bases)
	require.Len(t, src.WordFreq, 2)
	assert.True(t, strings.HasSuffix(src.WordFreq[1], ".tsv"))
	assert.Len(t, src.Krad, 1)
	assert.Len(t, src.Radk, 1)
}

func TestDiscoverSourcesMissingTerms(t *testing.T) {
	_, err := DiscoverSources(t.TempDir())
	assert.True(t, errors.Is(err, ErrMissingSource))
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestBuildWords(t *testing.T) {
	entries := buildFixture(t, fixture)
	words := byKind(entries, dictionary.KindWord)
	require.Len(t, words, 4)
	assert.Equal(t, dictionary.KindWord, entries[0].Kind)

	eat := words[0].Word
	assert.Equal(t, "食べる", eat.Vocabulary)
	assert.Equal(t, []string{"to eat", "to live on"}, eat.Meanings)
	assert.Equal(t, "taberu", eat.Romaji)
	assert.Equal(t, uint32(1358280), eat.ID)
	assert.Equal(t, uint32(250), eat.Frequency)
	assert.Equal(t, []dictionary.Pitch{{Reading: "たべる", Position: 2}}, eat.Pitches)
	assert.Equal(t, []string{"v1", "vt", "P"}, tagNames(eat.Tags))
	assert.Equal(t, "Ichidan verb", eat.Tags[0].Description)

	var negative bool
	for _, f := range eat.Conjugations {
		if f.Is(conjugate.Negative) {
			assert.Equal(t, "食べない", f.Kanji)
			negative = true
		}
	}
	assert.True(t, negative)

	bye := words[1].Word
	assert.Equal(t, "sayounara", bye.Romaji)
	assert.Empty(t, bye.Tags, "int is not in the tag bank")
	assert.Empty(t, bye.Conjugations)
	assert.Equal(t, uint32(5000), bye.Frequency)

	high := words[2].Word
	assert.Equal(t, []string{"high"}, high.Meanings)
	assert.NotEmpty(t, high.Conjugations)

	today := words[3].Word
	assert.Equal(t, "今日", today.Vocabulary)
	assert.Equal(t, uint32(49), today.Frequency)
}

func TestBuildNamesKanjiRadicals(t *testing.T) {
	entries := buildFixture(t, fixture)
	require.Len(t, entries, 7)

	names := byKind(entries, dictionary.KindName)
	require.Len(t, names, 1)
	assert.Equal(t, "toukyou", names[0].Name.Romaji)
	assert.Equal(t, []string{"Tokyo"}, names[0].Name.Translations)
	assert.Equal(t, "place name", names[0].Name.Tags[0].Description)

	kanji := byKind(entries, dictionary.KindKanji)
	require.Len(t, kanji, 1)
	k := kanji[0].Kanji
	assert.Equal(t, uint32(0x98df), k.ID)
	assert.Equal(t, []string{"ショク", "ジキ"}, k.OnYomi)
	assert.Equal(t, []string{"く.う", "た.べる"}, k.KunYomi)
	assert.Equal(t, 9, k.Strokes)
	assert.Equal(t, 2, k.Grade)
	assert.Equal(t, 4, k.JLPT)
	assert.Equal(t, uint32(328), k.Frequency)
	assert.Equal(t, []string{"人", "良"}, k.Radicals)
	assert.Equal(t, map[string]string{"freq": "328", "skip": "2-2-7"}, k.Attributes)
	assert.Equal(t, "jouyou", k.Tags[0].Name)

	radicals := byKind(entries, dictionary.KindRadical)
	require.Len(t, radicals, 1)
	assert.Equal(t, dictionary.Radical{Radical: "人", Strokes: 2, Kanji: []string{"今", "食"}}, *radicals[0].Radical)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		check func(t *testing.T, err error)
	}{
		{
			name: "malformed json",
			file: "jmdict_english/term_bank_3.json",
			body: `[["broken"`,
			check: func(t *testing.T, err error) {
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, ".json", pe.Ext)
				assert.Contains(t, pe.Path, "term_bank_3.json")
			},
		},
		{
			name: "short row",
			file: "jmdict_english/term_bank_3.json",
			body: `[["語","ご"]]`,
			check: func(t *testing.T, err error) {
				var pe *ParseError
				assert.True(t, errors.As(err, &pe))
			},
		},
		{
			name: "bad frequency rank",
			file: "frequency/bad.tsv",
			body: "語\tten\n",
			check: func(t *testing.T, err error) {
				var pe *ParseError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, ".tsv", pe.Ext)
			},
		},
		{
			name: "reading outside the kana table",
			file: "jmdict_english/term_bank_3.json",
			body: `[["ABC","ABC","n","",0,["letters"],42,""]]`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "romaji for ABC")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := DiscoverSources(writeFixture(t, withFile(tt.file, tt.body)))
			require.NoError(t, err)
			_, err = (&Builder{}).Build(context.Background(), src)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParseFrequencyFileUnknownExtension(t *testing.T) {
	_, err := parseFrequencyFile("ranks.csv")
	assert.True(t, errors.Is(err, ErrUnknownExtension))
}

func TestParseFrequency(t *testing.T) {
	for raw, want := range map[string]uint32{
		`12`:                          12,
		`"7"`:                         7,
		`{"value":3,"displayValue":"3"}`: 3,
		`{"reading":"きょう","frequency":{"value":9}}`: 9,
		`{"reading":"きょう","frequency":11}`:          11,
	} {
		got, err := parseFrequency([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := parseFrequency([]byte(`{"reading":"きょう"}`))
	assert.Error(t, err)
}

func TestRebuildWritesCache(t *testing.T) {
	dir := writeFixture(t, fixture)
	cachePath := filepath.Join(t.TempDir(), "out", "dictionary.bin")

	built, err := (&Builder{}).Rebuild(context.Background(), dir, cachePath)
	require.NoError(t, err)

	d, err := dictionary.Load(cachePath)
	require.NoError(t, err)
	assert.Len(t, d.Entries(), len(built))

	res := d.Query("taberu")
	require.NotEmpty(t, res.Entries)
	assert.Equal(t, "食べる", res.Entries[0].Surface())
}

func TestBuildCancelled(t *testing.T) {
	src, err := DiscoverSources(writeFixture(t, fixture))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Builder{}).Build(ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
}
