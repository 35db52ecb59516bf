package build

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Sources lists the input files of a build, grouped by role.
type Sources struct {
	WordTerms  []string
	WordTags   []string
	NameTerms  []string
	NameTags   []string
	KanjiBanks []string
	KanjiTags  []string
	PitchMeta  []string
	PitchTags  []string
	WordFreq   []string
	KanjiFreq  []string
	Krad       []string
	Radk       []string
}

// DiscoverSources globs the resource layout under dir. Every group is
// sorted so builds are reproducible.
func DiscoverSources(dir string) (Sources, error) {
	var src Sources
	groups := []struct {
		dst      *[]string
		patterns []string
	}{
		{&src.WordTerms, []string{"jmdict_english/term_bank_*.json"}},
		{&src.WordTags, []string{"jmdict_english/tag_bank_*.json"}},
		{&src.NameTerms, []string{"jmnedict/term_bank_*.json"}},
		{&src.NameTags, []string{"jmnedict/tag_bank_*.json"}},
		{&src.KanjiBanks, []string{"kanjidic_english/kanji_bank_*.json"}},
		{&src.KanjiTags, []string{"kanjidic_english/tag_bank_*.json"}},
		{&src.PitchMeta, []string{"kanjium_pitch_accents/term_meta_bank_*.json"}},
		{&src.PitchTags, []string{"kanjium_pitch_accents/tag_bank_*.json"}},
		{&src.WordFreq, []string{"innocent_corpus/term_meta_bank_*.json", "frequency/*.tsv"}},
		{&src.KanjiFreq, []string{"innocent_corpus/kanji_meta_bank_*.json"}},
		{&src.Krad, []string{"radicals/kradfile.json"}},
		{&src.Radk, []string{"radicals/radkfilex.json"}},
	}
	for _, g := range groups {
		for _, p := range g.patterns {
			matches, err := filepath.Glob(filepath.Join(dir, p))
			if err != nil {
				return Sources{}, fmt.Errorf("glob %s: %w", p, err)
			}
			sortNatural(matches)
			*g.dst = append(*g.dst, matches...)
		}
	}
	if len(src.WordTerms) == 0 {
		return Sources{}, &ParseError{Ext: ".json", Path: filepath.Join(dir, "jmdict_english"), Err: ErrMissingSource}
	}
	return src, nil
}

// sortNatural orders term_bank_2 before term_bank_10.
func sortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
}
