// Package kana converts between romaji, hiragana and katakana.
package kana

import (
	"fmt"
	"regexp"
	"strings"
)

// NotConvertibleError is returned when a word cannot be transliterated.
// Callers treat it as "no conversion available" rather than a failure.
type NotConvertibleError struct {
	Word string
}

func (e *NotConvertibleError) Error() string {
	return fmt.Sprintf("%s is not convertible", e.Word)
}

// UnknownCharacterError reports a character missing from the kana table.
type UnknownCharacterError struct {
	Char rune
	Word string
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("unknown character %q in word: %s", e.Char, e.Word)
}

var (
	romajiAlphabet = regexp.MustCompile(`^[a-pr-z\-']*$`)
	contraction    = regexp.MustCompile(`([bcdfghjkmnprstvz])i-|([fv])u-`)
	gemination     = regexp.MustCompile(`\+([bcdfghjklmprstvwxyz])`)
	palatalized    = regexp.MustCompile(`(sh|ch|j)y`)
)

// KanaToRomaji transliterates hiragana and katakana to romaji.
// Every character must be present in the kana table.
func KanaToRomaji(word string) (string, error) {
	var b strings.Builder
	for _, c := range word {
		r, ok := kanaToRomaji[c]
		if !ok {
			return "", &UnknownCharacterError{Char: c, Word: word}
		}
		b.WriteString(r)
	}
	out := digraphs.Replace(b.String())
	out = contraction.ReplaceAllString(out, "${1}${2}")
	// a small ya/yu/yo that did not contract
	out = strings.ReplaceAll(out, "-y", "xy")
	out = gemination.ReplaceAllString(out, "${1}${1}")
	// shi/chi/ji contract to sh/ch/j before ya, yu, yo.
	out = palatalized.ReplaceAllString(out, "$1")
	out = syllabicN(out)
	// a small tsu with nothing to double keeps its explicit spelling
	out = strings.ReplaceAll(out, "+", "xtsu")
	return out, nil
}

// syllabicN spells the ン placeholder N as n, or as n' before a vowel, y or
// n so that it reads back as ン.
func syllabicN(s string) string {
	if !strings.Contains(s, "N") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != 'N' {
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte('n')
		if i+1 < len(s) && strings.IndexByte("aiueoynN", s[i+1]) >= 0 {
			b.WriteByte('\'')
		}
	}
	return b.String()
}

// MustKanaToRomaji is like KanaToRomaji but panics on unknown characters.
func MustKanaToRomaji(word string) string {
	out, err := KanaToRomaji(word)
	if err != nil {
		panic(err)
	}
	return out
}

// RomajiToKatakana converts a romaji word to katakana using a greedy longest match.
// At every position it tries, in order: a doubled consonant (small tsu), the two,
// three, one and four letter tables.
func RomajiToKatakana(word string) (string, error) {
	if !romajiAlphabet.MatchString(word) {
		return "", &NotConvertibleError{Word: word}
	}

	var b strings.Builder
	i := 0
	for i < len(word) {
		if i+1 < len(word) && word[i] == word[i+1] && soukun[word[i]] {
			b.WriteString(smallTsu)
			i++
			continue
		}
		if k, ok := lookup(twoLetterToKatakana, word, i, 2); ok {
			b.WriteString(k)
			i += 2
			continue
		}
		if k, ok := lookup(threeLetterToKatakana, word, i, 3); ok {
			b.WriteString(k)
			i += 3
			continue
		}
		if k, ok := lookup(oneLetterToKatakana, word, i, 1); ok {
			b.WriteString(k)
			i++
			continue
		}
		if k, ok := lookup(fourLetterToKatakana, word, i, 4); ok {
			b.WriteString(k)
			i += 4
			continue
		}
		return "", &NotConvertibleError{Word: word}
	}
	return b.String(), nil
}

func lookup(table map[string]string, word string, i, n int) (string, bool) {
	if i+n > len(word) {
		return "", false
	}
	k, ok := table[word[i:i+n]]
	return k, ok
}

// KatakanaToHiragana shifts every character down by the katakana offset.
// All characters must lie in U+3041..U+30FE.
func KatakanaToHiragana(word string) (string, error) {
	runes := []rune(word)
	for i, r := range runes {
		if !InHiraganaRange(r) {
			return "", &NotConvertibleError{Word: word}
		}
		runes[i] = r - katakanaOffset
	}
	return string(runes), nil
}

// RomajiToHiragana converts romaji to katakana, then to hiragana.
func RomajiToHiragana(word string) (string, error) {
	katakana, err := RomajiToKatakana(word)
	if err != nil {
		return "", err
	}
	return KatakanaToHiragana(katakana)
}

// InHiraganaRange reports whether r lies in the range handled by KatakanaToHiragana.
func InHiraganaRange(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

// IsKanji reports whether r is a Han ideograph.
func IsKanji(r rune) bool {
	return KanjiPattern.MatchString(string(r))
}

// KanjiIn returns every Han ideograph of s, in order, one string per character.
func KanjiIn(s string) []string {
	return KanjiPattern.FindAllString(s, -1)
}
