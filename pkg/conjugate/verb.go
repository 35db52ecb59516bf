package conjugate

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/japaniel/jiten/pkg/kana"
)

// ErrLemmaTooShort is returned when a rule strips more characters than the lemma has.
var ErrLemmaTooShort = errors.New("lemma too short for rule")

// recipe builds one form: base is applied with the lemma's own category,
// every primitive in then is applied to the result as an ichidan verb, and
// tail rewrites the final surface.
type recipe struct {
	features []Feature
	base     primitive
	then     []primitive
	tail     func(string) string
}

func appendSuffix(s string) func(string) string {
	return func(w string) string { return w + s }
}

// replaceFinal swaps the trailing adjectival い for s.
func replaceFinal(s string) func(string) string {
	return func(w string) string {
		_, size := utf8.DecodeLastRuneInString(w)
		return w[:len(w)-size] + s
	}
}

var (
	pastNegative = replaceFinal("かった")
	conditional  = appendSuffix("ら")
)

// verbForms is the complete verb enumeration, in output order.
var verbForms = []recipe{
	// plain
	{features: []Feature{Causative, Plain}, base: causative},
	{features: []Feature{Causative, Passive, Plain}, base: causative, then: []primitive{passive}},
	{features: []Feature{Causative, Short, Plain}, base: causativeShort},
	{features: []Feature{Conditional, Plain}, base: past, tail: conditional},
	{features: []Feature{Desire, Plain}, base: desire},
	{features: []Feature{Imperative, Plain}, base: imperative},
	{features: []Feature{Passive, Plain}, base: passive},
	{features: []Feature{Potential, Plain}, base: potential},
	{features: []Feature{ProvisionalConditional, Plain}, base: provisional},
	{features: []Feature{Volitional, Plain}, base: volitional},

	// negative
	{features: []Feature{Negative}, base: negative},
	{features: []Feature{Causative, Negative}, base: causative, then: []primitive{negative}},
	{features: []Feature{Causative, Passive, Negative}, base: causative, then: []primitive{passive, negative}},
	{features: []Feature{Conditional, Negative}, base: negative, tail: replaceFinal("かったら")},
	{features: []Feature{Desire, Negative}, base: desire, tail: replaceFinal("くない")},
	{features: []Feature{Imperative, Negative}, base: identity, tail: appendSuffix("な")},
	{features: []Feature{Passive, Negative}, base: passive, then: []primitive{negative}},
	{features: []Feature{Potential, Negative}, base: potential, then: []primitive{negative}},

	// past
	{features: []Feature{Past}, base: past},
	{features: []Feature{Causative, Past}, base: causative, then: []primitive{past}},
	{features: []Feature{Causative, Passive, Past}, base: causative, then: []primitive{passive, past}},
	{features: []Feature{Desire, Past}, base: desire, tail: replaceFinal("かった")},
	{features: []Feature{Passive, Past}, base: passive, then: []primitive{past}},
	{features: []Feature{Potential, Past}, base: potential, then: []primitive{past}},

	// past negative
	{features: []Feature{Past, Negative}, base: negative, tail: pastNegative},
	{features: []Feature{Causative, Past, Negative}, base: causative, then: []primitive{negative}, tail: pastNegative},
	{features: []Feature{Causative, Passive, Past, Negative}, base: causative, then: []primitive{passive, negative}, tail: pastNegative},
	{features: []Feature{Desire, Past, Negative}, base: desire, tail: replaceFinal("くなかった")},
	{features: []Feature{Passive, Past, Negative}, base: passive, then: []primitive{negative}, tail: pastNegative},
	{features: []Feature{Potential, Past, Negative}, base: potential, then: []primitive{negative}, tail: pastNegative},

	// te
	{features: []Feature{TeForm}, base: te},
	{features: []Feature{Causative, TeForm}, base: causative, then: []primitive{te}},
	{features: []Feature{Causative, Passive, TeForm}, base: causative, then: []primitive{passive, te}},
	{features: []Feature{Passive, TeForm}, base: passive, then: []primitive{te}},
	{features: []Feature{Potential, TeForm}, base: potential, then: []primitive{te}},

	// polite
	{features: []Feature{Polite}, base: masuStem, tail: appendSuffix("ます")},
	{features: []Feature{Causative, Polite}, base: causative, then: []primitive{masuStem}, tail: appendSuffix("ます")},
	{features: []Feature{Causative, Passive, Polite}, base: causative, then: []primitive{passive, masuStem}, tail: appendSuffix("ます")},
	{features: []Feature{Passive, Polite}, base: passive, then: []primitive{masuStem}, tail: appendSuffix("ます")},
	{features: []Feature{Potential, Polite}, base: potential, then: []primitive{masuStem}, tail: appendSuffix("ます")},
	{features: []Feature{Volitional, Polite}, base: masuStem, tail: appendSuffix("ましょう")},

	// polite negative
	{features: []Feature{Polite, Negative}, base: masuStem, tail: appendSuffix("ません")},
	{features: []Feature{Causative, Polite, Negative}, base: causative, then: []primitive{masuStem}, tail: appendSuffix("ません")},
	{features: []Feature{Causative, Passive, Polite, Negative}, base: causative, then: []primitive{passive, masuStem}, tail: appendSuffix("ません")},
	{features: []Feature{Passive, Polite, Negative}, base: passive, then: []primitive{masuStem}, tail: appendSuffix("ません")},
	{features: []Feature{Potential, Polite, Negative}, base: potential, then: []primitive{masuStem}, tail: appendSuffix("ません")},

	// polite past
	{features: []Feature{Polite, Past}, base: masuStem, tail: appendSuffix("ました")},
	{features: []Feature{Causative, Polite, Past}, base: causative, then: []primitive{masuStem}, tail: appendSuffix("ました")},
	{features: []Feature{Causative, Passive, Polite, Past}, base: causative, then: []primitive{passive, masuStem}, tail: appendSuffix("ました")},
	{features: []Feature{Passive, Polite, Past}, base: passive, then: []primitive{masuStem}, tail: appendSuffix("ました")},
	{features: []Feature{Potential, Polite, Past}, base: potential, then: []primitive{masuStem}, tail: appendSuffix("ました")},

	// polite te
	{features: []Feature{Polite, TeForm}, base: masuStem, tail: appendSuffix("まして")},
}

func (r recipe) apply(word, category string, reading bool) (string, error) {
	out, err := applyRule(r.base, word, category, reading)
	if err != nil {
		return "", err
	}
	// derived stems all end in る and conjugate as ichidan verbs
	for _, p := range r.then {
		if out, err = applyRule(p, out, "v1", false); err != nil {
			return "", err
		}
	}
	if r.tail != nil {
		out = r.tail(out)
	}
	return out, nil
}

// applyRule applies a single primitive. For vk the rule is written for くる;
// a kanji lemma such as 来る keeps its first character and only takes the
// okurigana part of the rule.
func applyRule(p primitive, word, category string, reading bool) (string, error) {
	if p == identity {
		return word, nil
	}
	r, ok := rules[p][category]
	if !ok {
		panic(fmt.Sprintf("conjugate: no %s rule for category %q", primitiveNames[p], category))
	}
	if category == "vk" && !reading && !kanaStem(word) {
		_, size := utf8.DecodeRuneInString(r.suffix)
		r = rule{suffix: r.suffix[size:], strip: r.strip - 1}
	}
	return inflect(word, r)
}

// kanaStem reports whether the character before the final る is kana.
func kanaStem(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 {
		return false
	}
	return kana.InHiraganaRange(runes[len(runes)-2])
}

func inflect(word string, r rule) (string, error) {
	runes := []rune(word)
	if len(runes) < r.strip {
		return "", fmt.Errorf("%w: %q strips %d", ErrLemmaTooShort, word, r.strip)
	}
	return string(runes[:len(runes)-r.strip]) + r.suffix, nil
}

func conjugateVerb(lemma, reading, category string) ([]Form, error) {
	forms := make([]Form, 0, len(verbForms))
	for _, r := range verbForms {
		kanji, err := r.apply(lemma, category, false)
		if err != nil {
			return nil, err
		}
		kanaForm, err := r.apply(reading, category, true)
		if err != nil {
			return nil, err
		}
		forms = append(forms, Form{Kanji: kanji, Kana: kanaForm, Features: r.features})
	}
	return forms, nil
}
