// Package conjugate enumerates the inflected surface forms of Japanese verbs
// and i-adjectives from static rule tables.
package conjugate

import "strings"

// Feature is a grammatical feature of a conjugated form.
type Feature uint8

const (
	Causative Feature = iota + 1
	Conditional
	Desire
	Imperative
	Negative
	Passive
	Past
	Plain
	Polite
	Potential
	Short
	TeForm
	Volitional
	ProvisionalConditional
	Adverbial
)

var featureNames = map[Feature]string{
	Causative:              "Causative",
	Conditional:            "Conditional",
	Desire:                 "Desire",
	Imperative:             "Imperative",
	Negative:               "Negative",
	Passive:                "Passive",
	Past:                   "Past",
	Plain:                  "Plain",
	Polite:                 "Polite",
	Potential:              "Potential",
	Short:                  "Short",
	TeForm:                 "TeForm",
	Volitional:             "Volitional",
	ProvisionalConditional: "ProvisionalConditional",
	Adverbial:              "Adverbial",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Form is one conjugated surface. Kanji is derived from the lemma as written,
// Kana from its reading.
type Form struct {
	Kanji    string
	Kana     string
	Features []Feature
}

// Has reports whether the form carries every feature given.
func (f Form) Has(features ...Feature) bool {
	for _, want := range features {
		found := false
		for _, got := range f.Features {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Is reports whether the form carries exactly the given features.
func (f Form) Is(features ...Feature) bool {
	return len(f.Features) == len(features) && f.Has(features...)
}

// Label joins the feature names, e.g. "Causative Passive Past Negative".
func (f Form) Label() string {
	names := make([]string, 0, len(f.Features))
	for _, feat := range f.Features {
		if feat == Plain {
			continue
		}
		names = append(names, feat.String())
	}
	if len(names) == 0 {
		return Plain.String()
	}
	return strings.Join(names, " ")
}
