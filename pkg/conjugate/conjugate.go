package conjugate

import "slices"

// Conjugate returns every inflected form of a lemma. The category is the
// first verb tag among tags, or failing that the first adjective tag.
// Words without such a tag, and empty lemmas, have no forms.
// An empty reading falls back to the lemma for the kana surfaces.
func Conjugate(lemma, reading string, tags []string) ([]Form, error) {
	if lemma == "" || !hasInflectablePrefix(tags) {
		return nil, nil
	}
	if reading == "" {
		reading = lemma
	}
	if category, ok := firstOf(tags, VerbCategories); ok {
		return conjugateVerb(lemma, reading, category)
	}
	if category, ok := firstOf(tags, AdjectiveCategories); ok {
		return conjugateAdjective(lemma, reading, category)
	}
	return nil, nil
}

// Category returns the tag Conjugate would conjugate by, if any.
func Category(tags []string) (string, bool) {
	if category, ok := firstOf(tags, VerbCategories); ok {
		return category, true
	}
	return firstOf(tags, AdjectiveCategories)
}

func hasInflectablePrefix(tags []string) bool {
	for _, t := range tags {
		if t != "" && (t[0] == 'v' || t[0] == 'a') {
			return true
		}
	}
	return false
}

func firstOf(tags, known []string) (string, bool) {
	for _, t := range tags {
		if slices.Contains(known, t) {
			return t, true
		}
	}
	return "", false
}
