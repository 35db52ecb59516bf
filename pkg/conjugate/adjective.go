package conjugate

// adjectiveForm holds the endings of one adjective form. ix is used by adj-ix
// words whose penultimate character is い (いい, かっこいい), which replace two
// characters instead of one.
type adjectiveForm struct {
	features []Feature
	i        string
	ix       string
}

var adjectiveForms = []adjectiveForm{
	{features: []Feature{Negative}, i: "くない", ix: "よくない"},
	{features: []Feature{Past}, i: "かった", ix: "よかった"},
	{features: []Feature{TeForm}, i: "くて", ix: "よくて"},
	{features: []Feature{Adverbial}, i: "く", ix: "よく"},
	{features: []Feature{Past, Negative}, i: "くなかった", ix: "よくなかった"},
}

func (a adjectiveForm) apply(word, category string) (string, error) {
	runes := []rune(word)
	if category == "adj-ix" && len(runes) >= 2 && runes[len(runes)-2] == 'い' {
		return inflect(word, rule{a.ix, 2})
	}
	return inflect(word, rule{a.i, 1})
}

func conjugateAdjective(lemma, reading, category string) ([]Form, error) {
	forms := make([]Form, 0, len(adjectiveForms))
	for _, a := range adjectiveForms {
		kanji, err := a.apply(lemma, category)
		if err != nil {
			return nil, err
		}
		kanaForm, err := a.apply(reading, category)
		if err != nil {
			return nil, err
		}
		forms = append(forms, Form{Kanji: kanji, Kana: kanaForm, Features: a.features})
	}
	return forms, nil
}
