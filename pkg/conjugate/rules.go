package conjugate

import "strings"

// primitive is a single inflection step with its own per-category rule table.
type primitive int

const (
	identity primitive = iota
	negative
	past
	te
	desire
	volitional
	imperative
	passive
	potential
	provisional
	causative
	masuStem
	causativeShort
	primitiveCount
)

var primitiveNames = [primitiveCount]string{
	identity:       "identity",
	negative:       "negative",
	past:           "past",
	te:             "te",
	desire:         "desire",
	volitional:     "volitional",
	imperative:     "imperative",
	passive:        "passive",
	potential:      "potential",
	provisional:    "provisional",
	causative:      "causative",
	masuStem:       "masu-stem",
	causativeShort: "causative-short",
}

// rule appends suffix after removing the last strip characters of a word.
type rule struct {
	suffix string
	strip  int
}

// table expands rows keyed by "|"-separated category lists.
func table(rows map[string]rule) map[string]rule {
	t := make(map[string]rule, len(rows)*2)
	for keys, r := range rows {
		for _, k := range strings.Split(keys, "|") {
			t[k] = r
		}
	}
	return t
}

// Rules for vk are written for the kana lemma くる; see applyRule for the kanji case.
var rules = [primitiveCount]map[string]rule{
	negative: table(map[string]rule{
		"v1|v1-s":   {"ない", 1},
		"v5b":       {"ばない", 1},
		"v5g":       {"がない", 1},
		"v5k|v5k-s": {"かない", 1},
		"v5m":       {"まない", 1},
		"v5n":       {"なない", 1},
		"v5r|v5aru": {"らない", 1},
		"v5r-i":     {"ない", 2},
		"v5s":       {"さない", 1},
		"v5t":       {"たない", 1},
		"v5u|v5u-s": {"わない", 1},
		"vk":        {"こない", 2},
		"vs-i|vs-s": {"しない", 2},
		"vz":        {"じない", 2},
	}),
	past: table(map[string]rule{
		"v1|v1-s":                       {"た", 1},
		"v5aru|v5k-s|v5r|v5r-i|v5t|v5u": {"った", 1},
		"v5b|v5m|v5n":                   {"んだ", 1},
		"v5g":                           {"いだ", 1},
		"v5k":                           {"いた", 1},
		"v5s":                           {"した", 1},
		"v5u-s":                         {"うた", 1},
		"vk":                            {"きた", 2},
		"vs-i|vs-s":                     {"した", 2},
		"vz":                            {"じた", 2},
	}),
	te: table(map[string]rule{
		"v1|v1-s":                       {"て", 1},
		"v5aru|v5k-s|v5r|v5r-i|v5t|v5u": {"って", 1},
		"v5b|v5m|v5n":                   {"んで", 1},
		"v5g":                           {"いで", 1},
		"v5k":                           {"いて", 1},
		"v5s":                           {"して", 1},
		"v5u-s":                         {"うて", 1},
		"vk":                            {"きて", 2},
		"vs-i|vs-s":                     {"して", 2},
		"vz":                            {"じて", 2},
	}),
	desire: table(map[string]rule{
		"v1|v1-s":         {"たい", 1},
		"v5aru|v5u|v5u-s": {"いたい", 1},
		"v5b":             {"びたい", 1},
		"v5g":             {"ぎたい", 1},
		"v5k|v5k-s":       {"きたい", 1},
		"v5m":             {"みたい", 1},
		"v5n":             {"にたい", 1},
		"v5r|v5r-i":       {"りたい", 1},
		"v5s":             {"したい", 1},
		"v5t":             {"ちたい", 1},
		"vk":              {"きたい", 2},
		"vs-i|vs-s":       {"したい", 2},
		"vz":              {"じたい", 2},
	}),
	volitional: table(map[string]rule{
		"v1|v1-s":         {"よう", 1},
		"v5aru|v5r|v5r-i": {"ろう", 1},
		"v5b":             {"ぼう", 1},
		"v5g":             {"ごう", 1},
		"v5k|v5k-s":       {"こう", 1},
		"v5m":             {"もう", 1},
		"v5n":             {"のう", 1},
		"v5s":             {"そう", 1},
		"v5t":             {"とう", 1},
		"v5u|v5u-s":       {"おう", 1},
		"vk":              {"こよう", 2},
		"vs-i|vs-s":       {"しよう", 2},
		"vz":              {"じよう", 2},
	}),
	imperative: table(map[string]rule{
		"v1":        {"ろ", 1},
		"v1-s":      {"", 1},
		"v5aru":     {"い", 1},
		"v5b":       {"べ", 1},
		"v5g":       {"げ", 1},
		"v5k|v5k-s": {"け", 1},
		"v5m":       {"め", 1},
		"v5n":       {"ね", 1},
		"v5r|v5r-i": {"れ", 1},
		"v5s":       {"せ", 1},
		"v5t":       {"て", 1},
		"v5u|v5u-s": {"え", 1},
		"vk":        {"こい", 2},
		"vs-i|vs-s": {"しろ", 2},
		"vz":        {"じろ", 2},
	}),
	passive: table(map[string]rule{
		"v1|v1-s|v5aru|v5r|v5r-i": {"られる", 1},
		"v5b":                     {"ばれる", 1},
		"v5g":                     {"がれる", 1},
		"v5k|v5k-s":               {"かれる", 1},
		"v5m":                     {"まれる", 1},
		"v5n":                     {"なれる", 1},
		"v5s":                     {"される", 1},
		"v5t":                     {"たれる", 1},
		"v5u|v5u-s":               {"われる", 1},
		"vk":                      {"こられる", 2},
		"vs-i|vs-s":               {"される", 2},
		"vz":                      {"じられる", 2},
	}),
	potential: table(map[string]rule{
		"v1|v1-s":   {"られる", 1},
		"v5aru":     {"り得る", 1},
		"v5b":       {"べる", 1},
		"v5g":       {"げる", 1},
		"v5k|v5k-s": {"ける", 1},
		"v5m":       {"める", 1},
		"v5n":       {"ねる", 1},
		"v5r":       {"れる", 1},
		"v5r-i":     {"りえる", 1},
		"v5s":       {"せる", 1},
		"v5t":       {"てる", 1},
		"v5u|v5u-s": {"える", 1},
		"vk":        {"こられる", 2},
		"vs-i|vs-s": {"できる", 2},
		"vz":        {"じられる", 2},
	}),
	provisional: table(map[string]rule{
		"v1|v1-s|v5aru|v5r|v5r-i|vs-i|vs-s|vz": {"れば", 1},
		"v5b":                                  {"べば", 1},
		"v5g":                                  {"げば", 1},
		"v5k|v5k-s":                            {"けば", 1},
		"v5m":                                  {"めば", 1},
		"v5n":                                  {"ねば", 1},
		"v5s":                                  {"せば", 1},
		"v5t":                                  {"てば", 1},
		"v5u|v5u-s":                            {"えば", 1},
		"vk":                                   {"くれば", 2},
	}),
	causative: table(map[string]rule{
		"v1|v1-s|v5s":     {"させる", 1},
		"v5aru|v5r|v5r-i": {"らせる", 1},
		"v5b":             {"ばせる", 1},
		"v5g":             {"がせる", 1},
		"v5k|v5k-s":       {"かせる", 1},
		"v5m":             {"ませる", 1},
		"v5n":             {"なせる", 1},
		"v5t":             {"たせる", 1},
		"v5u|v5u-s":       {"わせる", 1},
		"vk":              {"こさせる", 2},
		"vs-i|vs-s":       {"させる", 2},
		"vz":              {"じさせる", 2},
	}),
	masuStem: table(map[string]rule{
		"v1|v1-s":         {"", 1},
		"v5aru|v5u|v5u-s": {"い", 1},
		"v5b":             {"び", 1},
		"v5g":             {"ぎ", 1},
		"v5k|v5k-s":       {"き", 1},
		"v5m":             {"み", 1},
		"v5n":             {"に", 1},
		"v5r|v5r-i":       {"り", 1},
		"v5s":             {"し", 1},
		"v5t":             {"ち", 1},
		"vk":              {"き", 2},
		"vs-i|vs-s":       {"し", 2},
		"vz":              {"じ", 2},
	}),
	causativeShort: table(map[string]rule{
		"v1|v1-s|v5s":     {"さす", 1},
		"v5aru|v5r|v5r-i": {"らす", 1},
		"v5b":             {"ばす", 1},
		"v5g":             {"がす", 1},
		"v5k|v5k-s":       {"かす", 1},
		"v5m":             {"ます", 1},
		"v5n":             {"なす", 1},
		"v5t":             {"たす", 1},
		"v5u|v5u-s":       {"わす", 1},
		"vk":              {"こさす", 2},
		"vs-i|vs-s":       {"さす", 2},
		"vz":              {"じさす", 2},
	}),
}

// VerbCategories lists the verb tags with conjugation rules.
var VerbCategories = []string{
	"v1", "v1-s", "v5aru", "v5b", "v5g", "v5k", "v5k-s", "v5m", "v5n", "v5r",
	"v5r-i", "v5s", "v5t", "v5u", "v5u-s", "vk", "vs-i", "vs-s", "vz",
}

// AdjectiveCategories lists the adjective tags with conjugation rules.
var AdjectiveCategories = []string{"adj-i", "adj-ix"}
