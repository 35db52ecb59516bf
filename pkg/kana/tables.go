package kana

import (
	"regexp"
	"strings"
)

const (
	// hiraganaFirst and hiraganaLast bound the range accepted by KatakanaToHiragana.
	hiraganaFirst = 0x3041
	hiraganaLast  = 0x30FE

	// katakanaOffset is the distance between a katakana and its hiragana counterpart.
	katakanaOffset = 0x60

	smallTsu = "ッ"
)

// KanjiPattern matches a single Han ideograph.
var KanjiPattern = regexp.MustCompile(`\p{Han}`)

// soukun lists the consonants that geminate when doubled (b c d f g h j k l m p r s t v w x y z).
var soukun = [256]bool{
	'b': true, 'c': true, 'd': true, 'f': true, 'g': true, 'h': true, 'j': true,
	'k': true, 'l': true, 'm': true, 'p': true, 'r': true, 's': true, 't': true,
	'v': true, 'w': true, 'x': true, 'y': true, 'z': true,
}

// kanaToRomaji maps every supported kana and Japanese punctuation mark to romaji.
// Small ya/yu/yo carry a leading hyphen that contracts with the preceding syllable,
// small tsu is "+" and doubles the following consonant. Other small kana use
// their x spelling. N stands for ン until KanaToRomaji decides whether it
// needs an apostrophe.
var kanaToRomaji = map[rune]string{
	// hiragana
	'ぁ': "xa", 'あ': "a", 'ぃ': "xi", 'い': "i", 'ぅ': "xu", 'う': "u", 'ぇ': "xe", 'え': "e", 'ぉ': "xo", 'お': "o",
	'か': "ka", 'が': "ga", 'き': "ki", 'ぎ': "gi", 'く': "ku", 'ぐ': "gu", 'け': "ke", 'げ': "ge", 'こ': "ko", 'ご': "go",
	'さ': "sa", 'ざ': "za", 'し': "shi", 'じ': "ji", 'す': "su", 'ず': "zu", 'せ': "se", 'ぜ': "ze", 'そ': "so", 'ぞ': "zo",
	'た': "ta", 'だ': "da", 'ち': "chi", 'ぢ': "di", 'っ': "+", 'つ': "tsu", 'づ': "du", 'て': "te", 'で': "de", 'と': "to", 'ど': "do",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ば': "ba", 'ぱ': "pa", 'ひ': "hi", 'び': "bi", 'ぴ': "pi", 'ふ': "fu", 'ぶ': "bu", 'ぷ': "pu",
	'へ': "he", 'べ': "be", 'ぺ': "pe", 'ほ': "ho", 'ぼ': "bo", 'ぽ': "po",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'ゃ': "-ya", 'や': "ya", 'ゅ': "-yu", 'ゆ': "yu", 'ょ': "-yo", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'ゎ': "xwa", 'わ': "wa", 'ゐ': "wi", 'ゑ': "we", 'を': "wo", 'ん': "N",
	'ゔ': "vu", 'ゕ': "xka", 'ゖ': "xke", 'ゝ': "", 'ゞ': "",

	// katakana
	'ァ': "xa", 'ア': "a", 'ィ': "xi", 'イ': "i", 'ゥ': "xu", 'ウ': "u", 'ェ': "xe", 'エ': "e", 'ォ': "xo", 'オ': "o",
	'カ': "ka", 'ガ': "ga", 'キ': "ki", 'ギ': "gi", 'ク': "ku", 'グ': "gu", 'ケ': "ke", 'ゲ': "ge", 'コ': "ko", 'ゴ': "go",
	'サ': "sa", 'ザ': "za", 'シ': "shi", 'ジ': "ji", 'ス': "su", 'ズ': "zu", 'セ': "se", 'ゼ': "ze", 'ソ': "so", 'ゾ': "zo",
	'タ': "ta", 'ダ': "da", 'チ': "chi", 'ヂ': "di", 'ッ': "+", 'ツ': "tsu", 'ヅ': "du", 'テ': "te", 'デ': "de", 'ト': "to", 'ド': "do",
	'ナ': "na", 'ニ': "ni", 'ヌ': "nu", 'ネ': "ne", 'ノ': "no",
	'ハ': "ha", 'バ': "ba", 'パ': "pa", 'ヒ': "hi", 'ビ': "bi", 'ピ': "pi", 'フ': "fu", 'ブ': "bu", 'プ': "pu",
	'ヘ': "he", 'ベ': "be", 'ペ': "pe", 'ホ': "ho", 'ボ': "bo", 'ポ': "po",
	'マ': "ma", 'ミ': "mi", 'ム': "mu", 'メ': "me", 'モ': "mo",
	'ャ': "-ya", 'ヤ': "ya", 'ュ': "-yu", 'ユ': "yu", 'ョ': "-yo", 'ヨ': "yo",
	'ラ': "ra", 'リ': "ri", 'ル': "ru", 'レ': "re", 'ロ': "ro",
	'ヮ': "xwa", 'ワ': "wa", 'ヰ': "wi", 'ヱ': "we", 'ヲ': "wo", 'ン': "N",
	'ヴ': "vu", 'ヵ': "xka", 'ヶ': "xke", 'ヷ': "va", 'ヸ': "vi", 'ヹ': "ve", 'ヺ': "vo",
	'ー': "", 'ヽ': "", 'ヾ': "",

	// punctuation
	'・': " ", '、': ",", '。': ".", '　': " ", '「': "\"", '」': "\"", '『': "\"", '』': "\"",
	'！': "!", '？': "?", '〜': "~", '～': "~", '（': "(", '）': ")", '：': ":",
}

// digraphs rewrites x spellings of small vowels, and te/de before small
// ya/yu/yo, into the shorter syllables the romaji tables read back the same.
var digraphs = strings.NewReplacer(
	"te-y", "th", "de-y", "dh",
	"texi", "thi", "dexi", "dhi",
	"shixe", "she", "chixe", "che", "jixe", "je",
	"tsuxa", "tsa", "tsuxi", "tsi", "tsuxe", "tse", "tsuxo", "tso",
	"fuxa", "fa", "fuxi", "fi", "fuxe", "fe", "fuxo", "fo",
	"vuxa", "va", "vuxi", "vi", "vuxe", "ve", "vuxo", "vo",
)

var oneLetterToKatakana = map[string]string{
	"a": "ア", "i": "イ", "u": "ウ", "e": "エ", "o": "オ",
	"n": "ン", "-": "ー", "'": "",
}

var twoLetterToKatakana = map[string]string{
	"xa": "ァ", "xi": "ィ", "xu": "ゥ", "xe": "ェ", "xo": "ォ",
	"ka": "カ", "ki": "キ", "ku": "ク", "ke": "ケ", "ko": "コ",
	"ca": "カ", "cu": "ク", "co": "コ",
	"ga": "ガ", "gi": "ギ", "gu": "グ", "ge": "ゲ", "go": "ゴ",
	"sa": "サ", "si": "シ", "su": "ス", "se": "セ", "so": "ソ",
	"za": "ザ", "zi": "ジ", "zu": "ズ", "ze": "ゼ", "zo": "ゾ",
	"ja": "ジャ", "ji": "ジ", "ju": "ジュ", "je": "ジェ", "jo": "ジョ",
	"ta": "タ", "ti": "チ", "tu": "ツ", "te": "テ", "to": "ト",
	"da": "ダ", "di": "ヂ", "du": "ヅ", "de": "デ", "do": "ド",
	"na": "ナ", "ni": "ニ", "nu": "ヌ", "ne": "ネ", "no": "ノ",
	"ha": "ハ", "hi": "ヒ", "hu": "フ", "he": "ヘ", "ho": "ホ",
	"ba": "バ", "bi": "ビ", "bu": "ブ", "be": "ベ", "bo": "ボ",
	"pa": "パ", "pi": "ピ", "pu": "プ", "pe": "ペ", "po": "ポ",
	"va": "ヴァ", "vi": "ヴィ", "vu": "ヴ", "ve": "ヴェ", "vo": "ヴォ",
	"fa": "ファ", "fi": "フィ", "fu": "フ", "fe": "フェ", "fo": "フォ",
	"ma": "マ", "mi": "ミ", "mu": "ム", "me": "メ", "mo": "モ",
	"ya": "ヤ", "yi": "イ", "yu": "ユ", "ye": "イェ", "yo": "ヨ",
	"ra": "ラ", "ri": "リ", "ru": "ル", "re": "レ", "ro": "ロ",
	"la": "ラ", "li": "リ", "lu": "ル", "le": "レ", "lo": "ロ",
	"wa": "ワ", "wi": "ヰ", "wu": "ウ", "we": "ヱ", "wo": "ヲ",
	"nn": "ン",
}

var threeLetterToKatakana = map[string]string{
	"tsu": "ツ", "tsa": "ツァ", "tsi": "ツィ", "tse": "ツェ", "tso": "ツォ",
	"xtu": "ッ", "xka": "ヵ", "xke": "ヶ", "xwa": "ヮ", "xya": "ャ", "xyu": "ュ", "xyo": "ョ",
	"kya": "キャ", "kyi": "キィ", "kyu": "キュ", "kye": "キェ", "kyo": "キョ",
	"gya": "ギャ", "gyi": "ギィ", "gyu": "ギュ", "gye": "ギェ", "gyo": "ギョ",
	"sya": "シャ", "syi": "シィ", "syu": "シュ", "sye": "シェ", "syo": "ショ",
	"sha": "シャ", "shi": "シ", "shu": "シュ", "she": "シェ", "sho": "ショ",
	"zya": "ジャ", "zyi": "ジィ", "zyu": "ジュ", "zye": "ジェ", "zyo": "ジョ",
	"jya": "ジャ", "jyi": "ジィ", "jyu": "ジュ", "jye": "ジェ", "jyo": "ジョ",
	"tya": "チャ", "tyi": "チィ", "tyu": "チュ", "tye": "チェ", "tyo": "チョ",
	"cya": "チャ", "cyi": "チィ", "cyu": "チュ", "cye": "チェ", "cyo": "チョ",
	"cha": "チャ", "chi": "チ", "chu": "チュ", "che": "チェ", "cho": "チョ",
	"tha": "テャ", "thi": "ティ", "thu": "テュ", "the": "テェ", "tho": "テョ",
	"dya": "ヂャ", "dyi": "ヂィ", "dyu": "ヂュ", "dye": "ヂェ", "dyo": "ヂョ",
	"dha": "デャ", "dhi": "ディ", "dhu": "デュ", "dhe": "デェ", "dho": "デョ",
	"nya": "ニャ", "nyi": "ニィ", "nyu": "ニュ", "nye": "ニェ", "nyo": "ニョ",
	"hya": "ヒャ", "hyi": "ヒィ", "hyu": "ヒュ", "hye": "ヒェ", "hyo": "ヒョ",
	"bya": "ビャ", "byi": "ビィ", "byu": "ビュ", "bye": "ビェ", "byo": "ビョ",
	"pya": "ピャ", "pyi": "ピィ", "pyu": "ピュ", "pye": "ピェ", "pyo": "ピョ",
	"fya": "フャ", "fyu": "フュ", "fyo": "フョ", "vyu": "ヴュ",
	"mya": "ミャ", "myi": "ミィ", "myu": "ミュ", "mye": "ミェ", "myo": "ミョ",
	"rya": "リャ", "ryi": "リィ", "ryu": "リュ", "rye": "リェ", "ryo": "リョ",
	"lya": "リャ", "lyi": "リィ", "lyu": "リュ", "lye": "リェ", "lyo": "リョ",
}

var fourLetterToKatakana = map[string]string{
	"xtsu": smallTsu,
}
