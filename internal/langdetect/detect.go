// Package langdetect guesses the language of a single chat message. The
// result is a hint attached to outgoing requests, never a gate.
package langdetect

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Unknown is returned when nothing matches.
var Unknown = language.Und.String()

// script maps a Unicode range table to the language it signals. Order
// matters: Kana is checked before Han so Japanese is not read as Chinese.
type script struct {
	table *unicode.RangeTable
	lang  string
}

var scripts = []script{
	{unicode.Arabic, "ar"},
	{unicode.Hebrew, "he"},
	{unicode.Devanagari, "hi"},
	{unicode.Thai, "th"},
	{unicode.Hangul, "ko"},
	{unicode.Hiragana, "ja"},
	{unicode.Katakana, "ja"},
	{unicode.Han, "zh"},
	{unicode.Cyrillic, "ru"},
	{unicode.Greek, "el"},
}

// keywordSet holds greeting and question phrases for one language. Phrases
// are stored pre-tokenized and matched on whole words.
type keywordSet struct {
	lang    string
	phrases [][]string
}

var keywords = buildKeywords([]struct {
	lang    string
	phrases []string
}{
	{"de", []string{"hallo", "guten morgen", "guten tag", "guten abend", "servus", "moin", "danke", "wer ist", "was ist", "wie geht", "bitte"}},
	{"fr", []string{"bonjour", "bonsoir", "salut", "merci", "qui est", "qu'est-ce", "comment ça va", "s'il vous plaît"}},
	{"es", []string{"hola", "buenos días", "buenos dias", "buenas tardes", "buenas noches", "gracias", "quién es", "quien es", "qué es", "por favor"}},
	{"it", []string{"ciao", "buongiorno", "buonasera", "grazie", "chi è", "per favore"}},
	{"pt", []string{"olá", "ola", "bom dia", "boa tarde", "boa noite", "obrigado", "obrigada", "quem é"}},
	{"en", []string{"hello", "hi", "hey", "good morning", "good evening", "thanks", "thank you", "who is", "what is", "please"}},
})

func buildKeywords(in []struct {
	lang    string
	phrases []string
}) []keywordSet {
	out := make([]keywordSet, 0, len(in))
	for _, set := range in {
		ks := keywordSet{lang: set.lang}
		for _, p := range set.phrases {
			ks.phrases = append(ks.phrases, tokenize(p))
		}
		out = append(out, ks)
	}
	return out
}

// Detect returns a best-guess language tag for text. It is deterministic
// and linear in the length of text.
func Detect(text string) string {
	if lang := detectScript(text); lang != "" {
		return lang
	}
	if lang := detectKeywords(text); lang != "" {
		return lang
	}
	return Unknown
}

func detectScript(text string) string {
	var seen [16]bool
	for _, r := range text {
		if r < 0x0370 {
			continue
		}
		for i, s := range scripts {
			if !seen[i] && unicode.Is(s.table, r) {
				seen[i] = true
			}
		}
	}
	for i, s := range scripts {
		if seen[i] {
			return s.lang
		}
	}
	return ""
}

func detectKeywords(text string) string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return ""
	}
	for _, set := range keywords {
		for _, phrase := range set.phrases {
			if containsPhrase(tokens, phrase) {
				return set.lang
			}
		}
	}
	return ""
}

// tokenize lowercases text and splits it into words. Apostrophes and
// hyphens stay inside words so "qu'est-ce" is one token.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' || r == '’')
	})
}

func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		for j, w := range phrase {
			if tokens[i+j] != w {
				continue outer
			}
		}
		return true
	}
	return false
}
