// internal/intake/textmatch/normalize.go
package textmatch

import (
	"strings"
	"unicode"
)

// Stopwords are dropped during tokenization. The list mixes Turkish and English
// because tenant field labels and customer messages mix scripts freely.
var stopwords = map[string]struct{}{
	"ve":      {},
	"ile":     {},
	"için":    {},
	"icin":    {},
	"bir":     {},
	"bu":      {},
	"şu":      {},
	"ama":     {},
	"veya":    {},
	"gibi":    {},
	"daha":    {},
	"çok":     {},
	"cok":     {},
	"tercih":  {},
	"tercihi": {},
	"bilgi":   {},
	"bilgisi": {},
	"durum":   {},
	"durumu":  {},
	"the":     {},
	"and":     {},
	"for":     {},
	"with":    {},
	"your":    {},
	"this":    {},
	"that":    {},
	"are":     {},
	"info":    {},
	"about":   {},
}

// Punctuation kept through normalization. Currency, email and phone artifacts
// must survive so the category signal regexes can see them.
const keptPunctuation = "@$.₺:+-"

// NormalizeText lowercases, folds the Turkish dotless ı to i, strips
// punctuation except @ $ . ₺ : + - and collapses whitespace.
func NormalizeText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// İ lowercases to "i" plus a combining dot in the standard library, so
	// fold it before ToLower.
	s = strings.ReplaceAll(s, "İ", "i")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ı", "i")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(keptPunctuation, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes and splits on whitespace, dropping stopwords and tokens
// shorter than 3 runes. Short filler tokens cause false-positive field matches.
func Tokenize(s string) []string {
	fields := strings.Fields(NormalizeText(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, keptPunctuation)
		if len([]rune(f)) < 3 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// fuzzyOverlap reports whether one normalized token contains the other.
// Both sides must be at least 3 runes so that fragments like "al" cannot
// bridge unrelated words.
func fuzzyOverlap(a, b string) bool {
	if len([]rune(a)) < 3 || len([]rune(b)) < 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func containsAny(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}
