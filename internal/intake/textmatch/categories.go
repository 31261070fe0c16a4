// internal/intake/textmatch/categories.go
package textmatch

import "strings"

// Category is one of the fixed semantic buckets used to match tenant-supplied
// field labels against free-text messages. The taxonomy is closed; the field
// labels it classifies are not.
type Category string

const (
	CategoryBudget    Category = "budget"
	CategoryTimeline  Category = "timeline"
	CategoryUrgency   Category = "urgency"
	CategoryContact   Category = "contact"
	CategoryService   Category = "service"
	CategoryFrequency Category = "frequency"
	CategoryLevel     Category = "level"
	CategoryGoal      Category = "goal"
)

// AllCategories lists the taxonomy in a stable order.
var AllCategories = []Category{
	CategoryBudget,
	CategoryTimeline,
	CategoryUrgency,
	CategoryContact,
	CategoryService,
	CategoryFrequency,
	CategoryLevel,
	CategoryGoal,
}

// categoryTriggers maps a category to the normalized trigger words checked
// against field-label tokens. A fuzzy overlap (substring either direction)
// with any trigger attaches the category to the field's matcher. Diacritic and
// ASCII-folded spellings are both listed because labels arrive in either form.
var categoryTriggers = map[Category][]string{
	CategoryBudget:    {"bütçe", "butce", "fiyat", "ücret", "ucret", "maliyet", "ödeme", "odeme", "budget", "price", "cost", "payment"},
	CategoryTimeline:  {"zaman", "tarih", "takvim", "başlangiç", "baslangic", "süre", "sure", "timeline", "date", "schedule", "start"},
	CategoryUrgency:   {"aciliyet", "acil", "öncelik", "oncelik", "urgency", "urgent", "priority"},
	CategoryContact:   {"iletişim", "iletisim", "telefon", "eposta", "e-posta", "mail", "email", "whatsapp", "contact", "phone"},
	CategoryService:   {"hizmet", "servis", "ders", "kurs", "paket", "program", "service", "lesson", "course", "class"},
	CategoryFrequency: {"siklik", "sıklık", "siklig", "sikliğ", "frekans", "frequency", "often", "kez", "seans"},
	CategoryLevel:     {"seviye", "düzey", "duzey", "level", "deneyim", "experience"},
	CategoryGoal:      {"hedef", "amaç", "amac", "goal", "aim", "objective", "motivasyon"},
}

// categoryKeywords maps a category to the keyword set merged into a matcher
// when the category is attached. This widens literal label matching toward the
// vocabulary customers actually use ("8000 TL" for a "Bütçe" field).
var categoryKeywords = map[Category][]string{
	CategoryBudget:    {"bütçe", "butce", "fiyat", "ücret", "ucret", "maliyet", "ödeme", "odeme", "lira", "dolar", "euro", "budget", "price", "cost", "afford"},
	CategoryTimeline:  {"zaman", "tarih", "takvim", "hafta", "gelecek", "yarin", "bugün", "bugun", "başlamak", "baslamak", "timeline", "schedule", "tomorrow", "week", "month"},
	CategoryUrgency:   {"acil", "acele", "ivedi", "hemen", "urgent", "asap"},
	CategoryContact:   {"iletişim", "iletisim", "telefon", "eposta", "e-posta", "mail", "email", "whatsapp", "numara", "arama", "sms", "contact", "phone", "call"},
	CategoryService:   {"hizmet", "servis", "ders", "kurs", "paket", "program", "özel", "ozel", "grup", "online", "service", "lesson", "course", "class"},
	CategoryFrequency: {"siklik", "sıklık", "haftada", "ayda", "günde", "gunde", "kez", "kere", "defa", "seans", "weekly", "daily", "monthly", "times", "session"},
	CategoryLevel:     {"seviye", "düzey", "duzey", "başlangiç", "baslangic", "temel", "orta", "ileri", "level", "beginner", "intermediate", "advanced"},
	CategoryGoal:      {"hedef", "amaç", "amac", "sinav", "kariyer", "konuşma", "konusma", "goal", "aim", "exam", "career", "fluency"},
}

// FieldMatcher is derived from one tenant-configured required-field label.
// It has no lifecycle of its own; build one per analysis call.
type FieldMatcher struct {
	Label      string
	Tokens     []string
	Categories []Category
	Keywords   []string
}

// BuildFieldMatcher tokenizes the label and attaches every category whose
// trigger words fuzzily overlap any label token, merging that category's
// keyword list into the matcher. A field can land in zero, one, or several
// categories.
func BuildFieldMatcher(label string) FieldMatcher {
	tokens := Tokenize(label)

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	addKeyword := func(kw string) {
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	for _, t := range tokens {
		addKeyword(t)
	}

	var categories []Category
	for _, cat := range AllCategories {
		if !anyTokenTriggers(tokens, categoryTriggers[cat]) {
			continue
		}
		categories = append(categories, cat)
		for _, kw := range categoryKeywords[cat] {
			addKeyword(kw)
		}
	}

	return FieldMatcher{
		Label:      label,
		Tokens:     tokens,
		Categories: categories,
		Keywords:   keywords,
	}
}

func anyTokenTriggers(tokens []string, triggers []string) bool {
	for _, t := range tokens {
		for _, trig := range triggers {
			if fuzzyOverlap(t, trig) {
				return true
			}
		}
	}
	return false
}

// HasCategory reports whether the matcher carries the given category.
func (m FieldMatcher) HasCategory(c Category) bool {
	for _, cat := range m.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// ContactOnly reports whether contact is the matcher's single category.
// Used for channel-implied auto-credit (a WhatsApp conversation already
// proves the contact method).
func (m FieldMatcher) ContactOnly() bool {
	return len(m.Categories) == 1 && m.Categories[0] == CategoryContact
}

// MatchesText reports a direct keyword hit in the text: a multi-word keyword
// contained in the normalized text, or a fuzzy overlap between any text token
// and any matcher keyword.
func (m FieldMatcher) MatchesText(text string) bool {
	normalized := NormalizeText(text)
	if normalized == "" {
		return false
	}
	tokens := Tokenize(text)
	for _, kw := range m.Keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(normalized, kw) {
				return true
			}
			continue
		}
		for _, t := range tokens {
			if fuzzyOverlap(t, kw) {
				return true
			}
		}
	}
	return false
}

// MatchesCustomerAnswer reports whether customer text satisfies the field:
// either a direct keyword hit or a positive signal for any of the matcher's
// categories ("8000 TL" fulfills a budget field with no shared keyword).
func (m FieldMatcher) MatchesCustomerAnswer(text string) bool {
	if m.MatchesText(text) {
		return true
	}
	for _, cat := range m.Categories {
		if HasCategorySignal(cat, text) {
			return true
		}
	}
	return false
}
