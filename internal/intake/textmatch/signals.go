// internal/intake/textmatch/signals.go
package textmatch

import (
	"regexp"
	"strings"
)

// The signal batteries below run on normalized text (lowercased, dotless-ı
// folded, punctuation reduced to @ $ . ₺ : + -). Literal keyword match on a
// field label is too brittle on its own: "8000 TL" must satisfy a "Bütçe"
// field even though "TL" never appears in the label.

var (
	emailPattern      = regexp.MustCompile(`[a-z0-9.+_-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	trPhonePattern    = regexp.MustCompile(`(\+90[ -]?)?0?5\d{2}[ -]?\d{3}[ -]?\d{2}[ -]?\d{2}`)
	longDigitsPattern = regexp.MustCompile(`\+?\d{10,}`)

	currencyAmountPattern = regexp.MustCompile(`\d[\d.]* ?(tl|try|lira|₺|\$|usd|eur|euro|dolar)\b`)
	currencyPrefixPattern = regexp.MustCompile(`(₺|\$) ?\d`)
	roundAmountPattern    = regexp.MustCompile(`\d+ ?(bin|k)\b`)

	numericDatePattern = regexp.MustCompile(`\b\d{1,2}\.\d{1,2}(\.\d{2,4})?\b`)
	countPerPattern    = regexp.MustCompile(`\d+ ?(kez|kere|defa|seans|saat)\b`)

	cefrLevelPattern  = regexp.MustCompile(`\b[abc][12]\b`)
	levelWordPattern  = regexp.MustCompile(`\b(temel|orta|ileri|sifir|beginner|intermediate|advanced|elementary|fluent)\b`)
	questionWordRegex = regexp.MustCompile(`\b(misiniz|musunuz|müsünüz|müsün|misin|miyim|miyiz|nedir|nasil|hangi|kaç|kac|neden|what|which|when|how|who|why)\b`)
)

// budgetWords complement the currency regexes for answers that talk about
// money without naming an amount.
var budgetWords = []string{"bütçem", "bütçe", "butce", "fiyat", "ücret", "ucret", "maliyet", "ödeyebilirim", "odeyebilirim", "budget", "afford", "price"}

var timelineWords = []string{
	"hafta", "gelecek", "yarin", "bugün", "bugun", "önümüzdeki", "onumuzdeki", "ay içinde", "ay icinde", "ay sonunda",
	"pazartesi", "sali", "çarşamba", "carsamba", "perşembe", "persembe", "cuma", "cumartesi", "pazar",
	"ocak", "şubat", "subat", "mart", "nisan", "mayis", "haziran", "temmuz", "ağustos", "agustos", "eylül", "eylul", "ekim", "kasim", "aralik",
	"tomorrow", "today", "next week", "next month", "this week", "monday", "tuesday", "wednesday", "thursday", "friday",
}

// urgencyWords are assertive only. Prioritization vocabulary ("kritik",
// "öncelik", "critical") is deliberately absent: a customer asking which field
// matters more is posing a meta-question, not stating urgency.
var urgencyWords = []string{
	"acil", "acele", "ivedi", "bir an önce", "bir an once", "en kisa sürede", "en kisa surede",
	"hemen başla", "hemen basla", "vakit kaybetmeden", "acelesi yok", "acelem yok",
	"asap", "as soon as possible", "urgent", "immediately", "right away", "no rush",
}

var urgencyMetaWords = []string{"hangi", "öncelik", "oncelik", "kritik", "önemli", "onemli", "which", "critical", "prioritize", "matters"}

var contactWords = []string{"whatsapp", "telefon", "telefonla", "arayin", "arayabilirsiniz", "mail", "eposta", "e-posta", "email", "sms", "mesaj atabilirsiniz"}

var frequencyWords = []string{
	"haftada", "ayda", "günde", "gunde", "her gün", "her gun", "her hafta", "her ay", "gün aşiri", "gun asiri",
	"per week", "a week", "per month", "weekly", "daily", "monthly", "twice", "once a", "times",
}

var goalWords = []string{
	"hedef", "hedefim", "amaç", "amac", "amacim", "sinav", "ielts", "toefl", "yds", "kariyer",
	"konuşma pratiği", "konusma pratigi", "akici", "goal", "aim", "exam", "career", "fluency", "fluent",
}

// SoftDeflectionPatterns match refusal or uncertainty phrasing. A message that
// deflects must never be credited as fulfilling the field it mentions.
var SoftDeflectionPatterns = []string{
	"paylaşmak istemiyorum", "paylasmak istemiyorum", "paylaşmak istemem", "paylasmak istemem",
	"söylemek istemiyorum", "soylemek istemiyorum", "vermek istemiyorum", "belirtmek istemiyorum",
	"cevap vermek istemiyorum", "bilmiyorum", "emin değilim", "emin degilim", "karar vermedim",
	"fikrim yok", "geçelim", "gecelim", "boş ver", "bos ver", "sonra konuşalim", "sonra konusalim",
	"not sure", "no idea", "don t know", "dont know", "rather not", "prefer not", "skip that",
}

var greetingOpeners = []string{
	"merhaba", "selam", "hello", "hi", "hey", "iyi günler", "iyi gunler", "günaydin", "gunaydin",
	"iyi akşamlar", "iyi aksamlar", "teşekkür", "tesekkur", "thanks", "thank you", "tamam", "okay", "peki",
}

// HasBudgetSignal detects monetary amounts or budget vocabulary.
func HasBudgetSignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return currencyAmountPattern.MatchString(n) ||
		currencyPrefixPattern.MatchString(n) ||
		roundAmountPattern.MatchString(n) ||
		containsAny(n, budgetWords)
}

// HasTimelineSignal detects dates, weekdays, months and scheduling vocabulary.
func HasTimelineSignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return numericDatePattern.MatchString(n) || containsAny(n, timelineWords)
}

// HasUrgencySignal detects an asserted urgency value. A question about which
// field is more critical carries no urgency value and is rejected.
func HasUrgencySignal(text string) bool {
	n := NormalizeText(text)
	if n == "" || !containsAny(n, urgencyWords) {
		return false
	}
	if HasQuestionIntent(text) && containsAny(n, urgencyMetaWords) {
		return false
	}
	return true
}

// HasContactSignal detects an email address, a Turkish phone number, or an
// explicit contact-channel mention.
func HasContactSignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return emailPattern.MatchString(n) ||
		trPhonePattern.MatchString(n) ||
		longDigitsPattern.MatchString(n) ||
		containsAny(n, contactWords)
}

// HasFrequencySignal detects cadence vocabulary ("haftada 2", "twice a week").
func HasFrequencySignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return countPerPattern.MatchString(n) || containsAny(n, frequencyWords)
}

// HasLevelSignal detects proficiency statements, including CEFR codes.
func HasLevelSignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return cefrLevelPattern.MatchString(n) ||
		levelWordPattern.MatchString(n) ||
		containsAny(n, []string{"seviyem", "seviye", "düzey", "duzey", "my level"})
}

// HasGoalSignal detects motivation/objective vocabulary.
func HasGoalSignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return containsAny(n, goalWords)
}

// HasCategorySignal dispatches to the per-category detector. The service
// category has no detector: it is matched by keywords alone.
func HasCategorySignal(cat Category, text string) bool {
	switch cat {
	case CategoryBudget:
		return HasBudgetSignal(text)
	case CategoryTimeline:
		return HasTimelineSignal(text)
	case CategoryUrgency:
		return HasUrgencySignal(text)
	case CategoryContact:
		return HasContactSignal(text)
	case CategoryFrequency:
		return HasFrequencySignal(text)
	case CategoryLevel:
		return HasLevelSignal(text)
	case CategoryGoal:
		return HasGoalSignal(text)
	default:
		return false
	}
}

// HasQuestionIntent distinguishes "mentioned the topic" from "asked about it":
// a question mark or a Turkish/English interrogative marker.
func HasQuestionIntent(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	if questionWordRegex.MatchString(n) {
		return true
	}
	return containsAny(n, []string{"ne zaman", "could you", "can you", "would you", "rica etsem", "öğrenebilir miyim", "ogrenebilir miyim"})
}

// HasSoftDeflectionSignal reports refusal/uncertainty phrasing.
func HasSoftDeflectionSignal(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	return containsAny(n, SoftDeflectionPatterns)
}

// HasLikelyInformativeSemanticReply reports whether customer text looks like a
// substantive answer: any category signal, or a reply of at least four tokens
// that is neither a short question nor a greeting/filler opener. This is what
// lets a pending assistant question be credited even when the customer never
// repeats the field's keywords.
func HasLikelyInformativeSemanticReply(text string) bool {
	n := NormalizeText(text)
	if n == "" {
		return false
	}
	for _, cat := range AllCategories {
		if HasCategorySignal(cat, text) {
			return true
		}
	}
	tokens := Tokenize(text)
	if len(tokens) < 4 {
		return false
	}
	if HasQuestionIntent(text) && len(tokens) < 7 {
		return false
	}
	for _, opener := range greetingOpeners {
		if strings.HasPrefix(n, opener) && len(tokens) <= 5 {
			return false
		}
	}
	return true
}
