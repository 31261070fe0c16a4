// internal/conversation/guard/patterns.go
package guard

import (
	"regexp"
	"strings"

	"leadchat-workers/internal/intake/textmatch"
)

// Pattern tables are package-level named constants so product policy can be
// audited and extended without touching the pipeline control flow. All entries
// are in normalized form (lowercase, dotless-ı folded); diacritic and ASCII
// spellings are listed side by side.

// EngagementQuestionPatterns match wrap-up/engagement questions the assistant
// tends to repeat ("anything else?", "ister misiniz?").
var EngagementQuestionPatterns = []string{
	"başka bir konuda", "baska bir konuda", "yardimci olabilir miyim", "yardimci olabileceğim", "yardimci olabilecegim",
	"ister misiniz", "ister misin", "başka sorunuz", "baska sorunuz", "devam edelim mi", "bilgi almak ister",
	"anything else", "is there anything", "would you like", "shall we continue", "can i help you with anything",
}

// StopContactPatterns match a customer telling us to stop reaching out.
var StopContactPatterns = []string{
	"beni aramayin", "bana ulaşmayin", "bana ulasmayin", "mesaj atmayin", "yazmayin", "rahatsiz etmeyin",
	"aramayi birakin", "bir daha aramayin",
	"stop contacting", "don t contact", "do not contact", "stop messaging", "leave me alone", "unsubscribe",
}

// ExternalRedirectPatterns match a reply that deflects the customer to a
// website or phone line instead of answering in-chat. Policy: the assistant
// never sends a customer off-channel.
var ExternalRedirectPatterns = []string{
	"web sitemizi", "web sitemizden", "websitemiz", "sitemizi ziyaret", "internet sitemiz",
	"çağri merkezi", "cagri merkezi", "müşteri hizmetlerini", "musteri hizmetlerini",
	"bizi arayin", "şu numaradan", "su numaradan", "numarayi arayin",
	"visit our website", "on our website", "call us at", "call our", "customer service line", "hotline",
}

// IntakeTopicKeywords identify question chunks that are intake questions
// (asking the customer for qualification information) rather than
// conversational questions.
var IntakeTopicKeywords = []string{
	"bütçe", "butce", "fiyat", "ücret", "ucret", "ödeme", "odeme",
	"iletişim", "iletisim", "telefon", "eposta", "e-posta", "email", "mail", "numara",
	"seviye", "düzey", "duzey", "hedef", "amaç", "amac",
	"siklik", "sikliğ", "siklig", "haftada", "kaç saat", "kac saat",
	"ne zaman", "hangi gün", "hangi gun", "tarih", "başlamak ister", "baslamak ister",
	"hizmet", "ders", "kurs", "paket", "budget", "contact", "phone", "level", "goal", "schedule", "how often",
}

// ReadyCuePatterns detect an existing "when you're ready" style closing so the
// loop breaker does not append a second one.
var ReadyCuePatterns = []string{
	"hazir olduğunuzda", "hazir oldugunuzda", "ne zaman isterseniz", "siz hazir olunca",
	"when you re ready", "whenever you re ready", "whenever you are ready",
}

// ParaphrasePair is one known TR↔EN boilerplate pair. The table is a targeted
// parity patch for generated boilerplate, not a translation mechanism: it is
// normalized before language splitting so the same sentence in the wrong
// language is not misread as mixed-language noise.
type ParaphrasePair struct {
	TR string
	EN string
}

var KnownParaphrasePairs = []ParaphrasePair{
	{TR: "Başka bir konuda yardımcı olabilir miyim?", EN: "Is there anything else I can help you with?"},
	{TR: "Size nasıl yardımcı olabilirim?", EN: "How can I help you today?"},
	{TR: "Dilerseniz görüşmeye buradan devam edebiliriz.", EN: "We can continue right here in the chat."},
	{TR: "Hazır olduğunuzda buradan devam edebiliriz.", EN: "Whenever you're ready, we can continue right here."},
}

// Fixed substitution sentences per response language. Guard stages that strip
// every chunk fall back to these; callers never see an empty reply.
var acknowledgmentByLanguage = map[string]string{
	"tr": "Anlayışınız için teşekkürler.",
	"en": "Understood, thank you.",
}

var continueHereByLanguage = map[string]string{
	"tr": "Dilerseniz görüşmeye buradan devam edebiliriz.",
	"en": "We can continue right here in the chat.",
}

var continueWhenReadyByLanguage = map[string]string{
	"tr": "Hazır olduğunuzda buradan devam edebiliriz.",
	"en": "Whenever you're ready, we can continue right here.",
}

var (
	chunkPattern       = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
	turkishDiacritics  = "çğöşüÇĞÖŞÜıİ"
	englishWordPattern = regexp.MustCompile(`\b(the|and|you|your|we|our|is|are|was|can|will|with|would|please|here|thanks|hello|ready|help)\b`)
)

// splitChunks breaks a response into sentence-like chunks, keeping trailing
// punctuation with each chunk. A dot between digits is a thousands separator,
// not a sentence boundary, so those fragments are glued back together.
func splitChunks(s string) []string {
	raw := chunkPattern.FindAllString(s, -1)
	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if n := len(chunks); n > 0 && startsWithDigit(c) && endsWithDigitDot(chunks[n-1]) {
			chunks[n-1] += c
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func endsWithDigitDot(s string) bool {
	if len(s) < 2 || s[len(s)-1] != '.' {
		return false
	}
	b := s[len(s)-2]
	return b >= '0' && b <= '9'
}

func joinChunks(chunks []string) string {
	return strings.Join(chunks, " ")
}

func matchesAnyPattern(text string, patterns []string) bool {
	n := textmatch.NormalizeText(text)
	if n == "" {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(n, p) {
			return true
		}
	}
	return false
}

func isEngagementChunk(chunk string) bool {
	return matchesAnyPattern(chunk, EngagementQuestionPatterns)
}

func isIntakeQuestionChunk(chunk string) bool {
	return textmatch.HasQuestionIntent(chunk) && matchesAnyPattern(chunk, IntakeTopicKeywords)
}

// detectChunkLanguage classifies one chunk as "tr", "en", or "" (ambiguous).
// Turkish diacritics are decisive; otherwise two English function words make
// the chunk English. Ambiguous chunks are deliberately kept by the language
// stage; dropping them would lose information.
func detectChunkLanguage(chunk string) string {
	if strings.ContainsAny(chunk, turkishDiacritics) {
		return "tr"
	}
	if len(englishWordPattern.FindAllString(strings.ToLower(chunk), -1)) >= 2 {
		return "en"
	}
	return ""
}

func normalizeLanguage(lang string) string {
	if lang == "en" {
		return "en"
	}
	return "tr"
}

func oppositeLanguage(lang string) string {
	if lang == "tr" {
		return "en"
	}
	return "tr"
}

func acknowledgment(lang string) string {
	return acknowledgmentByLanguage[normalizeLanguage(lang)]
}
