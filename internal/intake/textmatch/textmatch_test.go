// internal/intake/textmatch/textmatch_test.go
package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Normalization & Tokenization
// ==========================

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and collapses whitespace",
			input:    "  Merhaba   Dünya  ",
			expected: "merhaba dünya",
		},
		{
			name:     "folds dotless i",
			input:    "SIKLIK sıklık",
			expected: "siklik siklik",
		},
		{
			name:     "folds dotted capital i",
			input:    "İletişim",
			expected: "iletişim",
		},
		{
			name:     "strips punctuation but keeps currency and email characters",
			input:    "Bütçe: 8.000₺, yani $200! (yaklaşık)",
			expected: "bütçe: 8.000₺ yani $200 yaklaşik",
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "drops stopwords and short tokens",
			input:    "Ders ve sınav için bir tercih",
			expected: []string{"ders", "sinav"},
		},
		{
			name:     "keeps content words",
			input:    "Haftada iki ders istiyorum",
			expected: []string{"haftada", "iki", "ders", "istiyorum"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

// ==========================
// Field Matcher Construction
// ==========================

func TestBuildFieldMatcher_Categories(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		categories []Category
	}{
		{name: "budget label turkish", label: "Bütçe", categories: []Category{CategoryBudget}},
		{name: "budget label ascii", label: "Butce", categories: []Category{CategoryBudget}},
		{name: "contact label", label: "İletişim tercihi", categories: []Category{CategoryContact}},
		{name: "lesson frequency label spans two categories", label: "Ders sikligi", categories: []Category{CategoryService, CategoryFrequency}},
		{name: "level label english", label: "Current level", categories: []Category{CategoryLevel}},
		{name: "goal label", label: "Hedef", categories: []Category{CategoryGoal}},
		{name: "uncategorized label", label: "Referans kaynağı", categories: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildFieldMatcher(tt.label)
			assert.Equal(t, tt.categories, m.Categories)
		})
	}
}

func TestFieldMatcher_ContactOnly(t *testing.T) {
	assert.True(t, BuildFieldMatcher("İletişim tercihi").ContactOnly())
	assert.False(t, BuildFieldMatcher("Bütçe").ContactOnly())
	assert.False(t, BuildFieldMatcher("Ders sikligi").ContactOnly())
}

func TestFieldMatcher_MatchesCustomerAnswer(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		text    string
		matched bool
	}{
		{
			name:    "budget fulfilled by amount with currency only",
			label:   "Bütçe",
			text:    "Aylık 8000 TL ayırabilirim",
			matched: true,
		},
		{
			name:    "contact fulfilled by bare email",
			label:   "İletişim tercihi",
			text:    "ayse.yilmaz@example.com uygun olur",
			matched: true,
		},
		{
			name:    "direct keyword hit",
			label:   "Ders sikligi",
			text:    "Ders sıklığı haftada iki olsun",
			matched: true,
		},
		{
			name:    "unrelated text",
			label:   "Bütçe",
			text:    "Merhaba, nasılsınız?",
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildFieldMatcher(tt.label)
			assert.Equal(t, tt.matched, m.MatchesCustomerAnswer(tt.text))
		})
	}
}

// ==========================
// Signal Detectors
// ==========================

func TestHasContactSignal(t *testing.T) {
	assert.True(t, HasContactSignal("bana mehmet@ornek.com adresinden ulaşın"))
	assert.True(t, HasContactSignal("0532 123 45 67"))
	assert.True(t, HasContactSignal("WhatsApp üzerinden yazabilirsiniz"))
	assert.False(t, HasContactSignal("haftada iki ders"))
}

func TestHasBudgetSignal(t *testing.T) {
	assert.True(t, HasBudgetSignal("8000 TL düşünüyorum"))
	assert.True(t, HasBudgetSignal("around $200"))
	assert.True(t, HasBudgetSignal("bütçem kısıtlı"))
	assert.False(t, HasBudgetSignal("yarın görüşelim"))
}

func TestHasUrgencySignal(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "mixed urgency assertion still counts",
			text:     "Acelesi yok ama bir an once baslamak istiyorum",
			expected: true,
		},
		{
			name:     "plain urgency",
			text:     "Acil başlamam lazım",
			expected: true,
		},
		{
			name:     "meta prioritization question is not an urgency value",
			text:     "Hangi alan daha kritik, öncelik hangisinde?",
			expected: false,
		},
		{
			name:     "english meta question",
			text:     "which field matters more to prioritize?",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasUrgencySignal(tt.text))
		})
	}
}

func TestHasQuestionIntent(t *testing.T) {
	assert.True(t, HasQuestionIntent("Bütçeniz nedir?"))
	assert.True(t, HasQuestionIntent("hangi gün uygun olur"))
	assert.True(t, HasQuestionIntent("Devam etmek ister misiniz"))
	assert.False(t, HasQuestionIntent("Teşekkürler, yarın görüşürüz."))
}

func TestHasSoftDeflectionSignal(t *testing.T) {
	assert.True(t, HasSoftDeflectionSignal("Bütçemi paylaşmak istemiyorum"))
	assert.True(t, HasSoftDeflectionSignal("Bilmiyorum açıkçası"))
	assert.True(t, HasSoftDeflectionSignal("I'd rather not say"))
	assert.False(t, HasSoftDeflectionSignal("8000 TL düşünüyorum"))
}

func TestHasLikelyInformativeSemanticReply(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			name:     "category signal alone qualifies",
			text:     "8000 TL",
			expected: true,
		},
		{
			name:     "substantive free-text answer",
			text:     "Genellikle akşamları müsait oluyorum işten sonra",
			expected: true,
		},
		{
			name:     "short question does not qualify",
			text:     "Siz ne önerirsiniz?",
			expected: false,
		},
		{
			name:     "greeting opener does not qualify",
			text:     "Merhaba iyi günler size",
			expected: false,
		},
		{
			name:     "empty text",
			text:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasLikelyInformativeSemanticReply(tt.text))
		})
	}
}
