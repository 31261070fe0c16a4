// internal/conversation/guard/pipeline.go
package guard

import (
	"regexp"
	"strings"

	"leadchat-workers/internal/intake/textmatch"
)

// Params is the full context for guarding one freshly generated assistant
// reply. Nothing here is stored; the caller owns all session state.
type Params struct {
	Response                string   `json:"response"`
	UserMessage             string   `json:"userMessage"`
	ResponseLanguage        string   `json:"responseLanguage"`
	RecentAssistantMessages []string `json:"recentAssistantMessages,omitempty"`
	BlockedReaskFields      []string `json:"blockedReaskFields,omitempty"`
	SuppressIntakeQuestions bool     `json:"suppressIntakeQuestions,omitempty"`
	NoProgressLoopBreak     bool     `json:"noProgressLoopBreak,omitempty"`
}

var (
	spaceBeforePunctPattern = regexp.MustCompile(`\s+([,.!?;:])`)
	decimalSpacingPattern   = regexp.MustCompile(`(\d)\s*([.,])\s*(\d)`)
	multiSpacePattern       = regexp.MustCompile(`[ \t]{2,}`)
)

// Apply runs the ordered guard chain over a generated reply. Every stage is a
// total function; order matters because later stages assume earlier
// normalization already happened. A non-empty input never yields an empty
// output.
func Apply(p Params) string {
	response := strings.TrimSpace(p.Response)
	if response == "" {
		return ""
	}
	lang := normalizeLanguage(p.ResponseLanguage)

	response = sanitizeSurface(response)
	response = stripRepeatedEngagement(response, p.RecentAssistantMessages, lang)
	response = applyStopContactOverride(response, p.UserMessage, lang)
	response = sanitizeExternalRedirect(response, lang)
	response = stripBlockedFieldReasks(response, p.BlockedReaskFields, lang)
	response = stripPostRefusalIntake(response, p.UserMessage, lang)
	response = stripSuppressedIntake(response, p.SuppressIntakeQuestions, lang)
	response = reorderAnswerFirst(response, p.UserMessage)
	response = breakNoProgressLoop(response, p.UserMessage, p.NoProgressLoopBreak, lang)
	response = enforceLanguageConsistency(response, lang)

	if strings.TrimSpace(response) == "" {
		return acknowledgment(lang)
	}
	return response
}

// sanitizeSurface fixes generation artifacts: stray spaces before
// punctuation, broken decimal/thousand separators, doubled spaces.
func sanitizeSurface(response string) string {
	response = spaceBeforePunctPattern.ReplaceAllString(response, "$1")
	response = decimalSpacingPattern.ReplaceAllString(response, "$1$2$3")
	response = multiSpacePattern.ReplaceAllString(response, " ")
	return strings.TrimSpace(response)
}

// stripRepeatedEngagement drops engagement questions when the previous
// assistant message already ended on one, so the assistant doesn't ask the
// same wrap-up question twice in a row.
func stripRepeatedEngagement(response string, recentAssistantMessages []string, lang string) string {
	if len(recentAssistantMessages) == 0 {
		return response
	}
	previous := recentAssistantMessages[len(recentAssistantMessages)-1]
	if !matchesAnyPattern(previous, EngagementQuestionPatterns) {
		return response
	}
	return removeChunks(response, isEngagementChunk, lang)
}

// applyStopContactOverride honors "stop contacting me": every engagement
// question goes, and a bare acknowledgment replaces a fully stripped reply.
func applyStopContactOverride(response, userMessage, lang string) string {
	if !matchesAnyPattern(userMessage, StopContactPatterns) {
		return response
	}
	return removeChunks(response, isEngagementChunk, lang)
}

// sanitizeExternalRedirect strips chunks that send the customer to a website
// or phone line and appends the fixed "we can continue here" sentence.
func sanitizeExternalRedirect(response, lang string) string {
	chunks := splitChunks(response)
	kept := make([]string, 0, len(chunks))
	stripped := false
	for _, c := range chunks {
		if matchesAnyPattern(c, ExternalRedirectPatterns) {
			stripped = true
			continue
		}
		kept = append(kept, c)
	}
	if !stripped {
		return response
	}

	result := joinChunks(kept)
	continueHere := continueHereByLanguage[lang]
	normalized := textmatch.NormalizeText(result)
	for _, sentence := range continueHereByLanguage {
		if strings.Contains(normalized, textmatch.NormalizeText(sentence)) {
			return strings.TrimSpace(result)
		}
	}
	return strings.TrimSpace(strings.TrimSpace(result) + " " + continueHere)
}

// stripBlockedFieldReasks removes question chunks about fields the caller has
// blocked from being asked again (already collected or explicitly refused).
func stripBlockedFieldReasks(response string, blockedReaskFields []string, lang string) string {
	if len(blockedReaskFields) == 0 {
		return response
	}
	matchers := make([]textmatch.FieldMatcher, 0, len(blockedReaskFields))
	for _, field := range blockedReaskFields {
		matchers = append(matchers, textmatch.BuildFieldMatcher(field))
	}
	return removeChunks(response, func(chunk string) bool {
		if !textmatch.HasQuestionIntent(chunk) {
			return false
		}
		for _, m := range matchers {
			if m.MatchesText(chunk) {
				return true
			}
		}
		return false
	}, lang)
}

// stripPostRefusalIntake removes intake questions right after the customer
// refused to share something: never answer a refusal with another ask.
func stripPostRefusalIntake(response, userMessage, lang string) string {
	if !textmatch.HasSoftDeflectionSignal(userMessage) {
		return response
	}
	return removeChunks(response, isIntakeQuestionChunk, lang)
}

// stripSuppressedIntake honors the caller's decision that this conversation is
// not a qualification context at all.
func stripSuppressedIntake(response string, suppress bool, lang string) string {
	if !suppress {
		return response
	}
	return removeChunks(response, isIntakeQuestionChunk, lang)
}

// reorderAnswerFirst moves a direct answer ahead of a leading question when
// the user asked something: they should see the answer before any follow-up.
func reorderAnswerFirst(response, userMessage string) string {
	if !textmatch.HasQuestionIntent(userMessage) {
		return response
	}
	chunks := splitChunks(response)
	if len(chunks) < 2 || !textmatch.HasQuestionIntent(chunks[0]) {
		return response
	}
	for i := 1; i < len(chunks); i++ {
		if textmatch.HasQuestionIntent(chunks[i]) {
			continue
		}
		answer := chunks[i]
		rest := make([]string, 0, len(chunks)-1)
		rest = append(rest, chunks[:i]...)
		rest = append(rest, chunks[i+1:]...)
		return joinChunks(append([]string{answer}, rest...))
	}
	return response
}

// breakNoProgressLoop collapses a stalled conversation's reply to one summary
// chunk plus a fixed "continue when ready" closing, instead of repeating the
// same ask indefinitely.
func breakNoProgressLoop(response, userMessage string, loopBreak bool, lang string) string {
	if !loopBreak || textmatch.HasQuestionIntent(userMessage) {
		return response
	}
	chunks := splitChunks(response)
	if len(chunks) == 0 {
		return response
	}

	summary := ""
	for _, c := range chunks {
		if !textmatch.HasQuestionIntent(c) {
			summary = c
			break
		}
	}
	if summary == "" {
		for _, c := range chunks {
			if !isEngagementChunk(c) && !isIntakeQuestionChunk(c) {
				summary = c
				break
			}
		}
	}
	if summary == "" {
		summary = chunks[0]
	}

	if matchesAnyPattern(response, ReadyCuePatterns) {
		return summary
	}
	return summary + " " + continueWhenReadyByLanguage[lang]
}

// enforceLanguageConsistency keeps only target-language and ambiguous chunks
// when a reply mixes languages. Known TR↔EN boilerplate is normalized into the
// target language first so identical sentences aren't treated as mixed noise.
func enforceLanguageConsistency(response, lang string) string {
	response = normalizeKnownParaphrases(response, lang)

	chunks := splitChunks(response)
	if len(chunks) < 2 {
		return response
	}

	opposite := oppositeLanguage(lang)
	hasTarget, hasOpposite := false, false
	for _, c := range chunks {
		switch detectChunkLanguage(c) {
		case lang:
			hasTarget = true
		case opposite:
			hasOpposite = true
		}
	}
	if !hasTarget || !hasOpposite {
		return response
	}

	kept := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if detectChunkLanguage(c) == opposite {
			continue
		}
		kept = append(kept, c)
	}
	return joinChunks(kept)
}

func normalizeKnownParaphrases(response, lang string) string {
	for _, pair := range KnownParaphrasePairs {
		if lang == "tr" {
			response = strings.ReplaceAll(response, pair.EN, pair.TR)
		} else {
			response = strings.ReplaceAll(response, pair.TR, pair.EN)
		}
	}
	return response
}

// removeChunks drops every chunk matching the predicate, substituting the
// fixed acknowledgment if nothing survives.
func removeChunks(response string, shouldRemove func(string) bool, lang string) string {
	chunks := splitChunks(response)
	kept := make([]string, 0, len(chunks))
	removed := false
	for _, c := range chunks {
		if shouldRemove(c) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return response
	}
	if len(kept) == 0 {
		return acknowledgment(lang)
	}
	return joinChunks(kept)
}
