// internal/workers/conversation/apply-response-guards/models.go
package applyresponseguards

type Input struct {
	SessionID               string `json:"sessionId"`
	Response                string `json:"response"`
	UserMessage             string `json:"userMessage"`
	ResponseLanguage        string `json:"responseLanguage"`
	SuppressIntakeQuestions bool   `json:"suppressIntakeQuestions"`
	NoProgressLoopBreak     bool   `json:"noProgressLoopBreak"`

	// Inline session state. When supplied the handler uses it as-is and never
	// touches the Redis session store for the read side.
	RecentAssistantMessages []string `json:"recentAssistantMessages,omitempty"`
	BlockedReaskFields      []string `json:"blockedReaskFields,omitempty"`
}

type Output struct {
	GuardedResponse string `json:"guardedResponse"`
	Modified        bool   `json:"modified"`
	Outcome         string `json:"guardOutcome"` // modified | unchanged | substituted
}
