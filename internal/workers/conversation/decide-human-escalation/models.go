// internal/workers/conversation/decide-human-escalation/models.go
package decidehumanescalation

type Input struct {
	SessionID                  string   `json:"sessionId"`
	SkillRequiresHumanHandover bool     `json:"skillRequiresHumanHandover"`
	LeadScore                  *float64 `json:"leadScore"`
	Language                   string   `json:"language"`

	// Optional per-tenant overrides for the configured defaults.
	HotLeadThreshold *float64 `json:"hotLeadThreshold,omitempty"`
	HotLeadAction    string   `json:"hotLeadAction,omitempty"`
}

type Output struct {
	Escalate         bool   `json:"escalate"`
	EscalationReason string `json:"escalationReason,omitempty"`
	EscalationAction string `json:"escalationAction,omitempty"`
	NoticeMode       string `json:"noticeMode,omitempty"`
	NoticeMessage    string `json:"noticeMessage,omitempty"`
}
