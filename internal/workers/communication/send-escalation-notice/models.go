// internal/workers/communication/send-escalation-notice/models.go
package sendescalationnotice

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

type Input struct {
	SessionID        string   `json:"sessionId"`
	Escalate         bool     `json:"escalate"`
	EscalationReason string   `json:"escalationReason"`
	EscalationAction string   `json:"escalationAction"`
	LeadScore        *float64 `json:"leadScore,omitempty"`
	TenantName       string   `json:"tenantName,omitempty"`
	OperatorPhones   []string `json:"operatorPhones,omitempty"`
}

type Output struct {
	NoticeID string   `json:"noticeId"`
	Status   string   `json:"noticeStatus"`
	Channels []string `json:"noticeChannels,omitempty"`
	SentAt   string   `json:"noticeSentAt"`
}
