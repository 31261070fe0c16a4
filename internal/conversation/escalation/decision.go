// internal/conversation/escalation/decision.go
package escalation

import (
	"math"
	"strings"
)

// Reason explains why a conversation is being escalated.
type Reason string

const (
	ReasonSkillHandover Reason = "skill_handover"
	ReasonHotLead       Reason = "hot_lead"
)

// Action is what the calling channel should do with an escalation.
type Action string

const (
	ActionNotifyOnly       Action = "notify_only"
	ActionSwitchToOperator Action = "switch_to_operator"
)

// NoticeMode describes how the customer is told about the handover.
type NoticeMode string

// NoticeAssistantPromise is the only customer-facing notice mode: the
// assistant promises a human will take over.
const NoticeAssistantPromise NoticeMode = "assistant_promise"

// HandoverMessages holds the per-language customer notice texts. Either entry
// may be empty; the decision falls back to a fixed default for the language.
type HandoverMessages struct {
	TR string `json:"tr"`
	EN string `json:"en"`
}

// Params are the inputs to one escalation decision. LeadScore is a pointer
// because "no score yet" and "score zero" are different facts.
type Params struct {
	SkillRequiresHumanHandover bool             `json:"skillRequiresHumanHandover"`
	LeadScore                  *float64         `json:"leadScore"`
	HotLeadThreshold           float64          `json:"hotLeadThreshold"`
	HotLeadAction              Action           `json:"hotLeadAction"`
	HandoverMessages           HandoverMessages `json:"handoverMessages"`
	Language                   string           `json:"language"`
}

// Decision is the output record. Reason, Action, NoticeMode and NoticeMessage
// are only meaningful when Escalate is true.
type Decision struct {
	Escalate      bool       `json:"escalate"`
	Reason        Reason     `json:"reason,omitempty"`
	Action        Action     `json:"action,omitempty"`
	NoticeMode    NoticeMode `json:"noticeMode,omitempty"`
	NoticeMessage string     `json:"noticeMessage,omitempty"`
}

var defaultHandoverByLanguage = map[string]string{
	"tr": "Sizi bir temsilcimize aktarıyorum, kısa süre içinde size yardımcı olacak.",
	"en": "I'm connecting you with one of our agents, they will assist you shortly.",
}

// Decide runs the escalation decision table. Pure: same inputs, same decision.
//
// A skill-level handover request always wins and always switches to an
// operator. Otherwise a lead score at or above the hot-lead threshold
// escalates with the configured hot-lead action; a notify-only hot-lead
// escalation must stay invisible to the customer, so its notice is empty.
func Decide(p Params) Decision {
	if p.SkillRequiresHumanHandover {
		return Decision{
			Escalate:      true,
			Reason:        ReasonSkillHandover,
			Action:        ActionSwitchToOperator,
			NoticeMode:    NoticeAssistantPromise,
			NoticeMessage: handoverMessage(p.HandoverMessages, p.Language),
		}
	}

	if p.LeadScore == nil || math.IsNaN(*p.LeadScore) || *p.LeadScore < p.HotLeadThreshold {
		return Decision{}
	}

	d := Decision{
		Escalate: true,
		Reason:   ReasonHotLead,
		Action:   normalizeAction(p.HotLeadAction),
	}
	if d.Action == ActionSwitchToOperator {
		d.NoticeMode = NoticeAssistantPromise
		d.NoticeMessage = handoverMessage(p.HandoverMessages, p.Language)
	}
	return d
}

// handoverMessage picks the configured notice for the language, falling back
// to the fixed default so the customer is never promised a handover with an
// empty sentence.
func handoverMessage(messages HandoverMessages, language string) string {
	lang := normalizeLanguage(language)
	configured := messages.TR
	if lang == "en" {
		configured = messages.EN
	}
	if m := strings.TrimSpace(configured); m != "" {
		return m
	}
	return defaultHandoverByLanguage[lang]
}

func normalizeAction(a Action) Action {
	if a == ActionSwitchToOperator {
		return ActionSwitchToOperator
	}
	return ActionNotifyOnly
}

func normalizeLanguage(lang string) string {
	if lang == "en" {
		return "en"
	}
	return "tr"
}
