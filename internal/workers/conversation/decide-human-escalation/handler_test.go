// internal/workers/conversation/decide-human-escalation/handler_test.go
package decidehumanescalation

import (
	"context"
	"testing"

	"leadchat-workers/internal/common/logger"
	"leadchat-workers/internal/conversation/escalation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func score(v float64) *float64 {
	return &v
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_SkillHandoverSwitchesToOperator(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:                  "s1",
		SkillRequiresHumanHandover: true,
		Language:                   "tr",
	})

	require.NoError(t, err)
	assert.True(t, output.Escalate)
	assert.Equal(t, "skill_handover", output.EscalationReason)
	assert.Equal(t, "switch_to_operator", output.EscalationAction)
	assert.Equal(t, "assistant_promise", output.NoticeMode)
	assert.NotEmpty(t, output.NoticeMessage)
}

func TestExecute_NoScoreNoEscalation(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{SessionID: "s2"})

	require.NoError(t, err)
	assert.False(t, output.Escalate)
	assert.Empty(t, output.EscalationReason)
	assert.Empty(t, output.NoticeMessage)
}

func TestExecute_HotLeadUsesConfiguredAction(t *testing.T) {
	handler := newTestHandler(t)
	handler.config.HotLeadAction = escalation.ActionSwitchToOperator
	handler.config.HandoverMessages = escalation.HandoverMessages{EN: "An agent will join shortly."}

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "s3",
		LeadScore: score(80),
		Language:  "en",
	})

	require.NoError(t, err)
	assert.True(t, output.Escalate)
	assert.Equal(t, "hot_lead", output.EscalationReason)
	assert.Equal(t, "switch_to_operator", output.EscalationAction)
	assert.Equal(t, "An agent will join shortly.", output.NoticeMessage)
}

func TestExecute_NotifyOnlyHotLeadStaysSilent(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "s4",
		LeadScore: score(99),
		Language:  "tr",
	})

	require.NoError(t, err)
	assert.True(t, output.Escalate)
	assert.Equal(t, "notify_only", output.EscalationAction)
	assert.Empty(t, output.NoticeMode)
	assert.Empty(t, output.NoticeMessage)
}

// ==========================
// Override Tests
// ==========================

func TestExecute_ThresholdOverrideApplied(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:        "s5",
		LeadScore:        score(60),
		HotLeadThreshold: score(50),
	})

	require.NoError(t, err)
	assert.True(t, output.Escalate)
	assert.Equal(t, "hot_lead", output.EscalationReason)
}

func TestExecute_ActionOverrideApplied(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:     "s6",
		LeadScore:     score(90),
		HotLeadAction: "switch_to_operator",
		Language:      "tr",
	})

	require.NoError(t, err)
	assert.Equal(t, "switch_to_operator", output.EscalationAction)
	assert.NotEmpty(t, output.NoticeMessage)
}

func TestExecute_InvalidOverridesRejected(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{
		SessionID:     "s7",
		LeadScore:     score(90),
		HotLeadAction: "page_everyone",
	})
	assert.Error(t, err)

	_, err = handler.Execute(context.Background(), &Input{
		SessionID:        "s8",
		LeadScore:        score(90),
		HotLeadThreshold: score(-5),
	})
	assert.Error(t, err)
}
