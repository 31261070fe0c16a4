// internal/workers/communication/send-escalation-notice/handler_test.go
package sendescalationnotice

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadchat-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		EmailEnabled:   true,
		SMSEnabled:     true,
		FromEmail:      "alerts@leadchat.example",
		OperatorEmails: []string{"ops-a@leadchat.example", "ops-b@leadchat.example"},
		SMSSenderID:    "LEADCHAT",
		AWSRegion:      "eu-central-1",
	}
}

func hotLeadInput() *Input {
	score := 88.0
	return &Input{
		SessionID:        "session-42",
		Escalate:         true,
		EscalationReason: "hot_lead",
		EscalationAction: "switch_to_operator",
		LeadScore:        &score,
		TenantName:       "Acme Fitness",
		OperatorPhones:   []string{"+905551112233"},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_SendsEmailAndSMS(t *testing.T) {
	emailSent := false
	smsSent := false

	handler := &Handler{
		config: createTestConfig(),
		logger: logger.NewTestLogger(t),
		sesClient: &MockSESService{
			SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
				emailSent = true
				assert.Equal(t, []string{"ops-a@leadchat.example", "ops-b@leadchat.example"}, params.Destination.ToAddresses)
				assert.Equal(t, "alerts@leadchat.example", *params.Source)
				assert.Contains(t, *params.Message.Subject.Data, "Hot lead")
				assert.Contains(t, *params.Message.Body.Text.Data, "session-42")
				assert.Contains(t, *params.Message.Body.Text.Data, "88")
				return &ses.SendEmailOutput{}, nil
			},
		},
		snsClient: &MockSNSService{
			PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
				smsSent = true
				assert.Equal(t, "+905551112233", *params.PhoneNumber)
				assert.Contains(t, *params.Message, "session-42")
				require.Contains(t, params.MessageAttributes, "AWS.SNS.SMS.SenderID")
				assert.Equal(t, "LEADCHAT", *params.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
				return &sns.PublishOutput{}, nil
			},
		},
	}

	output, err := handler.Execute(context.Background(), hotLeadInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{"email", "sms"}, output.Channels)
	assert.NotEmpty(t, output.NoticeID)
	assert.True(t, emailSent)
	assert.True(t, smsSent)

	_, err = time.Parse(time.RFC3339, output.SentAt)
	assert.NoError(t, err)
}

func TestExecute_NoEscalationSkips(t *testing.T) {
	handler := &Handler{
		config: createTestConfig(),
		logger: logger.NewTestLogger(t),
	}

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "session-1",
		Escalate:  false,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, output.Status)
	assert.Empty(t, output.Channels)
}

func TestExecute_AllChannelsDisabledIsError(t *testing.T) {
	config := createTestConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false

	handler := &Handler{config: config, logger: logger.NewTestLogger(t)}

	_, err := handler.Execute(context.Background(), hotLeadInput())

	assert.ErrorIs(t, err, ErrChannelsDisabled)
}

func TestExecute_EmailFailureReportsFailed(t *testing.T) {
	config := createTestConfig()
	config.SMSEnabled = false

	handler := &Handler{
		config: config,
		logger: logger.NewTestLogger(t),
		sesClient: &MockSESService{
			SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
				return nil, errors.New("SES service unavailable")
			},
		},
	}

	output, err := handler.Execute(context.Background(), hotLeadInput())

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
	assert.Empty(t, output.Channels)
}

func TestExecute_SMSFailureReportsFailed(t *testing.T) {
	config := createTestConfig()
	config.EmailEnabled = false

	handler := &Handler{
		config: config,
		logger: logger.NewTestLogger(t),
		snsClient: &MockSNSService{
			PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
				return nil, errors.New("SNS service unavailable")
			},
		},
	}

	output, err := handler.Execute(context.Background(), hotLeadInput())

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestExecute_SMSWithoutPhonesSkipsChannel(t *testing.T) {
	config := createTestConfig()
	config.EmailEnabled = false

	handler := &Handler{config: config, logger: logger.NewTestLogger(t)}

	input := hotLeadInput()
	input.OperatorPhones = nil
	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, output.Status)
}

// ==========================
// Unit Tests
// ==========================

func TestBuildNotice(t *testing.T) {
	tests := []struct {
		name            string
		input           *Input
		subjectContains string
		bodyContains    []string
	}{
		{
			name:            "hot lead with score",
			input:           hotLeadInput(),
			subjectContains: "Hot lead waiting in Acme Fitness",
			bodyContains:    []string{"hot-lead status", "Lead score: 88.", "Session: session-42.", "agent is taking over"},
		},
		{
			name: "skill handover",
			input: &Input{
				SessionID:        "session-7",
				Escalate:         true,
				EscalationReason: "skill_handover",
				EscalationAction: "switch_to_operator",
				TenantName:       "Acme Fitness",
			},
			subjectContains: "Customer requested a human",
			bodyContains:    []string{"asked for a human agent", "Session: session-7."},
		},
		{
			name: "missing tenant falls back",
			input: &Input{
				SessionID:        "session-9",
				Escalate:         true,
				EscalationReason: "hot_lead",
				EscalationAction: "notify_only",
			},
			subjectContains: "your account",
			bodyContains:    []string{"Session: session-9."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildNotice(tt.input)
			assert.Contains(t, subject, tt.subjectContains)
			for _, want := range tt.bodyContains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestSplitOperators(t *testing.T) {
	assert.Equal(t,
		[]string{"a@x.com", "b@x.com"},
		splitOperators(" a@x.com, b@x.com ,"))
	assert.Nil(t, splitOperators(""))
}
