// internal/workers/communication/send-escalation-notice/handler.go
package sendescalationnotice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonerrors "leadchat-workers/internal/common/errors"
	"leadchat-workers/internal/common/logger"
	"leadchat-workers/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-escalation-notice"
)

var (
	ErrChannelsDisabled = errors.New("NOTIFICATION_CHANNEL_DISABLED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	errors    *commonerrors.ErrorHandler
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		logger:    scoped,
		errors:    commonerrors.NewErrorHandler(scoped),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job,
			commonerrors.NewEscalationInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		if errors.Is(err, ErrChannelsDisabled) {
			h.errors.HandleJobError(ctx, client, job,
				commonerrors.NewNotificationChannelDisabledError("email,sms"))
			return
		}
		h.errors.HandleJobError(ctx, client, job,
			commonerrors.NewNotificationSendFailedError("operator-notice", err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	noticeID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	if !input.Escalate {
		return &Output{NoticeID: noticeID, Status: StatusSkipped, SentAt: sentAt}, nil
	}

	if !h.config.EmailEnabled && !h.config.SMSEnabled {
		// An escalation the operators never hear about is a lost lead, so a
		// fully disabled notice path is a configuration fault, not a no-op.
		return nil, fmt.Errorf("%w: escalation for session %s has no enabled channel", ErrChannelsDisabled, input.SessionID)
	}

	subject, body := buildNotice(input)

	var channels []string

	if h.config.EmailEnabled && len(h.config.OperatorEmails) > 0 {
		if err := h.sendEmail(ctx, subject, body); err != nil {
			h.logger.Error("operator email send failed", map[string]interface{}{
				"error":     err,
				"sessionId": input.SessionID,
			})
			return &Output{NoticeID: noticeID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		metrics.EscalationNoticesSent.WithLabelValues("email").Inc()
		channels = append(channels, "email")
	}

	if h.config.SMSEnabled && len(input.OperatorPhones) > 0 {
		for _, phone := range input.OperatorPhones {
			if err := h.sendSMS(ctx, phone, body); err != nil {
				h.logger.Error("operator SMS send failed", map[string]interface{}{
					"error":     err,
					"phone":     phone,
					"sessionId": input.SessionID,
				})
				return &Output{NoticeID: noticeID, Status: StatusFailed, SentAt: sentAt}, nil
			}
		}
		metrics.EscalationNoticesSent.WithLabelValues("sms").Inc()
		channels = append(channels, "sms")
	}

	status := StatusSkipped
	if len(channels) > 0 {
		status = StatusSent
	}

	h.logger.Info("escalation notice processed", map[string]interface{}{
		"noticeId":  noticeID,
		"sessionId": input.SessionID,
		"status":    status,
		"channels":  channels,
	})

	return &Output{
		NoticeID: noticeID,
		Status:   status,
		Channels: channels,
		SentAt:   sentAt,
	}, nil
}

// buildNotice renders the operator-facing subject and body for an escalation.
func buildNotice(input *Input) (string, string) {
	tenant := input.TenantName
	if tenant == "" {
		tenant = "your account"
	}

	var subject string
	var lines []string
	switch input.EscalationReason {
	case "hot_lead":
		subject = fmt.Sprintf("Hot lead waiting in %s", tenant)
		lines = append(lines, fmt.Sprintf("A conversation in %s reached hot-lead status.", tenant))
		if input.LeadScore != nil {
			lines = append(lines, fmt.Sprintf("Lead score: %.0f.", *input.LeadScore))
		}
	default:
		subject = fmt.Sprintf("Customer requested a human in %s", tenant)
		lines = append(lines, fmt.Sprintf("A conversation in %s asked for a human agent.", tenant))
	}

	lines = append(lines, fmt.Sprintf("Session: %s.", input.SessionID))
	if input.EscalationAction == "switch_to_operator" {
		lines = append(lines, "The customer has been told an agent is taking over.")
	}

	return subject, strings.Join(lines, " ")
}

func (h *Handler) sendEmail(ctx context.Context, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: h.config.OperatorEmails,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	in := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SMSSenderID != "" {
		in.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(h.config.SMSSenderID),
			},
		}
	}
	_, err := h.snsClient.Publish(ctx, in)
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
