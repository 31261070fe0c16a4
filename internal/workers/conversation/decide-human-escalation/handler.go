// internal/workers/conversation/decide-human-escalation/handler.go
package decidehumanescalation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"leadchat-workers/internal/common/logger"
	"leadchat-workers/internal/common/metrics"
	"leadchat-workers/internal/conversation/escalation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "decide-human-escalation"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "ESCALATION_INPUT_INVALID", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	threshold := h.config.HotLeadThreshold
	if input.HotLeadThreshold != nil {
		if math.IsNaN(*input.HotLeadThreshold) || *input.HotLeadThreshold < 0 {
			return nil, fmt.Errorf("invalid hot lead threshold override: %v", *input.HotLeadThreshold)
		}
		threshold = *input.HotLeadThreshold
	}

	action := h.config.HotLeadAction
	if input.HotLeadAction != "" {
		switch escalation.Action(input.HotLeadAction) {
		case escalation.ActionNotifyOnly, escalation.ActionSwitchToOperator:
			action = escalation.Action(input.HotLeadAction)
		default:
			return nil, fmt.Errorf("invalid hot lead action override: %q", input.HotLeadAction)
		}
	}

	decision := escalation.Decide(escalation.Params{
		SkillRequiresHumanHandover: input.SkillRequiresHumanHandover,
		LeadScore:                  input.LeadScore,
		HotLeadThreshold:           threshold,
		HotLeadAction:              action,
		HandoverMessages:           h.config.HandoverMessages,
		Language:                   input.Language,
	})

	if decision.Escalate {
		metrics.EscalationDecisions.WithLabelValues(string(decision.Reason), string(decision.Action)).Inc()
		h.logger.Info("escalation decided", map[string]interface{}{
			"sessionId": input.SessionID,
			"reason":    string(decision.Reason),
			"action":    string(decision.Action),
		})
	}

	return &Output{
		Escalate:         decision.Escalate,
		EscalationReason: string(decision.Reason),
		EscalationAction: string(decision.Action),
		NoticeMode:       string(decision.NoticeMode),
		NoticeMessage:    decision.NoticeMessage,
	}, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
