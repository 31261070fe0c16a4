// internal/workers/conversation/apply-response-guards/handler.go
package applyresponseguards

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"leadchat-workers/internal/common/logger"
	"leadchat-workers/internal/common/metrics"
	"leadchat-workers/internal/conversation/guard"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "apply-response-guards"

	recentKeyPattern  = "session:%s:recent"
	blockedKeyPattern = "session:%s:blocked"
)

type Handler struct {
	config *Config
	logger logger.Logger
	redis  *redis.Client
}

func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		redis:  redisClient,
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
		h.failJob(client, job, "GUARD_SESSION_UNAVAILABLE", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	lang := input.ResponseLanguage
	if lang == "" {
		lang = h.config.DefaultLanguage
	}

	// Inline payload state wins; the session store only backs the omitted side.
	recent := input.RecentAssistantMessages
	blocked := input.BlockedReaskFields
	if recent == nil || blocked == nil {
		loadedRecent, loadedBlocked, err := h.loadSessionState(ctx, input.SessionID)
		if err != nil {
			return nil, fmt.Errorf("load session state: %w", err)
		}
		if recent == nil {
			recent = loadedRecent
		}
		if blocked == nil {
			blocked = loadedBlocked
		}
	}

	original := strings.TrimSpace(input.Response)
	guarded := guard.Apply(guard.Params{
		Response:                input.Response,
		UserMessage:             input.UserMessage,
		ResponseLanguage:        lang,
		RecentAssistantMessages: recent,
		BlockedReaskFields:      blocked,
		SuppressIntakeQuestions: input.SuppressIntakeQuestions,
		NoProgressLoopBreak:     input.NoProgressLoopBreak,
	})

	outcome := classifyOutcome(original, guarded)
	metrics.GuardResponsesModified.WithLabelValues(outcome).Inc()

	if err := h.storeGuardedResponse(ctx, input.SessionID, guarded); err != nil {
		// The guarded text is already computed; a session write failure must
		// not cost the customer their reply.
		h.logger.Warn("failed to store guarded response in session", map[string]interface{}{
			"sessionId": input.SessionID,
			"error":     err.Error(),
		})
	}

	h.logger.Info("response guarded", map[string]interface{}{
		"sessionId": input.SessionID,
		"outcome":   outcome,
		"language":  lang,
	})

	return &Output{
		GuardedResponse: guarded,
		Modified:        outcome != "unchanged",
		Outcome:         outcome,
	}, nil
}

// loadSessionState reads the recent assistant messages and blocked re-ask
// fields for the session. Stateless invocations (no session id) get empty
// state.
func (h *Handler) loadSessionState(ctx context.Context, sessionID string) ([]string, []string, error) {
	if sessionID == "" || h.redis == nil {
		return nil, nil, nil
	}

	recent, err := h.redis.LRange(ctx, fmt.Sprintf(recentKeyPattern, sessionID), 0, int64(h.config.RecentMessages-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, nil, err
	}
	// Stored newest-first; the guard wants oldest-first.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	blocked, err := h.redis.SMembers(ctx, fmt.Sprintf(blockedKeyPattern, sessionID)).Result()
	if err != nil && err != redis.Nil {
		return nil, nil, err
	}

	return recent, blocked, nil
}

// storeGuardedResponse pushes the final reply onto the session window so the
// next invocation can detect repeated engagement questions.
func (h *Handler) storeGuardedResponse(ctx context.Context, sessionID, response string) error {
	if sessionID == "" || h.redis == nil || response == "" {
		return nil
	}

	key := fmt.Sprintf(recentKeyPattern, sessionID)
	pipe := h.redis.TxPipeline()
	pipe.LPush(ctx, key, response)
	pipe.LTrim(ctx, key, 0, int64(h.config.RecentMessages-1))
	pipe.Expire(ctx, key, h.config.SessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func classifyOutcome(original, guarded string) string {
	switch {
	case guarded == original:
		return "unchanged"
	case original != "" && !strings.Contains(original, guarded):
		return "substituted"
	default:
		return "modified"
	}
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
