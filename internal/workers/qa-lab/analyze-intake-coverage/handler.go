// internal/workers/qa-lab/analyze-intake-coverage/handler.go
package analyzeintakecoverage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "leadchat-workers/internal/common/errors"
	"leadchat-workers/internal/common/logger"
	"leadchat-workers/internal/common/metrics"
	"leadchat-workers/internal/intake/coverage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "analyze-intake-coverage"

	reportKeyPattern = "qalab:report:%s"
)

type Handler struct {
	config *Config
	logger logger.Logger
	errors *commonerrors.ErrorHandler
	redis  *redis.Client
}

func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		logger: scoped,
		errors: commonerrors.NewErrorHandler(scoped),
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
		h.errors.HandleJobError(context.Background(), client, job,
			commonerrors.NewCoverageInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Cases) > h.config.MaxCases {
		return nil, commonerrors.NewCoverageCaseLimitError(len(input.Cases), h.config.MaxCases)
	}

	report := coverage.Analyze(coverage.Params{
		RequiredIntakeFields: input.RequiredIntakeFields,
		ChannelContext:       input.ChannelContext,
		Cases:                input.Cases,
	})

	for _, res := range report.ByCase {
		metrics.CoverageVerdicts.WithLabelValues(string(res.HandoffReadiness)).Inc()
	}

	output := &Output{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Report:      report,
	}

	if err := h.cacheReport(ctx, output); err != nil {
		// The report is returned in the job variables either way; losing the
		// dashboard cache entry is not worth failing the analysis.
		h.logger.Warn("failed to cache coverage report", map[string]interface{}{
			"reportId": output.ReportID,
			"error":    err.Error(),
		})
	}

	h.logger.Info("coverage analysis complete", map[string]interface{}{
		"reportId": output.ReportID,
		"cases":    report.Totals.Cases,
		"pass":     report.Totals.Pass,
		"warn":     report.Totals.Warn,
		"fail":     report.Totals.Fail,
	})

	return output, nil
}

// cacheReport stores the full report under its id so QA dashboards can fetch
// it after the workflow completes.
func (h *Handler) cacheReport(ctx context.Context, output *Output) error {
	if h.redis == nil {
		return nil
	}
	payload, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return h.redis.Set(ctx, fmt.Sprintf(reportKeyPattern, output.ReportID), payload, h.config.ReportTTL).Err()
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
