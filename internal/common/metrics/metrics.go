// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	GuardResponsesModified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_responses_modified_total",
			Help: "Responses changed by the guard pipeline, by outcome",
		},
		[]string{"outcome"}, // modified | unchanged | substituted
	)

	CoverageVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coverage_case_verdicts_total",
			Help: "Handoff readiness verdicts produced by coverage analysis",
		},
		[]string{"verdict"},
	)

	EscalationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escalation_decisions_total",
			Help: "Escalation decisions by reason and action",
		},
		[]string{"reason", "action"},
	)

	EscalationNoticesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escalation_notices_sent_total",
			Help: "Operator notices delivered, by channel",
		},
		[]string{"channel"},
	)
)
