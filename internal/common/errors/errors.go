// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeGuardInputInvalid       ErrorCode = "GUARD_INPUT_INVALID"
	ErrCodeGuardSessionUnavailable ErrorCode = "GUARD_SESSION_UNAVAILABLE"

	ErrCodeCoverageInputInvalid ErrorCode = "COVERAGE_INPUT_INVALID"
	ErrCodeCoverageCaseLimit    ErrorCode = "COVERAGE_CASE_LIMIT_EXCEEDED"
	ErrCodeReportCacheFailed    ErrorCode = "REPORT_CACHE_FAILED"

	ErrCodeEscalationInputInvalid ErrorCode = "ESCALATION_INPUT_INVALID"

	ErrCodeNotificationSendFailed    ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationChannelClosed ErrorCode = "NOTIFICATION_CHANNEL_DISABLED"

	ErrCodeRedisConnectionFailed ErrorCode = "REDIS_CONNECTION_FAILED"

	ErrCodeRegistryValidationFailed ErrorCode = "REGISTRY_VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewGuardInputInvalidError creates a non-retryable guard input error.
func NewGuardInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGuardInputInvalid,
		Message:   "Guard job variables are invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGuardSessionUnavailableError creates a retryable session store error.
func NewGuardSessionUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGuardSessionUnavailable,
		Message:   "Conversation session store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCoverageInputInvalidError creates a non-retryable analysis input error.
func NewCoverageInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCoverageInputInvalid,
		Message:   "Coverage analysis input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCoverageCaseLimitError creates a non-retryable case limit error.
func NewCoverageCaseLimitError(got, limit int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCoverageCaseLimit,
		Message:   "Too many cases in one analysis job",
		Details:   fmt.Sprintf("cases: %d, limit: %d", got, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportCacheFailedError creates a retryable report cache error.
func NewReportCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportCacheFailed,
		Message:   "Failed to cache coverage report",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEscalationInputInvalidError creates a non-retryable escalation input error.
func NewEscalationInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEscalationInputInvalid,
		Message:   "Escalation decision input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationChannelDisabledError creates a non-retryable channel error.
func NewNotificationChannelDisabledError(channel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationChannelClosed,
		Message:   "Notification channel is disabled",
		Details:   fmt.Sprintf("channel: %s", channel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRedisConnectionFailedError creates a retryable Redis connection error.
func NewRedisConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRedisConnectionFailed,
		Message:   "Redis connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryValidationFailedError creates a non-retryable registry error.
func NewRegistryValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryValidationFailed,
		Message:   "Worker registry document failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (identical by
// convention so BPMN boundary events can reference them directly).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeGuardInputInvalid:         "GUARD_INPUT_INVALID",
	ErrCodeGuardSessionUnavailable:   "GUARD_SESSION_UNAVAILABLE",
	ErrCodeCoverageInputInvalid:      "COVERAGE_INPUT_INVALID",
	ErrCodeCoverageCaseLimit:         "COVERAGE_CASE_LIMIT_EXCEEDED",
	ErrCodeReportCacheFailed:         "REPORT_CACHE_FAILED",
	ErrCodeEscalationInputInvalid:    "ESCALATION_INPUT_INVALID",
	ErrCodeNotificationSendFailed:    "NOTIFICATION_SEND_FAILED",
	ErrCodeNotificationChannelClosed: "NOTIFICATION_CHANNEL_DISABLED",
	ErrCodeRedisConnectionFailed:     "REDIS_CONNECTION_FAILED",
	ErrCodeRegistryValidationFailed:  "REGISTRY_VALIDATION_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGuardSessionUnavailable,
		ErrCodeReportCacheFailed,
		ErrCodeRedisConnectionFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "GUARD"):
		return "GUARD"
	case strings.Contains(codeStr, "COVERAGE") || strings.Contains(codeStr, "REPORT"):
		return "QA_LAB"
	case strings.Contains(codeStr, "ESCALATION"):
		return "ESCALATION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "REDIS"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
