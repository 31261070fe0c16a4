// internal/workers/qa-lab/analyze-intake-coverage/models.go
package analyzeintakecoverage

import "leadchat-workers/internal/intake/coverage"

type Input struct {
	RequiredIntakeFields []string        `json:"requiredIntakeFields"`
	ChannelContext       string          `json:"channelContext"`
	Cases                []coverage.Case `json:"cases"`
}

type Output struct {
	ReportID    string          `json:"reportId"`
	GeneratedAt string          `json:"generatedAt"`
	Report      coverage.Report `json:"report"`
}
