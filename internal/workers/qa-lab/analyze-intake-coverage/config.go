// internal/workers/qa-lab/analyze-intake-coverage/config.go
package analyzeintakecoverage

import (
	"time"

	"leadchat-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	ReportTTL time.Duration
	MaxCases  int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		ReportTTL: 7 * 24 * time.Hour,
		MaxCases:  200,
	}
}

// FromAppConfig builds the worker config from the application config.
func FromAppConfig(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	if cfg.QaLab.ReportTTL > 0 {
		c.ReportTTL = time.Duration(cfg.QaLab.ReportTTL) * time.Second
	}
	if cfg.QaLab.MaxCases > 0 {
		c.MaxCases = cfg.QaLab.MaxCases
	}
	return c
}
