// internal/workers/conversation/decide-human-escalation/config.go
package decidehumanescalation

import (
	"time"

	"leadchat-workers/internal/common/config"
	"leadchat-workers/internal/conversation/escalation"
)

type Config struct {
	Timeout          time.Duration
	HotLeadThreshold float64
	HotLeadAction    escalation.Action
	HandoverMessages escalation.HandoverMessages
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		HotLeadThreshold: 75,
		HotLeadAction:    escalation.ActionNotifyOnly,
	}
}

// FromAppConfig builds the worker config from the application config.
func FromAppConfig(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	if cfg.Escalation.HotLeadThreshold > 0 {
		c.HotLeadThreshold = cfg.Escalation.HotLeadThreshold
	}
	if cfg.Escalation.HotLeadAction != "" {
		c.HotLeadAction = escalation.Action(cfg.Escalation.HotLeadAction)
	}
	c.HandoverMessages = escalation.HandoverMessages{
		TR: cfg.Escalation.HandoverMessageTR,
		EN: cfg.Escalation.HandoverMessageEN,
	}
	return c
}
