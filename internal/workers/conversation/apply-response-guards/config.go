// internal/workers/conversation/apply-response-guards/config.go
package applyresponseguards

import (
	"time"

	"leadchat-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	DefaultLanguage string
	RecentMessages  int
	SessionTTL      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultLanguage: "tr",
		RecentMessages:  5,
		SessionTTL:      24 * time.Hour,
	}
}

// FromAppConfig builds the worker config from the application config.
func FromAppConfig(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	if cfg.Guard.DefaultLanguage != "" {
		c.DefaultLanguage = cfg.Guard.DefaultLanguage
	}
	if cfg.Guard.RecentMessages > 0 {
		c.RecentMessages = cfg.Guard.RecentMessages
	}
	if cfg.Guard.SessionTTL > 0 {
		c.SessionTTL = time.Duration(cfg.Guard.SessionTTL) * time.Second
	}
	return c
}
