// internal/workers/communication/send-escalation-notice/config.go
package sendescalationnotice

import (
	"strings"
	"time"

	"leadchat-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	EmailEnabled   bool
	SMSEnabled     bool
	FromEmail      string
	OperatorEmails []string
	SMSSenderID    string
	AWSRegion      string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		AWSRegion: "eu-central-1",
	}
}

// FromAppConfig builds the worker config from the application config. The
// operator inbox list is configured as a comma-separated string.
func FromAppConfig(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	c.EmailEnabled = cfg.Notifications.Email.Enabled
	c.SMSEnabled = cfg.Notifications.SMS.Enabled
	c.FromEmail = cfg.Notifications.Email.FromEmail
	c.OperatorEmails = splitOperators(cfg.Notifications.Email.Operators)
	c.SMSSenderID = cfg.Notifications.SMS.SenderID
	if cfg.Notifications.AWS.Region != "" {
		c.AWSRegion = cfg.Notifications.AWS.Region
	}
	return c
}

func splitOperators(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
