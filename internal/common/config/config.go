// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Guard         GuardConfig             `mapstructure:"guard"`
	QaLab         QaLabConfig             `mapstructure:"qa_lab"`
	Escalation    EscalationConfig        `mapstructure:"escalation"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Registry      RegistryConfig          `mapstructure:"registry"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// GuardConfig holds settings for the apply-response-guards worker.
type GuardConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	RecentMessages  int    `mapstructure:"recent_messages"` // session window kept in Redis
	SessionTTL      int    `mapstructure:"session_ttl"`     // seconds
}

// QaLabConfig holds settings for the analyze-intake-coverage worker.
type QaLabConfig struct {
	ReportTTL int `mapstructure:"report_ttl"` // seconds, Redis report cache
	MaxCases  int `mapstructure:"max_cases"`  // hard cap per analysis job
}

// EscalationConfig holds settings for the decide-human-escalation worker.
type EscalationConfig struct {
	HotLeadThreshold  float64 `mapstructure:"hot_lead_threshold"`
	HotLeadAction     string  `mapstructure:"hot_lead_action"` // notify_only | switch_to_operator
	HandoverMessageTR string  `mapstructure:"handover_message_tr"`
	HandoverMessageEN string  `mapstructure:"handover_message_en"`
}

// NotificationConfig holds settings for the send-escalation-notice worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		Operators string `mapstructure:"operators"` // comma-separated operator inbox list
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// RegistryConfig points at the worker registry document.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
