package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every externally supplied setting. It is built once at process
// start and passed into the components that need it; nothing reads ambient
// environment state after Load returns.
type Config struct {
	// Telemetry backend
	BaseURL  string `mapstructure:"TB_BASE_URL"`
	Username string `mapstructure:"TB_USERNAME"`
	Password string `mapstructure:"TB_PASSWORD"`

	// Report server
	Port      string `mapstructure:"PORT"`
	StaticDir string `mapstructure:"STATIC_DIR"`

	// Fetch policy
	WindowHours int `mapstructure:"WINDOW_HOURS"`
	SampleLimit int `mapstructure:"SAMPLE_LIMIT"`

	// Recap artifacts
	RecapDir    string `mapstructure:"RECAP_DIR"`
	ArchivePath string `mapstructure:"ARCHIVE_PATH"`
	DevicesPath string `mapstructure:"DEVICES_PATH"`

	// Notification provider
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `mapstructure:"TWILIO_FROM"`
	TwilioTo         string `mapstructure:"TWILIO_TO"`

	// Notification rule: notify when RuleLeader's distance exceeds RuleRival's
	RuleLeader string `mapstructure:"RULE_LEADER"`
	RuleRival  string `mapstructure:"RULE_RIVAL"`
	RuleBody   string `mapstructure:"RULE_BODY"`

	// Device registry, loaded separately from DevicesPath.
	// Slice order defines ranking tie-break order.
	Devices []Device `mapstructure:"-"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Defaults double as the full key list: viper only unmarshals env-backed
	// keys it has seen, so every key gets a default, empty where none makes
	// sense.
	v.SetDefault("TB_BASE_URL", "http://localhost:8080")
	v.SetDefault("TB_USERNAME", "")
	v.SetDefault("TB_PASSWORD", "")
	v.SetDefault("PORT", ":8090")
	v.SetDefault("STATIC_DIR", "./static")
	v.SetDefault("WINDOW_HOURS", 24)
	v.SetDefault("SAMPLE_LIMIT", 10000)
	v.SetDefault("RECAP_DIR", "./recap")
	v.SetDefault("ARCHIVE_PATH", "./data/samples.db")
	v.SetDefault("DEVICES_PATH", "./devices.toml")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_FROM", "")
	v.SetDefault("TWILIO_TO", "")
	v.SetDefault("RULE_LEADER", "DeviceB")
	v.SetDefault("RULE_RIVAL", "DeviceA")
	v.SetDefault("RULE_BODY", "DeviceB covered more ground than DeviceA in the last 24 hours.")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.WindowHours <= 0 {
		return nil, fmt.Errorf("WINDOW_HOURS must be > 0, got %d", cfg.WindowHours)
	}
	if cfg.SampleLimit <= 0 {
		return nil, fmt.Errorf("SAMPLE_LIMIT must be > 0, got %d", cfg.SampleLimit)
	}

	return &cfg, nil
}
