package config

import (
	"time"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/config"
)

// Model holds the configuration for the vision model gateway.
type Model struct {
	Provider            string        `mapstructure:"provider"`
	APIKey              string        `mapstructure:"api_key"`
	Name                string        `mapstructure:"name"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	Temperature         float64       `mapstructure:"temperature"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

// Image holds upload normalization settings.
type Image struct {
	MaxDimension   int   `mapstructure:"max_dimension"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// Signal holds the bounds applied to the prediction output contract.
type Signal struct {
	NoSignalConfidenceCeiling int    `mapstructure:"no_signal_confidence_ceiling"`
	MaxReasonLength           int    `mapstructure:"max_reason_length"`
	DefaultAsset              string `mapstructure:"default_asset"`
	DefaultDurationSeconds    int    `mapstructure:"default_duration_seconds"`
}

// Ledger holds the feedback ledger storage configuration.
type Ledger struct {
	StoragePath string `mapstructure:"storage_path"`
	LogLevel    string `mapstructure:"log_level"`
}

// Reset holds the shared secret gating the ledger purge. An empty secret
// disables the reset endpoint entirely.
type Reset struct {
	Secret string `mapstructure:"secret"`
}

// Telegram holds configuration for the operator alert notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the predictor service.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	API      config.API    `mapstructure:"api"`
	Model    Model         `mapstructure:"model"`
	Image    Image         `mapstructure:"image"`
	Signal   Signal        `mapstructure:"signal"`
	Ledger   Ledger        `mapstructure:"ledger"`
	Reset    Reset         `mapstructure:"reset"`
	Telegram Telegram      `mapstructure:"telegram"`
}

// Load loads the predictor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Model.Timeout <= 0 {
		cfg.Model.Timeout = 60 * time.Second
	}
	if cfg.Model.MaxRequestPerMinute <= 0 {
		cfg.Model.MaxRequestPerMinute = 10
	}
	if cfg.Model.MaxTokenPerMinute <= 0 {
		cfg.Model.MaxTokenPerMinute = 1_000_000
	}
	if cfg.Image.MaxDimension <= 0 {
		cfg.Image.MaxDimension = 1024
	}
	if cfg.Signal.NoSignalConfidenceCeiling <= 0 {
		cfg.Signal.NoSignalConfidenceCeiling = 55
	}
	if cfg.Signal.MaxReasonLength <= 0 {
		cfg.Signal.MaxReasonLength = 240
	}
	if cfg.Signal.DefaultDurationSeconds <= 0 {
		cfg.Signal.DefaultDurationSeconds = 90
	}
	if cfg.Ledger.StoragePath == "" {
		cfg.Ledger.StoragePath = "feedback.db"
	}

	return &cfg, nil
}
