package endpoints

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds library defaults loaded from environment variables,
// optionally seeded from a .env file.
type Settings struct {
	EndpointsFile  string        `mapstructure:"endpoints_file"`
	LogLevel       string        `mapstructure:"log_level"`
	TimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
}

// LoadSettings reads settings from environment variables with sane defaults.
func LoadSettings() (*Settings, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("endpoints_file", "./configs/endpoints.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout_seconds", int64(defaultTimeoutSeconds))

	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if s.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	s.Timeout = time.Duration(s.TimeoutSeconds) * time.Second

	return &s, nil
}
