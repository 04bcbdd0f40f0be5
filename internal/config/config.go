package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	UploadDir         string        `mapstructure:"upload_dir" yaml:"upload_dir"`
	PublicBaseURL     string        `mapstructure:"public_base_url" yaml:"public_base_url"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	// WSMessageRateLimit caps inbound push messages per connection per
	// minute. Zero disables the limit.
	WSMessageRateLimit int `mapstructure:"ws_message_rate_limit" yaml:"ws_message_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		DatabasePath:       "roomcast.db",
		UploadDir:          "uploads",
		PublicBaseURL:      "http://localhost:8080",
		LogLevel:           "info",
		WSMessageRateLimit: 120,
	}
}
