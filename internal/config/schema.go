package config

import "time"

// Config is the top-level booksmith configuration.
type Config struct {
	OpenAI   OpenAIConfig   `mapstructure:"openai" yaml:"openai"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	Model             string        `mapstructure:"model" yaml:"model"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	UseJSONMode       bool          `mapstructure:"use_json_mode" yaml:"use_json_mode"`
	EnforceSchema     bool          `mapstructure:"enforce_schema" yaml:"enforce_schema"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// DefaultsConfig holds defaults applied to new books.
type DefaultsConfig struct {
	Language       string `mapstructure:"language" yaml:"language"`
	WritingStyle   string `mapstructure:"writing_style" yaml:"writing_style"`
	Genre          string `mapstructure:"genre" yaml:"genre"`
	TargetAudience string `mapstructure:"target_audience" yaml:"target_audience"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// OutputConfig configures book export.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}
