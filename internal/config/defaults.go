package config

import "time"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			APIKey:            "${OPENAI_API_KEY}",
			Model:             "gpt-4.1",
			MaxTokens:         1000,
			Temperature:       0.7,
			UseJSONMode:       true,
			EnforceSchema:     false,
			Timeout:           60 * time.Second,
			MaxRetries:        3,
			RetryDelay:        5 * time.Second,
			RequestsPerMinute: 60,
		},
		Defaults: DefaultsConfig{
			Language:       "english",
			WritingStyle:   "descriptive",
			Genre:          "fantasy",
			TargetAudience: "young adults",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8765,
		},
		Output: OutputConfig{
			Dir: "books",
		},
	}
}
