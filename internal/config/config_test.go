package config

import "testing"

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if err := validateConfig(cfg); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Default port %d", cfg.Server.Port)
	}
	if cfg.Scanner.MaxTextSize != 1<<20 {
		t.Errorf("Default max text size %d", cfg.Scanner.MaxTextSize)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Bad port", func(c *Config) { c.Server.Port = 0 }},
		{"Bad max text size", func(c *Config) { c.Scanner.MaxTextSize = -1 }},
		{"Bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"Audit without database", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.DatabaseURL = ""
		}},
		{"Bad rate limit", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerSecond = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
