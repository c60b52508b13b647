package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Scanner   ScannerConfig   `yaml:"scanner" mapstructure:"scanner"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Notify    NotifyConfig    `yaml:"notify" mapstructure:"notify"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	DashboardDir string        `yaml:"dashboard_dir" mapstructure:"dashboard_dir"`
}

// ScannerConfig contains PII scanning configuration
type ScannerConfig struct {
	// MaxTextSize caps the request payload accepted for scanning, in bytes.
	MaxTextSize int `yaml:"max_text_size" mapstructure:"max_text_size"`
	// PreserveFormat keeps separator characters visible in partial masks.
	PreserveFormat bool `yaml:"preserve_format" mapstructure:"preserve_format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// AuditConfig contains compliance audit trail configuration
type AuditConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	// ExportDir receives Parquet exports produced by auditexport.
	ExportDir string `yaml:"export_dir" mapstructure:"export_dir"`
}

// NotifyConfig contains DPO notification configuration
type NotifyConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// CacheConfig contains scan result cache configuration
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL string        `yaml:"redis_url" mapstructure:"redis_url"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig contains per-client API rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Events          struct {
		BroadcastDetections  bool `yaml:"broadcast_detections" mapstructure:"broadcast_detections"`
		BroadcastScans       bool `yaml:"broadcast_scans" mapstructure:"broadcast_scans"`
		BroadcastSystem      bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
		BroadcastConnections bool `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
	} `yaml:"events" mapstructure:"events"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			DashboardDir: "web",
		},
		Scanner: ScannerConfig{
			MaxTextSize:    1 << 20, // 1MB
			PreserveFormat: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File: struct {
				Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
				Path     string `yaml:"path" mapstructure:"path"`
				MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
				MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
				Compress bool   `yaml:"compress" mapstructure:"compress"`
			}{
				Enabled:  false,
				Path:     "logs/sentinel.log",
				MaxSize:  100, // MB
				MaxAge:   30,  // days
				Compress: true,
			},
		},
		Audit: AuditConfig{
			Enabled:     false,
			DatabaseURL: "postgres://localhost:5432/lgpd_sentinel?sslmode=disable",
			ExportDir:   "exports",
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Cache: CacheConfig{
			Enabled:  false,
			RedisURL: "localhost:6379",
			DB:       0,
			TTL:      5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 50,
			Burst:             100,
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			Path:            "/ws",
			MaxConnections:  100,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxMessageSize:  512,
			AllowedOrigins:  []string{"*"}, // Allow all origins for development
			Events: struct {
				BroadcastDetections  bool `yaml:"broadcast_detections" mapstructure:"broadcast_detections"`
				BroadcastScans       bool `yaml:"broadcast_scans" mapstructure:"broadcast_scans"`
				BroadcastSystem      bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
				BroadcastConnections bool `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
			}{
				BroadcastDetections:  true,
				BroadcastScans:       true,
				BroadcastSystem:      true,
				BroadcastConnections: true,
			},
		},
	}
}
