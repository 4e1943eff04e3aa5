package config

// LoggerConfig holds configuration for structured logging
type LoggerConfig struct {
	Level       string
	Format      string // "console" or "json"
	LogFile     string
	MaxSize     int // megabytes
	MaxBackups  int
	MaxAge      int // days
	Compress    bool
	ServiceName string
}

// LoadLoggerConfig loads logging configuration from environment variables
func LoadLoggerConfig(getenv func(string) string) LoggerConfig {
	return LoggerConfig{
		Level:       stringOrDefault(getenv, "LOG_LEVEL", "info"),
		Format:      stringOrDefault(getenv, "LOG_FORMAT", "console"),
		LogFile:     getenv("LOG_FILE"),
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      7,
		ServiceName: "saucecheck",
	}
}
