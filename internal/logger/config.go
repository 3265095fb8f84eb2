package logger

import (
	"io"
	"os"
	"strconv"
)

// EnvConfig holds extended logger configuration loaded from environment variables.
type EnvConfig struct {
	Level       string    // debug, info, warn, error
	Format      string    // json, text
	Output      io.Writer // output destination (highest priority)
	ServiceName string    // service name for log tagging

	Environment string // local, dev, prod

	LogFile     string // log file path
	LogFileOnly bool   // output only to file (not stdout)

	MaxSize    int  // max file size in MB before rotation
	MaxBackups int  // number of backup files to keep
	MaxAge     int  // max days to keep backup files
	Compress   bool // compress rotated files
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *EnvConfig {
	return &EnvConfig{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "json"),
		ServiceName: getEnv("SERVICE_NAME", "memeforge"),
		Environment: getEnv("APP_ENV", "local"),

		LogFile:     getEnv("LOG_FILE", "/var/log/memeforge/app.log"),
		LogFileOnly: getEnvBool("LOG_FILE_ONLY", false),

		MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 7),
		MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
		Compress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
