package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Generation GenerationConfig `mapstructure:"generation"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Upload     UploadConfig     `mapstructure:"upload"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// GeminiConfig configures both upstream generative calls. Timeouts are
// per-call bounds; there is no retry at any stage, so expiry surfaces as an
// upstream error rather than a re-attempt.
type GeminiConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	TextModel    string        `mapstructure:"text_model"`
	ImageModel   string        `mapstructure:"image_model"`
	TextTimeout  time.Duration `mapstructure:"text_timeout"`
	ImageTimeout time.Duration `mapstructure:"image_timeout"`
}

type GenerationConfig struct {
	MaxConcepts       int    `mapstructure:"max_concepts"`
	AspectRatioSuffix string `mapstructure:"aspect_ratio_suffix"`
	PlaceholderURL    string `mapstructure:"placeholder_url"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	LocalDir  string `mapstructure:"local_dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type UploadConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/memeforge.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.text_model", "gemini-2.5-pro")
	v.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.text_timeout", 60*time.Second)
	v.SetDefault("gemini.image_timeout", 120*time.Second)
	v.SetDefault("generation.max_concepts", 3)
	v.SetDefault("generation.aspect_ratio_suffix", " --ar 4:3")
	v.SetDefault("generation.placeholder_url", "https://placehold.co/600x400?text=Gen+Error")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.public_url", "/static")
	v.SetDefault("storage.bucket", "memeforge-templates")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("upload.max_file_bytes", int64(10<<20))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini.base_url", "GEMINI_BASE_URL")
	v.BindEnv("gemini.text_model", "GEMINI_TEXT_MODEL")
	v.BindEnv("gemini.image_model", "GEMINI_IMAGE_MODEL")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
