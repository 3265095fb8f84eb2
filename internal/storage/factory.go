package storage

import (
	"fmt"
	"strings"
)

// Type selects the storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeMinIO Type = "minio"
	TypeS3    Type = "s3"
	TypeR2    Type = "r2"
)

// Config is the backend-agnostic storage configuration.
type Config struct {
	Type      Type
	LocalDir  string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	PublicURL string
}

// NewStorage creates an ObjectStorage for the configured backend. An empty
// type is auto-detected from the endpoint, defaulting to local disk.
func NewStorage(cfg *Config) (ObjectStorage, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = detectType(cfg.Endpoint)
	}

	switch storageType {
	case TypeLocal:
		return NewLocalStorage(&LocalConfig{
			Dir:       cfg.LocalDir,
			PublicURL: cfg.PublicURL,
		})
	case TypeMinIO:
		return NewMinIOStorage(&MinIOConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
		})
	case TypeS3, TypeR2:
		return NewS3Storage(&S3Config{
			Type:      storageType,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			PublicURL: cfg.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func detectType(endpoint string) Type {
	switch {
	case endpoint == "":
		return TypeLocal
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return TypeR2
	case strings.Contains(endpoint, "amazonaws.com"):
		return TypeS3
	default:
		return TypeMinIO
	}
}
