package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseDSN string

	JWTSecret string

	// StorageDriver is "local" or "minio".
	StorageDriver  string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// AllowedExtensions is the lowercase upload allow-list.
	AllowedExtensions []string
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DSN",
		"host=localhost port=5432 user=postgres password=postgres dbname=guidelines sslmode=disable")
	v.SetDefault("JWT_SECRET", "change-this-in-production")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "attachments")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("ALLOWED_EXTENSIONS", "pdf,png,jpg,jpeg,doc,docx")

	cfg := &Config{
		Port:           v.GetString("PORT"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		StorageDriver:  v.GetString("STORAGE_DRIVER"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
	}

	for _, ext := range strings.Split(v.GetString("ALLOWED_EXTENSIONS"), ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			cfg.AllowedExtensions = append(cfg.AllowedExtensions, ext)
		}
	}

	SetJWTSecret(cfg.JWTSecret)

	return cfg, nil
}
