package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location relative to the working
// directory.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port                   string   `yaml:"port"`
	LogLevel               string   `yaml:"logLevel"`
	DatabaseURL            string   `yaml:"databaseURL"`
	MinioEndpoint          string   `yaml:"minioEndpoint"`
	MinioAccessKey         string   `yaml:"minioAccessKey"`
	MinioSecretKey         string   `yaml:"minioSecretKey"`
	MinioBucket            string   `yaml:"minioBucket"`
	MinioUseSSL            bool     `yaml:"minioUseSSL"`
	MinioPublicBaseURL     string   `yaml:"minioPublicBaseURL"`
	RedisAddr              string   `yaml:"redisAddr"`
	RedisPassword          string   `yaml:"redisPassword"`
	ListingCacheTTLSeconds int      `yaml:"listingCacheTTLSeconds"`
	MaxUploadBytes         int64    `yaml:"maxUploadBytes"`
	AllowedExtensions      []string `yaml:"allowedExtensions"`
	ImageRequired          bool     `yaml:"imageRequired"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.MinioUseSSL = b
		}
	}
	if v := os.Getenv("MINIO_PUBLIC_BASE_URL"); v != "" {
		cfg.MinioPublicBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("SCHOOLS_LISTING_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.ListingCacheTTLSeconds = n
		}
	}
	if v := os.Getenv("SCHOOLS_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("SCHOOLS_ALLOWED_EXTENSIONS"); v != "" {
		cfg.AllowedExtensions = splitCSV(v)
	}
	if v := os.Getenv("SCHOOLS_IMAGE_REQUIRED"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.ImageRequired = b
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if strings.TrimSpace(cfg.MinioEndpoint) == "" {
		return errors.New("config: minioEndpoint is required (set in config.yaml or MINIO_ENDPOINT)")
	}
	if strings.TrimSpace(cfg.MinioAccessKey) == "" || strings.TrimSpace(cfg.MinioSecretKey) == "" {
		return errors.New("config: minio credentials are required (set in config.yaml or MINIO_ACCESS_KEY/MINIO_SECRET_KEY)")
	}
	if strings.TrimSpace(cfg.MinioBucket) == "" {
		return errors.New("config: minioBucket is required (set in config.yaml or MINIO_BUCKET)")
	}
	if cfg.ListingCacheTTLSeconds < 0 {
		return errors.New("config: listingCacheTTLSeconds must be >= 0")
	}
	if cfg.MaxUploadBytes < 0 {
		return errors.New("config: maxUploadBytes must be >= 0")
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
