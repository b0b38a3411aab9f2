package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the process-wide configuration, built once at startup from the
// environment and passed explicitly through fx. Business logic never reads
// the environment directly.
type Config struct {
	Env           string
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret          string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	ResendAPIKey string
	FromEmail    string

	CORSOrigin string
	UploadDir  string
}

// NewConfig reads and validates the environment once.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Env:                getenv("APP_ENV", "development"),
		Port:               getenv("PORT", "8080"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      getenv("MONGO_DATABASE", "campus_manager"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		FromEmail:          getenv("FROM_EMAIL", "noreply@cms.com"),
		CORSOrigin:         getenv("CORS_ORIGIN", "http://localhost:5173"),
		UploadDir:          getenv("UPLOAD_DIR", "public/uploads"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("REFRESH_TOKEN_SECRET not set")
	}
	return cfg, nil
}

// IsProduction reports whether the process runs with production hardening
// (secure cookies, terse error bodies).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
