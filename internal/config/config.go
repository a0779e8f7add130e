package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings for remote mode.
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds settings for the S3-compatible object storage used in
// remote mode. Audio and media land in separate buckets.
type MinIOConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	AudioBucket string
	MediaBucket string
}

// SupabaseConfig points at the hosted identity provider used for
// bearer-token verification in remote mode.
type SupabaseConfig struct {
	URL string
	Key string
}

// TranscriptionConfig configures the speech-to-text provider client.
type TranscriptionConfig struct {
	Token     string
	BaseURL   string
	FileField string
	Model     string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port           string
	UseMock        bool
	DataDir        string
	StaticDir      string
	LocalJWTSecret string
	SignedURLTTL   time.Duration
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Supabase       SupabaseConfig
	Transcription  TranscriptionConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "8080"), // default only for non-sensitive value
		UseMock:        getEnvTruthy("USE_MOCK"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		StaticDir:      getEnv("STATIC_DIR", "./static"),
		LocalJWTSecret: getEnv("LOCAL_JWT_SECRET", "local-dev-secret"),
		SignedURLTTL:   time.Duration(getEnvInt("SIGNED_URL_TTL_SECONDS", 3600)) * time.Second,
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:    getEnv("MINIO_ENDPOINT", ""),
			AccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:   getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:      getEnvBool("MINIO_USE_SSL", false),
			AudioBucket: getEnv("SUPABASE_BUCKET", "memos-audio"),
			MediaBucket: getEnv("SUPABASE_MEDIA_BUCKET", "memos-media"),
		},
		Supabase: SupabaseConfig{
			URL: getEnv("SUPABASE_URL", ""),
			Key: getEnv("SUPABASE_KEY", ""),
		},
		Transcription: TranscriptionConfig{
			Token:     getEnv("AI_BUILDER_TOKEN", ""),
			BaseURL:   getEnv("AI_BUILDER_BASE_URL", "https://space.ai-builders.com"),
			FileField: getEnv("AI_BUILDER_FILE_FIELD", "audio_file"),
			Model:     getEnv("AI_BUILDER_MODEL", "whisper-1"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvTruthy parses the permissive toggle format used for mode flags:
// "1", "true" and "yes" (any case) enable it, anything else disables it.
func getEnvTruthy(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
