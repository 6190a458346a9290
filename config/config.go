package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName     = "kierto-listing-ai"
	EnvFileName = "config.env"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 3
)

// LoadEnvFile loads environment variables from the config file in the
// user's config directory, then from a .env in the working directory.
// Errors are ignored since the files may not exist.
func LoadEnvFile() {
	if configBase, err := os.UserConfigDir(); err == nil {
		_ = godotenv.Load(filepath.Join(configBase, AppName, EnvFileName))
	}
	_ = godotenv.Load(".env")
}

// Provider names the generation backend: "openai" (default) or "gemini".
func Provider() string {
	switch os.Getenv("LISTING_AI_PROVIDER") {
	case "gemini":
		return "gemini"
	default:
		return "openai"
	}
}

// RequestTimeout is the hard deadline for a single generation call.
// LISTING_AI_TIMEOUT_SECONDS, default 30.
func RequestTimeout() time.Duration {
	if v := os.Getenv("LISTING_AI_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultTimeout
}

// BatchConcurrency bounds how many batch items run at once.
// LISTING_AI_BATCH_CONCURRENCY, default 3.
func BatchConcurrency() int {
	if v := os.Getenv("LISTING_AI_BATCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultConcurrency
}

// CacheDBPath is where the SQLite description cache lives. Empty disables
// caching.
func CacheDBPath() string {
	return os.Getenv("LISTING_AI_CACHE_DB")
}

// UploadBaseURL is the CDN upload endpoint root.
func UploadBaseURL() string {
	return os.Getenv("CDN_UPLOAD_URL")
}

// UploadPreset names the unsigned CDN upload preset.
func UploadPreset() string {
	return os.Getenv("CDN_UPLOAD_PRESET")
}

// UploadAPIKey is the CDN API key for signed uploads.
func UploadAPIKey() string {
	return os.Getenv("CDN_API_KEY")
}

// UploadAPISecret is the CDN API secret. Setting it switches uploads to
// signed mode.
func UploadAPISecret() string {
	return os.Getenv("CDN_API_SECRET")
}

// MissingKeys returns the required environment variables that are unset for
// the chosen provider. Empty means ready to start.
func MissingKeys(provider string) []string {
	var required []string
	switch provider {
	case "gemini":
		required = []string{"GEMINI_API_KEY"}
	default:
		required = []string{"OPENAI_API_KEY"}
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
