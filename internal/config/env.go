package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultImageDailyLimit   = 50
	defaultVideoDailyLimit   = 10
	defaultVideoPollInterval = 10 * time.Second
	defaultRateLimit         = "120-M"
	defaultPort              = "8080"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	supabaseConnStr := os.Getenv("SUPABASE_CONNECTION_STRING")
	redisURL := os.Getenv("REDIS_URL")
	environment := os.Getenv("ENVIRONMENT")
	port := os.Getenv("PORT")

	if geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	if port == "" {
		port = defaultPort
	}

	store := StoreKind(strings.ToLower(os.Getenv("QUOTA_STORE")))
	if store == "" {
		store = StorePostgres
	}

	switch store {
	case StorePostgres:
		if supabaseConnStr == "" {
			return nil, fmt.Errorf("SUPABASE_CONNECTION_STRING environment variable is required for the postgres quota store")
		}
	case StoreRedis:
		if redisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable is required for the redis quota store")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("QUOTA_STORE must be one of postgres, redis, memory (got %q)", store)
	}

	imageLimit, err := intFromEnv("IMAGE_DAILY_LIMIT", defaultImageDailyLimit)
	if err != nil {
		return nil, err
	}

	videoLimit, err := intFromEnv("VIDEO_DAILY_LIMIT", defaultVideoDailyLimit)
	if err != nil {
		return nil, err
	}

	pollInterval := defaultVideoPollInterval
	if raw := os.Getenv("VIDEO_POLL_INTERVAL"); raw != "" {
		pollInterval, err = time.ParseDuration(raw)
		if err != nil || pollInterval <= 0 {
			return nil, fmt.Errorf("VIDEO_POLL_INTERVAL must be a positive duration (got %q)", raw)
		}
	}

	rateLimit := os.Getenv("RATE_LIMIT")
	if rateLimit == "" {
		rateLimit = defaultRateLimit
	}

	return &Config{
		GeminiAPIKey:       geminiKey,
		JWTSecret:          jwtSecret,
		SupabaseConnString: supabaseConnStr,
		RedisURL:           redisURL,
		Environment:        environment,
		Port:               port,
		QuotaStore:         store,
		ImageDailyLimit:    imageLimit,
		VideoDailyLimit:    videoLimit,
		VideoPollInterval:  pollInterval,
		RateLimit:          rateLimit,
		AllowedOrigins:     splitList(os.Getenv("ALLOWED_ORIGINS")),
	}, nil
}

// reads a non-negative integer, falling back when unset
func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer (got %q)", key, raw)
	}

	return value, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
