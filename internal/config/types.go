package config

import "time"

// backing store for usage profiles
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
	StoreMemory   StoreKind = "memory"
)

type Config struct {
	GeminiAPIKey       string
	JWTSecret          string
	SupabaseConnString string
	RedisURL           string
	Environment        string
	Port               string

	QuotaStore        StoreKind
	ImageDailyLimit   int
	VideoDailyLimit   int
	VideoPollInterval time.Duration

	// ulule formatted rate, e.g. "120-M"
	RateLimit      string
	AllowedOrigins []string
}

// returns true when an event log table is reachable through the database
func (c *Config) HasDatabase() bool {
	return c.SupabaseConnString != ""
}
