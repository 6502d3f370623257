package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// Role-based overrides for admin/staff. Off by default; the product has
	// not decided whether staff may touch other organizers' events.
	AllowPrivilegedView     bool
	AllowPrivilegedMutation bool
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		MySQLDSN:                getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/eventease?charset=utf8mb4&parseTime=True&loc=UTC"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		JWTSecret:               getEnv("JWT_SECRET", "change-me"),
		AllowPrivilegedView:     getEnvBool("ALLOW_PRIVILEGED_VIEW", false),
		AllowPrivilegedMutation: getEnvBool("ALLOW_PRIVILEGED_MUTATION", false),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
