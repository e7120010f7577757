package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	MigrationsDir string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	TokenTTL      time.Duration
	CacheTTL      time.Duration
	PublicRPS     int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/yisu?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC"),
		MigrationsDir: env("MIGRATIONS_DIR", ""),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		JWTSecret:     env("JWT_SECRET", ""),
		TokenTTL:      time.Duration(atoi("TOKEN_TTL_MINUTES", 720)) * time.Minute,
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		PublicRPS:     atoi("PUBLIC_RPS", 50),
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-only-secret"
		log.Warn().Msg("JWT_SECRET is empty, using an insecure development secret")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
