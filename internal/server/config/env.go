package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. Variables from the
// file given by -env-file (or ./.env when present) are loaded first without
// overriding variables that are already set.
//
//	ADDRESS, DATABASE_URL, JWT_SECRET, JWT_ISSUER, ACCESS_TOKEN_TTL,
//	REFRESH_TOKEN_TTL, STORAGE_TIMEOUT, REFRESH_TOKEN_BACKEND, REDIS_ADDR,
//	LOG_LEVEL
//
// Durations use time.ParseDuration syntax. Malformed values panic.
func parseEnv(config *Config) {
	if envFile := flagx.EnvFileFlag(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&config.EndpointAddrHTTP, "ADDRESS")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.SecretKey, "JWT_SECRET")
	envString(&config.Issuer, "JWT_ISSUER")
	envString(&config.RefreshTokenBackend, "REFRESH_TOKEN_BACKEND")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.LogLevel, "LOG_LEVEL")

	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_TTL")
	envDuration(&config.StorageTimeout, "STORAGE_TIMEOUT")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
