package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by parseEnv.
const (
	EnvHTTPAddr                = "HTTP_ADDR"
	EnvDatabaseDSN             = "DATABASE_DSN"
	EnvRedisAddr               = "REDIS_ADDR"
	EnvRedisPassword           = "REDIS_PASSWORD"
	EnvRedisDB                 = "REDIS_DB"
	EnvSecretKey               = "JWT_SECRET"
	EnvAccessTokenTTL          = "ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL         = "REFRESH_TOKEN_TTL"
	EnvRefreshedAccessTokenTTL = "REFRESHED_ACCESS_TOKEN_TTL"
	EnvPasswordHashCost        = "PASSWORD_HASH_COST"
	EnvPostsCacheTTL           = "POSTS_CACHE_TTL"
	EnvCacheKeyPrefix          = "CACHE_KEY_PREFIX"
	EnvLogLevel                = "LOG_LEVEL"
	defaultEnvFile             = ".env"
)

// parseEnv loads the given env files (".env" when none are named) without
// overriding variables already set, then copies recognized variables into
// config. A missing env file is not an error; a malformed value panics.
func parseEnv(config *Config, files ...string) {
	if len(files) == 0 {
		files = []string{defaultEnvFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&config.EndpointAddrHTTP, EnvHTTPAddr)
	setString(&config.DatabaseDSN, EnvDatabaseDSN)
	setString(&config.RedisAddr, EnvRedisAddr)
	setString(&config.RedisPassword, EnvRedisPassword)
	setInt(&config.RedisDB, EnvRedisDB)
	setString(&config.SecretKey, EnvSecretKey)
	setDuration(&config.AccessTokenValidityDuration, EnvAccessTokenTTL)
	setDuration(&config.RefreshTokenValidityDuration, EnvRefreshTokenTTL)
	setDuration(&config.RefreshedAccessTokenValidityDuration, EnvRefreshedAccessTokenTTL)
	setInt(&config.PasswordHashCost, EnvPasswordHashCost)
	setDuration(&config.PostsCacheTTL, EnvPostsCacheTTL)
	setString(&config.CacheKeyPrefix, EnvCacheKeyPrefix)
	setString(&config.LogLevel, EnvLogLevel)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func setDuration(dst *time.Duration, key string) {
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
