package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/postkeeper/internal/flagx"
	"github.com/dmitrijs2005/postkeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations accept either Go
// duration strings ("15m") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP                     string         `json:"endpoint_addr_http"`
	DatabaseDSN                          string         `json:"database_dsn"`
	RedisAddr                            string         `json:"redis_addr"`
	RedisPassword                        string         `json:"redis_password"`
	RedisDB                              *int           `json:"redis_db"`
	SecretKey                            string         `json:"secret_key"`
	AccessTokenValidityDuration          timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration         timex.Duration `json:"refresh_token_validity_duration"`
	RefreshedAccessTokenValidityDuration timex.Duration `json:"refreshed_access_token_validity_duration"`
	PasswordHashCost                     int            `json:"password_hash_cost"`
	PostsCacheTTL                        timex.Duration `json:"posts_cache_ttl"`
	CacheKeyPrefix                       string         `json:"cache_key_prefix"`
	LogLevel                             string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c / -config onto
// config. Fields absent from the file keep their current values. An
// unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlayString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlayString(&config.DatabaseDSN, c.DatabaseDSN)
	overlayString(&config.RedisAddr, c.RedisAddr)
	overlayString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	overlayString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RefreshedAccessTokenValidityDuration.Duration != 0 {
		config.RefreshedAccessTokenValidityDuration = c.RefreshedAccessTokenValidityDuration.Duration
	}
	if c.PasswordHashCost != 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
	if c.PostsCacheTTL.Duration != 0 {
		config.PostsCacheTTL = c.PostsCacheTTL.Duration
	}
	overlayString(&config.CacheKeyPrefix, c.CacheKeyPrefix)
	overlayString(&config.LogLevel, c.LogLevel)
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
