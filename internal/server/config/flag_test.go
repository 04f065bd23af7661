package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-e", "redis:6379", "-w", "pw", "-n", "2",
				"-s", "secret", "-t", "180", "-r", "10080", "-f", "15", "-k", "12", "-p", "60", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:                     "127.0.0.1:9090",
				DatabaseDSN:                          "db",
				RedisAddr:                            "redis:6379",
				RedisPassword:                        "pw",
				RedisDB:                              2,
				SecretKey:                            "secret",
				AccessTokenValidityDuration:          3 * time.Hour,
				RefreshTokenValidityDuration:         7 * 24 * time.Hour,
				RefreshedAccessTokenValidityDuration: 15 * time.Minute,
				PasswordHashCost:                     12,
				PostsCacheTTL:                        time.Minute,
				LogLevel:                             "debug",
			},
		},
		{
			name:        "non-numeric ttl",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
