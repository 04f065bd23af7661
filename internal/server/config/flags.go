package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-e string   Redis address
//	-w string   Redis password
//	-n int      Redis database number
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-f int      refreshed access token validity, minutes
//	-k int      bcrypt cost
//	-p int      posts cache ttl, seconds
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-e", "-w", "-n", "-s", "-t", "-r", "-f", "-k", "-p", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "e", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database number")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTTL := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTTL := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	refreshedTTL := fs.Int("f", int(config.RefreshedAccessTokenValidityDuration.Minutes()), "refreshed access token validity (in minutes)")

	fs.IntVar(&config.PasswordHashCost, "k", config.PasswordHashCost, "bcrypt cost")
	postsTTL := fs.Int("p", int(config.PostsCacheTTL.Seconds()), "posts cache ttl (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTTL) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTTL) * time.Minute
	config.RefreshedAccessTokenValidityDuration = time.Duration(*refreshedTTL) * time.Minute
	config.PostsCacheTTL = time.Duration(*postsTTL) * time.Second
}
