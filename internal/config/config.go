// Package config loads application configuration from environment
// variables. Required variables are enforced with must(); missing
// values abort startup with a fatal log message.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration. Types reflect how values are
// used: strings for identifiers and secrets, ints and durations for
// TTLs and scheduling.
type Config struct {
	Env            string        // application environment (dev/test/prod)
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host
	DBPort         string        // database port
	DBName         string        // database name
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token TTL in minutes
	RefreshTTLDays int           // refresh token TTL in days
	BcryptCost     int           // bcrypt cost for password hashing
	SweepInterval  time.Duration // how often the expiration sweeper runs
	SweepBatch     int           // max rows per status the sweeper rewrites per tick
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		SweepInterval:  envDur("SWEEP_INTERVAL", 5*time.Minute),
		SweepBatch:     envInt("SWEEP_BATCH", 500),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
