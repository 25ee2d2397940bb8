// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings. Command-line flags override these.
type Config struct {
	DBPath        string
	Addr          string
	LogPath       string
	PickupAddress string
	JWTSecret     string
	Seed          bool
	TokenTTL      time.Duration
}

// Load reads the given env files (".env" when none are named) and then the
// process environment. Missing env files are ignored; variables already set
// in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	ttl, err := getEnvAsDuration("SUPPLYCHAIN_TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvAsBool("SUPPLYCHAIN_SEED", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBPath:        getEnv("SUPPLYCHAIN_DB", "supplychain.sqlite3"),
		Addr:          getEnv("SUPPLYCHAIN_ADDR", ":8080"),
		LogPath:       getEnv("SUPPLYCHAIN_LOG", ""),
		PickupAddress: getEnv("SUPPLYCHAIN_PICKUP_ADDRESS", ""),
		JWTSecret:     getEnv("SUPPLYCHAIN_JWT_SECRET", ""),
		Seed:          seed,
		TokenTTL:      ttl,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
