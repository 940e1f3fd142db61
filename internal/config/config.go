// internal/config/config.go
//
// Process configuration for the guesser server and CLI.
//
// Sources (later wins):
//   1. Built-in defaults.
//   2. `.env` in the working directory (joho/godotenv, development only).
//   3. Process environment.
//   4. ENGINE_FILE: optional YAML overriding question-selection tuning.
//
// Environment variables:
//   PORT, LOG_LEVEL, DATABASE_PATH ("memory" disables SQLite), CATALOG_FILE,
//   JWT_SECRET, JWT_EXPIRES_DAYS, STATE_SECRET, STATE_TTL_HOURS, DAILY_SALT,
//   CLIENT_ORIGIN, COOKIE_NAME, NODE_ENV, ENGINE_FILE

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/pokeguess/internal/game"
)

const devSecret = "dev_secret_change_me"

// Config holds the application configuration.
type Config struct {
	Port         string
	LogLevel     string
	DatabasePath string
	CatalogFile  string
	JWTSecret    string
	JWTExpiry    time.Duration
	StateSecret  string
	StateTTL     time.Duration
	DailySalt    string
	ClientOrigin string
	CookieName   string
	Production   bool
	Engine       game.Config
}

// UseMemoryStore reports whether results should stay in memory.
func (c *Config) UseMemoryStore() bool { return c.DatabasePath == "" || c.DatabasePath == "memory" }

// Load reads `.env` (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	jwtSecret := getEnv("JWT_SECRET", devSecret)
	c := &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/app.db"),
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		JWTSecret:    jwtSecret,
		JWTExpiry:    time.Duration(getEnvInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		StateSecret:  getEnv("STATE_SECRET", jwtSecret),
		StateTTL:     time.Duration(getEnvInt("STATE_TTL_HOURS", 24)) * time.Hour,
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		CookieName:   getEnv("COOKIE_NAME", "pokeguess_token"),
		Production:   os.Getenv("NODE_ENV") == "production",
		Engine:       game.DefaultConfig(),
	}

	if path := os.Getenv("ENGINE_FILE"); path != "" {
		eng, err := LoadEngineFile(path, c.Engine)
		if err != nil {
			return nil, err
		}
		c.Engine = eng
	}
	if c.Production && c.JWTSecret == devSecret {
		return nil, fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	return c, nil
}

// LoadEngineFile overlays YAML tuning onto base; keys missing from the file
// keep base's values.
func LoadEngineFile(path string, base game.Config) (game.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: engine file: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("config: engine file %s: %w", path, err)
	}
	if out.TopK < 1 || out.MinSplitQuality <= 0 || out.MinSplitQuality > 0.5 || out.MaxNumberQuestions < 0 {
		return base, fmt.Errorf("config: engine file %s: tuning out of range", path)
	}
	return out, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
