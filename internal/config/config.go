// Package config reads settings from the environment and an optional .env file
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting compass reads from the environment
type Config struct {
	AppEnv        string
	DatabaseURL   string
	GeminiAPIKey  string
	GeminiModel   string
	Port          int
	MockMode      bool
	LogFile       string
	MigrationsDir string
	SQLDir        string
	BackupDir     string
}

const (
	DefaultPort          = 5000
	DefaultGeminiModel   = "gemini-1.5-flash"
	DefaultLogFile       = "compass.log"
	DefaultMigrationsDir = "./migrations"
	DefaultBackupDir     = "./backups"
)

// LoadEnv loads .env files into the environment when running in
// development, which is the case when APP_ENV (or NODE_ENV) is empty or
// "development". Variables already set are never overridden and a missing
// file is not an error.
func LoadEnv(files ...string) error {
	env := appEnv()
	if env != "" && env != "development" {
		return nil
	}
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func appEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return os.Getenv("NODE_ENV")
}

// Get builds a Config from the current environment
func Get() *Config {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = DefaultPort
	}

	return &Config{
		AppEnv:        appEnv(),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:   getOr("GEMINI_MODEL", DefaultGeminiModel),
		Port:          port,
		MockMode:      parseBool(os.Getenv("MOCK_MODE")),
		LogFile:       getOr("LOG_FILE", DefaultLogFile),
		MigrationsDir: getOr("MIGRATIONS_DIR", DefaultMigrationsDir),
		SQLDir:        os.Getenv("SQL_DIR"),
		BackupDir:     getOr("BACKUP_DIR", DefaultBackupDir),
	}
}

// Load is LoadEnv followed by Get
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	return Get(), nil
}

// Production reports whether APP_ENV is production
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func getOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
