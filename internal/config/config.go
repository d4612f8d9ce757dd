package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	AliasFile string

	FuzzyThreshold     float64
	FuzzyMaxCandidates int

	MinComparisonVendors  int
	MinStatisticalRecords int

	WatchDir         string
	WatchIntervalSec int

	LogLevel     string
	LogFormat    string
	LogFile      string
	LogMaxSizeMB int
	LogAddSource bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "procurement.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		AliasFile: getEnv("ALIAS_FILE", ""),

		FuzzyThreshold:     getEnvFloat("FUZZY_THRESHOLD", 0.80),
		FuzzyMaxCandidates: getEnvInt("FUZZY_MAX_CANDIDATES", 0),

		MinComparisonVendors:  getEnvInt("MIN_COMPARISON_VENDORS", 2),
		MinStatisticalRecords: getEnvInt("MIN_STATISTICAL_RECORDS", 1),

		WatchDir:         getEnv("WATCH_DIR", filepath.Join(cwd, "inbox")),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 60),

		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogFile:      getEnv("LOG_FILE", ""),
		LogMaxSizeMB: getEnvInt("LOG_MAX_SIZE_MB", 20),
		LogAddSource: getEnvBool("LOG_ADD_SOURCE", false),
	}

	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		return Config{}, fmt.Errorf("FUZZY_THRESHOLD must be in (0, 1], got %v", cfg.FuzzyThreshold)
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
