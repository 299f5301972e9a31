package utils

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GetEnvVariable returns the environment value for key or fallback.
func GetEnvVariable(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func GetEnvInt64(key string, fallback int64) int64 {
	if value, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return value
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func ParseFloatToDecimal(number *float64) *decimal.Decimal {
	if number == nil {
		return nil
	}
	d := decimal.NewFromFloat(*number)
	return &d
}

var fileBaseUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeFileBase replaces every non alphanumeric rune with '-'.
func SanitizeFileBase(name string) string {
	return fileBaseUnsafe.ReplaceAllString(name, "-")
}

// TrimToLower is a small helper for case-insensitive filters.
func TrimToLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
