package utils

import (
	"fmt"
	"os"
	"strings"
)

// GetEnv returns the value of key or defaultValue when it is unset or empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParsePairs parses "k1=v1,k2=v2" into a map. Keys and values are trimmed.
// An empty input yields an empty map.
func ParsePairs(raw string) (map[string]string, error) {
	pairs := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return pairs, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", entry)
		}
		pairs[key] = strings.TrimSpace(value)
	}

	return pairs, nil
}
