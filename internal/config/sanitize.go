package config

import "strings"

// Sanitize returns a copy of the config with the secret masked, for display.
func Sanitize(cfg *Config) *Config {
	sanitized := *cfg
	if sanitized.Secret != "" {
		sanitized.Secret = maskSecret(sanitized.Secret)
	}
	return &sanitized
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
