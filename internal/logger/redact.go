package logger

import (
	"log/slog"
	"strings"
)

// Attribute keys whose values are never written.
var sensitiveKeyPatterns = []string{
	"secret",
	"salt",
	"password",
}

// Exact keys that are sensitive but too short to match as substrings.
var sensitiveKeys = map[string]bool{
	"token":    true,
	"checksum": true,
}

const redactedValue = "***REDACTED***"

// redactSensitive is a slog ReplaceAttr hook. slog calls it for each leaf
// attribute, including those nested in groups.
func redactSensitive(a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] {
		return slog.String(a.Key, redactedValue)
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(key, pattern) {
			return slog.String(a.Key, redactedValue)
		}
	}
	return a
}
