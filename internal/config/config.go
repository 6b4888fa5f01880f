// Package config defines the csrf-token-server configuration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration. Field tags are koanf keys; the same keys
// are used in YAML files and, upper-cased with a CSRF_ prefix and "__" as the
// section separator, in the environment (CSRF_SERVER__PORT=8080).
type Config struct {
	Secret         string `koanf:"secret" json:"secret" yaml:"secret"`
	TokenCookie    string `koanf:"token_cookie" json:"token_cookie" yaml:"token_cookie"`
	ChecksumCookie string `koanf:"checksum_cookie" json:"checksum_cookie" yaml:"checksum_cookie"`
	CookieDomain   string `koanf:"cookie_domain" json:"cookie_domain" yaml:"cookie_domain"`
	TokenLength    int    `koanf:"token_length" json:"token_length" yaml:"token_length"`

	Server ServerSection `koanf:"server" json:"server" yaml:"server"`
	Log    LogSection    `koanf:"log" json:"log" yaml:"log"`
}

// ServerSection configures the HTTP runtime around the issuer.
type ServerSection struct {
	Bind string `koanf:"bind" json:"bind" yaml:"bind"`
	Port int    `koanf:"port" json:"port" yaml:"port"`

	// Engine selects the router: "chi" or "gin".
	Engine string `koanf:"engine" json:"engine" yaml:"engine"`

	// MetricsAddr enables a separate /metrics and /healthz listener when set.
	MetricsAddr string `koanf:"metrics_addr" json:"metrics_addr" yaml:"metrics_addr"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}

// Addr returns the listen address for the issuing server.
func (s ServerSection) Addr() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}
