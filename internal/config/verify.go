package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JeanGrijp/csrf-token-server/csrf"
)

// Verify validates the configuration before anything binds a port.
func Verify(cfg *Config) error {
	if cfg.Secret == "" {
		return errors.New("secret is required")
	}
	if cfg.TokenLength <= 0 {
		return fmt.Errorf("token_length %d: %w", cfg.TokenLength, csrf.ErrInvalidLength)
	}
	if cfg.TokenCookie == "" || cfg.ChecksumCookie == "" {
		return errors.New("token_cookie and checksum_cookie must be set")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Port)
	}
	switch cfg.Engine {
	case EngineChi, EngineGin:
	default:
		return fmt.Errorf("server.engine %q: must be %q or %q", cfg.Engine, EngineChi, EngineGin)
	}
	if cfg.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q unknown", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q unknown", cfg.Format)
	}
	return nil
}
