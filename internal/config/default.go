package config

import "time"

// Default configuration values.
const (
	DefaultTokenCookie    = "varnish_token"
	DefaultChecksumCookie = "varnish_token_checksum"
	DefaultTokenLength    = 16

	DefaultBind            = "127.0.0.1"
	DefaultPort            = 9999
	DefaultEngine          = EngineChi
	DefaultShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Router engines.
const (
	EngineChi = "chi"
	EngineGin = "gin"
)

// Default returns the default configuration. Secret is left empty and must
// be supplied.
func Default() *Config {
	return &Config{
		TokenCookie:    DefaultTokenCookie,
		ChecksumCookie: DefaultChecksumCookie,
		TokenLength:    DefaultTokenLength,
		Server: ServerSection{
			Bind:            DefaultBind,
			Port:            DefaultPort,
			Engine:          DefaultEngine,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
