// Package csrf issues signed CSRF token/checksum cookie pairs.
package csrf

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/http/httpguts"
)

const (
	DefaultTokenCookieName    = "varnish_token"
	DefaultChecksumCookieName = "varnish_token_checksum"
	DefaultTokenLength        = 16
)

type Config struct {
	// Signing
	Secret string

	// Cookies
	TokenCookieName    string
	ChecksumCookieName string
	CookieDomain       string // if empty, uses r.Host

	// Entropy
	TokenLength int
	Source      Source // defaults to CryptoSource

	// Optional hooks for the surrounding runtime
	Observer Observer
}

// Observer receives the outcome of every issuance attempt.
type Observer interface {
	Issued(r *http.Request, elapsed time.Duration)
	Failed(r *http.Request, err error)
}

type Issuer struct {
	cfg Config
	gen *Generator
}

// New validates cfg, fills in defaults and returns an Issuer.
//
// Configuration problems (empty secret, negative token length, malformed
// cookie names or domain) are reported here so the caller can refuse to start.
func New(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}
	if !utf8.ValidString(cfg.Secret) {
		return nil, fmt.Errorf("secret is not valid UTF-8: %w", ErrInvalidConfig)
	}
	if cfg.TokenCookieName == "" {
		cfg.TokenCookieName = DefaultTokenCookieName
	}
	if cfg.ChecksumCookieName == "" {
		cfg.ChecksumCookieName = DefaultChecksumCookieName
	}
	if cfg.TokenLength == 0 {
		cfg.TokenLength = DefaultTokenLength
	}
	if cfg.TokenLength < 0 {
		return nil, fmt.Errorf("token length %d: %w", cfg.TokenLength, ErrInvalidLength)
	}
	if cfg.Source == nil {
		cfg.Source = CryptoSource{}
	}

	for _, name := range []string{cfg.TokenCookieName, cfg.ChecksumCookieName} {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("cookie name %q: %w", name, ErrInvalidConfig)
		}
	}
	if cfg.TokenCookieName == cfg.ChecksumCookieName {
		return nil, fmt.Errorf("token and checksum cookies share name %q: %w", cfg.TokenCookieName, ErrInvalidConfig)
	}
	if !validDomain(cfg.CookieDomain) {
		return nil, fmt.Errorf("cookie domain %q: %w", cfg.CookieDomain, ErrInvalidConfig)
	}

	return &Issuer{cfg: cfg, gen: NewGenerator(cfg.Source)}, nil
}

// Config returns a copy of the effective configuration.
func (p *Issuer) Config() Config {
	return p.cfg
}
