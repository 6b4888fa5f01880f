// Package csrf issues CSRF token/checksum cookie pairs for a verifier that
// sits downstream (for example a Varnish or nginx rule, or an application).
//
// How it works
//   - Every request gets a fresh alphanumeric token (16 characters by default)
//     in a readable cookie, and a checksum of that token in an HttpOnly cookie.
//   - The checksum is the lowercase hex MD5 of the canonical JSON record
//     {"salt":"<secret>","token":"<token>"}. A verifier holding the same
//     secret recomputes it with Sign or Verify and trusts only matching pairs.
//   - Both cookies carry Path=/ and the same Domain: the configured
//     CookieDomain, or the request Host when none is configured.
//
// # Configuration
//
// All behavior is driven by Config. Key fields include:
//   - Secret (required)
//   - TokenCookieName (default: "varnish_token")
//   - ChecksumCookieName (default: "varnish_token_checksum")
//   - CookieDomain (empty means use the request host)
//   - TokenLength (default: 16)
//   - Source (default: CryptoSource; use NewSeededSource or NewStepSource for
//     reproducible tokens)
//
// Typical usage
//
//	iss, err := csrf.New(csrf.Config{Secret: os.Getenv("CSRF_SECRET")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":9999", iss)
//
// To issue cookies in front of an existing handler instead:
//
//	protected := iss.Middleware(appMux)
//	// handlers read the token with csrf.TokenFromContext(r.Context())
//
// The server never validates requests itself; Verify exists for verifiers
// written in Go.
package csrf
