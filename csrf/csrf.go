package csrf

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	statusOK            = []byte(`{"status":"ok"}`)
	statusMissingDomain = []byte(`{"status":"error","error":"missing domain"}`)
	statusInvalidDomain = []byte(`{"status":"error","error":"invalid domain"}`)
	statusInternal      = []byte(`{"status":"error","error":"internal error"}`)
)

// Issued is the result of one issuance: the token, its checksum and the
// domain both cookies are scoped to.
type Issued struct {
	Token    string
	Checksum string
	Domain   string
}

// Issue resolves the cookie domain for r, generates a fresh token and signs it.
// Nothing is written; see ServeHTTP and Middleware for that.
func (p *Issuer) Issue(r *http.Request) (Issued, error) {
	cfg := p.cfg

	domain, err := ResolveDomain(cfg.CookieDomain, r.Host)
	if err != nil {
		return Issued{}, err
	}

	tok, err := p.gen.Generate(cfg.TokenLength)
	if err != nil {
		return Issued{}, fmt.Errorf("generate token: %w", err)
	}

	sum, err := Sign(tok, cfg.Secret)
	if err != nil {
		return Issued{}, err
	}

	return Issued{Token: tok, Checksum: sum, Domain: domain}, nil
}

// ServeHTTP answers every request, whatever its method or path, with a new
// token/checksum cookie pair and {"status":"ok"}.
//
// A request without a usable Host and without a configured domain gets a
// 400; the handler never panics on it.
func (p *Issuer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	iss, err := p.Issue(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.setCookies(w, iss)
	writeJSON(w, http.StatusOK, statusOK)
	p.observeIssued(r, start)
}

// Middleware sets the cookie pair on the response, injects the token into
// the request context and then calls next, leaving the body to next.
func (p *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		iss, err := p.Issue(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		p.setCookies(w, iss)
		p.observeIssued(r, start)

		next.ServeHTTP(w, r.WithContext(contextWithToken(r.Context(), iss.Token)))
	})
}

// setCookies writes both Set-Cookie headers verbatim. http.SetCookie is not
// used because downstream verifiers match on this exact attribute order.
func (p *Issuer) setCookies(w http.ResponseWriter, iss Issued) {
	cfg := p.cfg
	h := w.Header()
	h.Add("Set-Cookie", fmt.Sprintf("%s=%s; Domain=%s; Path=/", cfg.TokenCookieName, iss.Token, iss.Domain))
	h.Add("Set-Cookie", fmt.Sprintf("%s=%s; Domain=%s; Path=/; HttpOnly", cfg.ChecksumCookieName, iss.Checksum, iss.Domain))
}

func (p *Issuer) fail(w http.ResponseWriter, r *http.Request, err error) {
	if p.cfg.Observer != nil {
		p.cfg.Observer.Failed(r, err)
	}
	switch {
	case errors.Is(err, ErrMissingDomain):
		writeJSON(w, http.StatusBadRequest, statusMissingDomain)
		return
	case errors.Is(err, ErrInvalidDomain):
		writeJSON(w, http.StatusBadRequest, statusInvalidDomain)
		return
	}
	writeJSON(w, http.StatusInternalServerError, statusInternal)
}

func (p *Issuer) observeIssued(r *http.Request, start time.Time) {
	if p.cfg.Observer != nil {
		p.cfg.Observer.Issued(r, time.Since(start))
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
