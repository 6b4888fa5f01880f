package csrf

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, domain string) *Issuer {
	t.Helper()
	p, err := New(Config{
		Secret:             "secret_value",
		TokenCookieName:    "my_token",
		ChecksumCookieName: "my_token_checksum",
		CookieDomain:       domain,
		Source:             NewStepSource(10_000, 10_000_000),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func getCookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func serve(h http.Handler, host string) *http.Response {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = host
	h.ServeHTTP(rec, req)
	return rec.Result()
}

// Returns {"status":"ok"} with a JSON content type.
func TestReturnsJSONStatusOK(t *testing.T) {
	res := serve(newTestIssuer(t, ""), "foo.com")
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", body)
	}
	if len(body) != 15 {
		t.Fatalf("expected 15 byte body, got %d", len(body))
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

// The exact header lines are part of the contract with downstream verifiers.
func TestSetCookieHeadersLiteral(t *testing.T) {
	res := serve(newTestIssuer(t, ""), "foo.com")
	defer res.Body.Close()

	got := res.Header.Values("Set-Cookie")
	want := []string{
		"my_token=AAAAAAABBBBBBBCC; Domain=foo.com; Path=/",
		"my_token_checksum=22002be6cfc130a4ac88385ad8adfa55; Domain=foo.com; Path=/; HttpOnly",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d Set-Cookie headers, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Set-Cookie[%d]: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestTokenCookieUsesRequestDomain(t *testing.T) {
	res := serve(newTestIssuer(t, ""), "foo.com")
	defer res.Body.Close()

	c := getCookieByName(res, "my_token")
	if c == nil {
		t.Fatalf("expected Set-Cookie %q", "my_token")
	}
	if c.Value != "AAAAAAABBBBBBBCC" {
		t.Fatalf("token mismatch: got %q", c.Value)
	}
	if c.Domain != "foo.com" || c.Path != "/" {
		t.Fatalf("cookie scope mismatch: domain=%q path=%q", c.Domain, c.Path)
	}
	if c.HttpOnly {
		t.Fatalf("token cookie must stay readable by scripts")
	}
}

func TestChecksumCookieIsHttpOnly(t *testing.T) {
	res := serve(newTestIssuer(t, ""), "foo2.com")
	defer res.Body.Close()

	c := getCookieByName(res, "my_token_checksum")
	if c == nil {
		t.Fatalf("expected Set-Cookie %q", "my_token_checksum")
	}
	if c.Value != "22002be6cfc130a4ac88385ad8adfa55" {
		t.Fatalf("checksum mismatch: got %q", c.Value)
	}
	if c.Domain != "foo2.com" || c.Path != "/" {
		t.Fatalf("cookie scope mismatch: domain=%q path=%q", c.Domain, c.Path)
	}
	if !c.HttpOnly {
		t.Fatalf("checksum cookie should be HttpOnly")
	}
}

func TestConfiguredDomainOverridesHost(t *testing.T) {
	res := serve(newTestIssuer(t, "example.org"), "foo.com")
	defer res.Body.Close()

	for _, name := range []string{"my_token", "my_token_checksum"} {
		c := getCookieByName(res, name)
		if c == nil {
			t.Fatalf("expected Set-Cookie %q", name)
		}
		if c.Domain != "example.org" {
			t.Fatalf("%s domain: got %q want %q", name, c.Domain, "example.org")
		}
	}
}

// Any method and path gets the same treatment.
func TestAnyMethodAndPath(t *testing.T) {
	p := newTestIssuer(t, "")
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions} {
		for _, path := range []string{"/", "/csrf", "/a/b/c?x=1"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(method, path, strings.NewReader("ignored"))
			req.Host = "foo.com"
			p.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("%s %s: expected 200, got %d", method, path, rec.Code)
			}
			if n := len(rec.Result().Header.Values("Set-Cookie")); n != 2 {
				t.Fatalf("%s %s: expected 2 cookies, got %d", method, path, n)
			}
		}
	}
}

func TestMissingDomainReturnsBadRequest(t *testing.T) {
	p := newTestIssuer(t, "")

	res := serve(p, "")
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if n := len(res.Header.Values("Set-Cookie")); n != 0 {
		t.Fatalf("expected no cookies on error, got %d", n)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"status":"error"`) {
		t.Fatalf("expected JSON error body, got %q", body)
	}

	// still serving afterwards
	res2 := serve(p, "foo.com")
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after a failed request, got %d", res2.StatusCode)
	}
}

// A Host carrying cookie attribute separators must not reach Set-Cookie.
func TestInvalidHostReturnsBadRequest(t *testing.T) {
	p := newTestIssuer(t, "")

	for _, host := range []string{"a.com;Path=/x", "a.com; HttpOnly", "a.com,b.com"} {
		res := serve(p, host)
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("host %q: expected 400, got %d", host, res.StatusCode)
		}
		if n := len(res.Header.Values("Set-Cookie")); n != 0 {
			t.Fatalf("host %q: expected no cookies, got %d", host, n)
		}
		if string(body) != `{"status":"error","error":"invalid domain"}` {
			t.Fatalf("host %q: unexpected body %q", host, body)
		}
	}
}

func TestIssueChecksumVerifies(t *testing.T) {
	p, err := New(Config{Secret: "s3cr3t"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	iss, err := p.Issue(req)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(iss.Token) != DefaultTokenLength {
		t.Fatalf("token length: got %d want %d", len(iss.Token), DefaultTokenLength)
	}
	if iss.Domain != "example.com" {
		t.Fatalf("domain: got %q", iss.Domain)
	}
	if !Verify(iss.Token, iss.Checksum, "s3cr3t") {
		t.Fatalf("issued checksum does not verify")
	}
}

func TestMiddlewareInjectsToken(t *testing.T) {
	p := newTestIssuer(t, "")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := TokenFromContext(r.Context())
		if !ok {
			http.Error(w, "no token", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, tok)
	})

	res := serve(p.Middleware(next), "foo.com")
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	c := getCookieByName(res, "my_token")
	if c == nil {
		t.Fatalf("expected Set-Cookie %q", "my_token")
	}
	if string(body) != c.Value {
		t.Fatalf("token mismatch: cookie=%q handler=%q", c.Value, body)
	}
}

func TestMiddlewareMissingDomainStopsChain(t *testing.T) {
	p := newTestIssuer(t, "")
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	res := serve(p.Middleware(next), "")
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if called {
		t.Fatalf("next handler should not run without a domain")
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	issued int
	errs   []error
}

func (o *recordingObserver) Issued(*http.Request, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issued++
}

func (o *recordingObserver) Failed(_ *http.Request, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = append(o.errs, err)
}

func TestObserverSeesOutcomes(t *testing.T) {
	obs := &recordingObserver{}
	p, err := New(Config{Secret: "x", Observer: obs})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	serve(p, "foo.com").Body.Close()
	serve(p, "").Body.Close()
	serve(p, "a.com;x").Body.Close()

	if obs.issued != 1 {
		t.Fatalf("expected 1 issued, got %d", obs.issued)
	}
	if len(obs.errs) != 2 || !errors.Is(obs.errs[0], ErrMissingDomain) || !errors.Is(obs.errs[1], ErrInvalidDomain) {
		t.Fatalf("expected ErrMissingDomain then ErrInvalidDomain, got %v", obs.errs)
	}
}

func TestNewDefaultsAndValidation(t *testing.T) {
	p, err := New(Config{Secret: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg := p.Config()
	if cfg.TokenCookieName != "varnish_token" || cfg.ChecksumCookieName != "varnish_token_checksum" {
		t.Fatalf("unexpected default cookie names: %q %q", cfg.TokenCookieName, cfg.ChecksumCookieName)
	}
	if cfg.TokenLength != 16 {
		t.Fatalf("unexpected default length %d", cfg.TokenLength)
	}

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"empty secret", Config{}, ErrEmptySecret},
		{"negative length", Config{Secret: "x", TokenLength: -1}, ErrInvalidLength},
		{"bad cookie name", Config{Secret: "x", TokenCookieName: "bad name"}, ErrInvalidConfig},
		{"same cookie names", Config{Secret: "x", TokenCookieName: "a", ChecksumCookieName: "a"}, ErrInvalidConfig},
		{"domain injection", Config{Secret: "x", CookieDomain: "a.com; HttpOnly"}, ErrInvalidConfig},
		{"secret not utf-8", Config{Secret: "x\xff"}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, tt.want) {
				t.Fatalf("New: got %v want %v", err, tt.want)
			}
		})
	}
}

// Concurrent requests sharing one seeded source must all get well-formed tokens.
func TestConcurrentIssuance(t *testing.T) {
	p, err := New(Config{Secret: "x", Source: NewSeededSource(42)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	tokens := make([]string, 64)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			iss, err := p.Issue(httptest.NewRequest(http.MethodGet, "/", nil))
			if err != nil {
				t.Errorf("Issue: %v", err)
				return
			}
			tokens[i] = iss.Token
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, tok := range tokens {
		if len(tok) != 16 {
			t.Fatalf("garbled token %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
