package csrf

import "strings"

// Characters that would end or split the Domain attribute of a Set-Cookie line.
const domainBreakers = "; \t\r\n,\""

// ResolveDomain picks the Domain attribute for issued cookies: the configured
// value when set, otherwise the request host. A host that could inject extra
// cookie attributes is rejected with ErrInvalidDomain.
func ResolveDomain(configured, host string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if host == "" {
		return "", ErrMissingDomain
	}
	if !validDomain(host) {
		return "", ErrInvalidDomain
	}
	return host, nil
}

func validDomain(d string) bool {
	return !strings.ContainsAny(d, domainBreakers)
}
