package csrf

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

const lowerHex = "0123456789abcdef"

// CanonicalPayload returns the exact bytes that are hashed by Sign:
// {"salt":"<secret>","token":"<token>"}, field order salt then token, no
// whitespace.
//
// String escaping matches the verifiers already deployed against this format:
// only '"', '\' and control characters below 0x20 are escaped. '<', '>', '&',
// U+2028 and U+2029 are written as is, unlike encoding/json.
func CanonicalPayload(token, secret string) ([]byte, error) {
	if !utf8.ValidString(token) || !utf8.ValidString(secret) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrSigningFailure)
	}

	buf := make([]byte, 0, len(`{"salt":"","token":""}`)+len(secret)+len(token)+8)
	buf = append(buf, `{"salt":`...)
	buf = appendQuoted(buf, secret)
	buf = append(buf, `,"token":`...)
	buf = appendQuoted(buf, token)
	buf = append(buf, '}')
	return buf, nil
}

func appendQuoted(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', lowerHex[c>>4], lowerHex[c&0xf])
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}

// Sign returns the lowercase hex MD5 of the canonical payload.
//
// MD5 is kept for compatibility with existing verifiers of this checksum
// format; it is an integrity check, not a MAC.
func Sign(token, secret string) (string, error) {
	payload, err := CanonicalPayload(token, secret)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether checksum matches Sign(token, secret). The comparison
// runs in constant time.
func Verify(token, checksum, secret string) bool {
	want, err := Sign(token, secret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(checksum)) == 1
}
