package engine

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// NormalizeHost converts a raw host name into the lowercase ASCII label
// sequence the matcher operates on. Leading and trailing dots are
// optional; non-ASCII hosts go through IDNA.
func NormalizeHost(raw string) ([]string, error) {
	host := strings.TrimSpace(raw)
	host = strings.TrimPrefix(host, ".")
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return nil, ErrInvalidHost
	}

	if isASCII(host) {
		host = lowerASCII(host)
	} else {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, ErrInvalidHost
		}
		host = strings.ToLower(ascii)
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if label == "" {
			return nil, ErrInvalidHost
		}
	}
	return labels, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if c := b[i]; c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
