package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"
)

var labelRe = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

var lookupProfile = idna.New(idna.MapForLookup(), idna.RemoveLeadingDots(true))

func IsValidDomain(domain string) bool {
	if domain == "" || len(domain) > 253 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if len(part) == 0 || len(part) > 63 {
			return false
		}
		if !labelRe.MatchString(part) {
			return false
		}
		if part[0] == '-' || part[len(part)-1] == '-' {
			return false
		}
	}
	return true
}

// NormalizeDomain lower-cases, NFC-normalizes and punycodes a bare domain.
func NormalizeDomain(domain string) (string, error) {
	s := strings.TrimSpace(domain)
	s = strings.TrimSuffix(s, ".")
	s = norm.NFC.String(s)
	ascii, err := lookupProfile.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", domain, err)
	}
	ascii = strings.ToLower(ascii)
	if !IsValidDomain(ascii) {
		return "", fmt.Errorf("invalid domain %q", domain)
	}
	return ascii, nil
}

// DomainFromURL extracts the host of a URL, dropping the port and a leading
// "www." label.
func DomainFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return host, nil
}

// IsPublicSuffix reports whether domain is itself a public suffix such as
// "com" or "co.uk".
func IsPublicSuffix(domain string) bool {
	ps, _ := publicsuffix.PublicSuffix(domain)
	return ps == domain
}
