package domain

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var hostnameRegex = regexp.MustCompile(`^([a-z0-9_]([a-z0-9\-_]{0,61}[a-z0-9])?\.)*[a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?$`)

// Validator validates domains
type Validator struct{}

// NewValidator creates validator
func NewValidator() *Validator {
	return &Validator{}
}

// IsValid checks domain validity
func (v *Validator) IsValid(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}
	if strings.ContainsAny(domain, " \t\r\n") {
		return false
	}
	return hostnameRegex.MatchString(domain)
}

// Normalizer normalizes domains
type Normalizer struct{}

// NewNormalizer creates normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize reduces operator input such as "HTTP://Example.com/path/" to a
// bare lowercase hostname. Internationalised names are returned in their
// ASCII (xn--) form.
func (n *Normalizer) Normalize(raw string) string {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if domain == "" {
		return ""
	}

	if strings.Contains(domain, "://") {
		if u, err := url.Parse(domain); err == nil && u.Host != "" {
			domain = u.Host
		} else {
			domain = domain[strings.Index(domain, "://")+3:]
		}
	}

	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.LastIndex(domain, "@"); i >= 0 {
		domain = domain[i+1:]
	}
	if i := strings.LastIndex(domain, ":"); i >= 0 && !strings.Contains(domain[i+1:], ".") {
		domain = domain[:i]
	}

	domain = strings.Trim(domain, ".")
	return toASCII(domain)
}

// toASCII converts a Unicode hostname to punycode. Names the IDNA rules
// reject are returned unchanged for the validator to refuse.
func toASCII(domain string) string {
	if isASCII(domain) {
		return domain
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return domain
	}
	return ascii
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Registrable returns the eTLD+1 of domain, or domain itself when the public
// suffix list cannot tell.
func (n *Normalizer) Registrable(domain string) string {
	domain = n.Normalize(domain)
	if root, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil {
		return root
	}
	return domain
}

// HostMatches reports whether host equals suffix or is a subdomain of it
func HostMatches(host, suffix string) bool {
	host = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	if host == "" || suffix == "" {
		return false
	}
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// HostOf extracts the hostname from a URL string
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
