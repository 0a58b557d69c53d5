package service

import "context"

// DNSResolver resolves domain names
type DNSResolver interface {
	// Resolve checks that a domain resolves to at least one address.
	// A domain that does not resolve yields *entity.DNSFailure.
	Resolve(ctx context.Context, domain string) (*DNSResolution, error)
}

// DNSResolution represents detailed DNS resolution result
type DNSResolution struct {
	Domain  string
	IPs     []string
	Records []DNSRecord
	Server  string
	RTTMs   int64
}

// DNSRecord represents a DNS record
type DNSRecord struct {
	Type  string
	Value string
	TTL   uint32
	Class string
}

// HTTPFetcher fetches web content
type HTTPFetcher interface {
	// Fetch issues a single GET, following redirects. Transport errors
	// yield *entity.FetchFailure.
	Fetch(ctx context.Context, url string) (*HTTPResponse, error)
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	URL           string
	FinalURL      string
	StatusCode    int
	RedirectChain []int
	Headers       map[string]string
	Body          string
	ContentLength int
	Truncated     bool
}

// HTMLParser extracts the parts of a page the classifier looks at
type HTMLParser interface {
	Parse(body string) (*Document, error)
}

// Document is the parser's view of a page
type Document struct {
	Title     string
	Text      string
	TagCounts map[string]int
}

// WhoisLookup checks whether a domain carries a registration record
type WhoisLookup interface {
	Lookup(ctx context.Context, domain string) (*Registration, error)
}

// Registration is the registration fact returned by WHOIS
type Registration struct {
	Domain     string
	Registered bool
	Registrar  string
	Raw        string
}
