package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAddress is returned when a name resolves but has no A/AAAA records
	ErrNoAddress = errors.New("no address records")
	// ErrNXDomain is returned when the name does not exist at all
	ErrNXDomain = errors.New("NXDOMAIN")
	// ErrInvalidDomain is returned for input that can never be a hostname
	ErrInvalidDomain = errors.New("invalid domain name")
)

// DNSFailure means the domain does not resolve to any address
type DNSFailure struct {
	Domain string
	Err    error
}

func (e *DNSFailure) Error() string {
	return fmt.Sprintf("dns resolution failed for %s: %v", e.Domain, e.Err)
}

func (e *DNSFailure) Unwrap() error {
	return e.Err
}

// RegistrationUnknown means WHOIS found no record or the lookup itself failed
type RegistrationUnknown struct {
	Domain string
	Err    error
}

func (e *RegistrationUnknown) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no whois registration record for %s", e.Domain)
	}
	return fmt.Sprintf("whois lookup failed for %s: %v", e.Domain, e.Err)
}

func (e *RegistrationUnknown) Unwrap() error {
	return e.Err
}

// FetchFailure wraps a transport error from the homepage request
type FetchFailure struct {
	URL string
	Err error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchFailure) Unwrap() error {
	return e.Err
}

// ParseAnomaly reports markup the parser could not make sense of. It is
// never surfaced to callers; the page is treated as empty instead.
type ParseAnomaly struct {
	Err error
}

func (e *ParseAnomaly) Error() string {
	return fmt.Sprintf("parse html: %v", e.Err)
}

func (e *ParseAnomaly) Unwrap() error {
	return e.Err
}
