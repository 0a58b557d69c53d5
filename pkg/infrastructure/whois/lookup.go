package whois

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
	"github.com/WangYihang/domain-triage/pkg/domain/service"
)

// Config holds WHOIS client configuration
type Config struct {
	Timeout time.Duration
}

// Lookup implements service.WhoisLookup
type Lookup struct {
	query func(domain string) (string, error)
}

// NewLookup creates a WHOIS lookup backed by the public WHOIS servers
func NewLookup(config Config) *Lookup {
	client := whois.NewClient().SetTimeout(config.Timeout)
	return &Lookup{
		query: func(domain string) (string, error) {
			return client.Whois(domain)
		},
	}
}

// Lookup implements service.WhoisLookup. A parser verdict of "domain not
// found" is a definitive answer, not an error.
func (l *Lookup) Lookup(ctx context.Context, domain string) (*service.Registration, error) {
	type result struct {
		raw string
		err error
	}

	// The client has no context support, so it runs detached and is bounded by its own timeout
	done := make(chan result, 1)
	go func() {
		raw, err := l.query(domain)
		done <- result{raw: raw, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, &entity.RegistrationUnknown{Domain: domain, Err: ctx.Err()}
	case res = <-done:
	}
	if res.err != nil {
		return nil, &entity.RegistrationUnknown{Domain: domain, Err: fmt.Errorf("query: %w", res.err)}
	}

	registration := &service.Registration{Domain: domain, Raw: res.raw}

	info, err := whoisparser.Parse(res.raw)
	switch {
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return registration, nil
	case err != nil:
		return nil, &entity.RegistrationUnknown{Domain: domain, Err: fmt.Errorf("parse: %w", err)}
	}

	registration.Registered = true
	if info.Registrar != nil {
		registration.Registrar = info.Registrar.Name
	}
	return registration, nil
}
