package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
	"github.com/WangYihang/domain-triage/pkg/domain/service"
	"github.com/miekg/dns"
)

// Resolver implements service.DNSResolver
type Resolver struct {
	servers  []string
	timeout  time.Duration
	client   *dns.Client
	fallback func(ctx context.Context, host string) ([]string, error)
}

// Config holds DNS resolver configuration
type Config struct {
	Servers []string
	Timeout time.Duration
	// ResolvConf is read for system servers when Servers is empty
	ResolvConf string
}

// DefaultServers are used when neither the config nor resolv.conf names any
var DefaultServers = []string{
	"8.8.8.8:53",
	"8.8.4.4:53",
	"1.1.1.1:53",
	"1.0.0.1:53",
}

// NewResolver creates a new DNS resolver
func NewResolver(config Config) *Resolver {
	servers := config.Servers
	if len(servers) == 0 {
		servers = systemServers(config.ResolvConf)
		servers = append(servers, DefaultServers...)
	}

	netResolver := &net.Resolver{}
	return &Resolver{
		servers: servers,
		timeout: config.Timeout,
		client: &dns.Client{
			Timeout: config.Timeout,
		},
		fallback: func(ctx context.Context, host string) ([]string, error) {
			return netResolver.LookupHost(ctx, host)
		},
	}
}

func systemServers(path string) []string {
	if path == "" {
		path = "/etc/resolv.conf"
	}
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil
	}
	port := conf.Port
	if port == "" {
		port = "53"
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, port))
	}
	return servers
}

// Servers returns the servers queried in order
func (r *Resolver) Servers() []string {
	return append([]string(nil), r.servers...)
}

// Resolve implements service.DNSResolver. The first server that answers
// decides the outcome; later servers are only tried on transport errors.
// An NXDOMAIN answer is confirmed with the system resolver before it is
// reported.
func (r *Resolver) Resolve(ctx context.Context, domain string) (*service.DNSResolution, error) {
	resolution := &service.DNSResolution{Domain: domain}
	start := time.Now()

	var answered bool
	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resp, server, err := r.exchange(ctx, domain, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		answered = true
		resolution.Server = server

		if resp.Rcode == dns.RcodeNameError {
			// The hosts file and split-horizon resolvers may still know the name
			if r.systemLookup(ctx, resolution) {
				resolution.RTTMs = time.Since(start).Milliseconds()
				return resolution, nil
			}
			resolution.RTTMs = time.Since(start).Milliseconds()
			return resolution, &entity.DNSFailure{Domain: domain, Err: entity.ErrNXDomain}
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("rcode %s", dns.RcodeToString[resp.Rcode])
			continue
		}
		collect(resolution, resp)
		if len(resolution.IPs) > 0 {
			break
		}
	}
	resolution.RTTMs = time.Since(start).Milliseconds()

	if len(resolution.IPs) > 0 {
		return resolution, nil
	}
	if answered && lastErr == nil {
		return resolution, &entity.DNSFailure{Domain: domain, Err: entity.ErrNoAddress}
	}

	// No server produced a usable answer, ask the system resolver
	if r.fallback != nil {
		ips, err := r.fallback(ctx, domain)
		if err == nil && len(ips) > 0 {
			useSystemAnswer(resolution, ips)
			return resolution, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = entity.ErrNoAddress
	}
	return resolution, &entity.DNSFailure{Domain: domain, Err: lastErr}
}

// systemLookup asks the system resolver and stores its answer in
// resolution. It reports whether any address was found.
func (r *Resolver) systemLookup(ctx context.Context, resolution *service.DNSResolution) bool {
	if r.fallback == nil {
		return false
	}
	ips, err := r.fallback(ctx, resolution.Domain)
	if err != nil || len(ips) == 0 {
		return false
	}
	useSystemAnswer(resolution, ips)
	return true
}

func useSystemAnswer(resolution *service.DNSResolution, ips []string) {
	resolution.IPs = ips
	resolution.Server = "system"
	resolution.Records = resolution.Records[:0]
	for _, ip := range ips {
		resolution.Records = append(resolution.Records, service.DNSRecord{Type: recordType(ip), Value: ip})
	}
}

// exchange sends one question to the configured servers in order
func (r *Resolver) exchange(ctx context.Context, domain string, qtype uint16) (*dns.Msg, string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		qctx, cancel := context.WithTimeout(ctx, r.timeout)
		resp, _, err := r.client.ExchangeContext(qctx, msg, server)
		cancel()

		if err == nil && resp != nil {
			return resp, server, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no response from any DNS server")
	}
	return nil, "", lastErr
}

func collect(resolution *service.DNSResolution, resp *dns.Msg) {
	for _, answer := range resp.Answer {
		switch rr := answer.(type) {
		case *dns.A:
			ip := rr.A.String()
			resolution.IPs = append(resolution.IPs, ip)
			resolution.Records = append(resolution.Records, service.DNSRecord{
				Type:  "A",
				Value: ip,
				TTL:   rr.Hdr.Ttl,
				Class: dns.ClassToString[rr.Hdr.Class],
			})
		case *dns.AAAA:
			ip := rr.AAAA.String()
			resolution.IPs = append(resolution.IPs, ip)
			resolution.Records = append(resolution.Records, service.DNSRecord{
				Type:  "AAAA",
				Value: ip,
				TTL:   rr.Hdr.Ttl,
				Class: dns.ClassToString[rr.Hdr.Class],
			})
		}
	}
}

func recordType(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil && parsed.To4() != nil {
		return "A"
	}
	return "AAAA"
}
