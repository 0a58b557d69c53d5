package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/WangYihang/domain-triage/pkg/application"
	"github.com/WangYihang/domain-triage/pkg/config"
	"github.com/WangYihang/domain-triage/pkg/domain/classifier"
	"github.com/WangYihang/domain-triage/pkg/domain/service"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/dns"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/html"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/http"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/metrics"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/whois"
)

// Assembler assembles all components for the application
type Assembler struct {
	config   *config.Config
	logger   zerolog.Logger
	registry prometheus.Registerer
}

// NewAssembler creates a new assembler. registry may be nil to disable
// metrics.
func NewAssembler(config *config.Config, logger zerolog.Logger, registry prometheus.Registerer) *Assembler {
	return &Assembler{config: config, logger: logger, registry: registry}
}

// AssembleUseCase assembles the classify use case with all dependencies
func (a *Assembler) AssembleUseCase() (*application.ClassifyUseCase, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	// Create HTTP fetcher
	fetcher := http.NewFetcher(http.Config{
		Timeout:         a.config.HTTP.Timeout,
		MaxResponseSize: a.config.HTTP.MaxResponseSize,
		UserAgent:       a.config.HTTP.UserAgent,
	})

	// Create DNS resolver
	resolver := dns.NewResolver(dns.Config{
		Servers: a.config.DNS.Servers,
		Timeout: a.config.DNS.Timeout,
	})

	// WHOIS is only wired when the profile asks for it
	var lookup service.WhoisLookup
	if a.config.Profile.WhoisPrecheck {
		lookup = whois.NewLookup(whois.Config{Timeout: a.config.Whois.Timeout})
	}

	var m *metrics.Metrics
	if a.registry != nil {
		m = metrics.New(a.registry)
	}

	a.logger.Debug().
		Str("profile", a.config.Profile.Name).
		Bool("whois", lookup != nil).
		Strs("dns_servers", resolver.Servers()).
		Dur("http_timeout", a.config.HTTP.Timeout).
		Msg("Assembled classifier")

	return application.NewClassifyUseCase(
		classifier.New(a.config.Profile),
		resolver,
		fetcher,
		html.NewParser(),
		lookup,
		m,
		a.logger,
	), nil
}
