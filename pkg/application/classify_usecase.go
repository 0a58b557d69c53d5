package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WangYihang/domain-triage/pkg/domain"
	"github.com/WangYihang/domain-triage/pkg/domain/classifier"
	"github.com/WangYihang/domain-triage/pkg/domain/entity"
	"github.com/WangYihang/domain-triage/pkg/domain/service"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/metrics"
)

// ClassifyUseCase orchestrates the classification of a single domain
type ClassifyUseCase struct {
	// Domain
	normalizer *domain.Normalizer
	validator  *domain.Validator
	classifier *classifier.Classifier

	// Services
	resolver service.DNSResolver
	fetcher  service.HTTPFetcher
	parser   service.HTMLParser
	whois    service.WhoisLookup

	// Observability
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewClassifyUseCase creates a new classify use case. whois may be nil
// when the profile does not run the WHOIS pre-check, and m may be nil to
// disable metrics.
func NewClassifyUseCase(
	cls *classifier.Classifier,
	resolver service.DNSResolver,
	fetcher service.HTTPFetcher,
	parser service.HTMLParser,
	whois service.WhoisLookup,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ClassifyUseCase {
	return &ClassifyUseCase{
		normalizer: domain.NewNormalizer(),
		validator:  domain.NewValidator(),
		classifier: cls,
		resolver:   resolver,
		fetcher:    fetcher,
		parser:     parser,
		whois:      whois,
		metrics:    m,
		logger:     logger.With().Str("component", "classify").Logger(),
		now:        time.Now,
	}
}

// Classify produces a verdict for raw operator input. It never fails:
// every error is turned into a terminal verdict.
func (uc *ClassifyUseCase) Classify(ctx context.Context, raw string) *entity.Verdict {
	start := uc.now()

	v := uc.classify(ctx, raw)
	v.CheckedAt = uc.now()

	elapsed := v.CheckedAt.Sub(start)
	uc.metrics.IncrementVerdict(string(v.Status), v.Rule)
	uc.metrics.ObserveClassify(elapsed)

	uc.logger.Info().
		Str("domain", v.Domain).
		Str("status", string(v.Status)).
		Str("rule", v.Rule).
		Int("confidence", v.Confidence).
		Dur("elapsed", elapsed).
		Msg("Domain classified")

	return v
}

func (uc *ClassifyUseCase) classify(ctx context.Context, raw string) *entity.Verdict {
	name := uc.normalizer.Normalize(raw)
	if !uc.validator.IsValid(name) {
		uc.logger.Debug().Str("input", raw).Msg("Rejected invalid domain")
		return uc.classifier.InvalidInputVerdict(strings.TrimSpace(raw))
	}
	query := entity.Domain{Name: name, Registrable: uc.normalizer.Registrable(name)}

	v := uc.probe(ctx, query)
	v.Registrable = query.Registrable
	return v
}

// probe runs the network stages for a valid query
func (uc *ClassifyUseCase) probe(ctx context.Context, query entity.Domain) *entity.Verdict {
	name := query.Name
	log := uc.logger.With().Str("domain", name).Str("registrable", query.Registrable).Logger()

	if uc.classifier.Profile().WhoisPrecheck && uc.whois != nil {
		if v := uc.precheck(ctx, query, log); v != nil {
			return v
		}
	}

	stageStart := uc.now()
	resolution, err := uc.resolver.Resolve(ctx, name)
	uc.metrics.ObserveStage(metrics.StageDNS, uc.now().Sub(stageStart))
	uc.metrics.IncrementDNSLookup(dnsOutcome(err))
	if err != nil {
		if ctx.Err() != nil {
			return uc.classifier.AbortedVerdict(name, ctx.Err())
		}
		log.Debug().Err(err).Msg("DNS resolution failed")
		return uc.classifier.DNSFailureVerdict(name, err)
	}
	log.Debug().Strs("ips", resolution.IPs).Str("server", resolution.Server).Msg("Resolved")

	stageStart = uc.now()
	resp, err := uc.fetcher.Fetch(ctx, "http://"+name)
	uc.metrics.ObserveStage(metrics.StageFetch, uc.now().Sub(stageStart))
	if err != nil {
		uc.metrics.IncrementFetch("error")
		if ctx.Err() != nil {
			return uc.classifier.AbortedVerdict(name, ctx.Err())
		}
		log.Debug().Err(err).Msg("Fetch failed")
		return uc.classifier.FetchFailureVerdict(name, err)
	}
	if resp.Truncated {
		uc.metrics.IncrementFetch("truncated")
	} else {
		uc.metrics.IncrementFetch("ok")
	}
	log.Debug().
		Int("status_code", resp.StatusCode).
		Ints("redirects", resp.RedirectChain).
		Str("final_url", resp.FinalURL).
		Int("bytes", resp.ContentLength).
		Msg("Fetched homepage")

	stageStart = uc.now()
	doc, err := uc.parser.Parse(resp.Body)
	uc.metrics.ObserveStage(metrics.StageParse, uc.now().Sub(stageStart))
	if err != nil {
		// The page is classified as if it were empty
		log.Debug().Err(err).Msg("Unparseable markup")
		doc = &service.Document{TagCounts: map[string]int{}}
	}

	result := &entity.FetchResult{
		Domain:        name,
		FinalURL:      resp.FinalURL,
		StatusCode:    resp.StatusCode,
		RedirectChain: resp.RedirectChain,
		Title:         strings.ToLower(doc.Title),
		BodyText:      strings.ToLower(doc.Text),
		RawHTML:       strings.ToLower(resp.Body),
		TagCounts:     doc.TagCounts,
	}

	stageStart = uc.now()
	v := uc.classifier.Classify(result)
	uc.metrics.ObserveStage(metrics.StageClassify, uc.now().Sub(stageStart))
	return v
}

// precheck returns a terminal verdict when WHOIS does not confirm the
// registration, nil otherwise. Registries only know registrable names.
func (uc *ClassifyUseCase) precheck(ctx context.Context, query entity.Domain, log zerolog.Logger) *entity.Verdict {
	name := query.Name
	stageStart := uc.now()
	reg, err := uc.whois.Lookup(ctx, query.Registrable)
	uc.metrics.ObserveStage(metrics.StageWhois, uc.now().Sub(stageStart))

	switch {
	case err != nil && ctx.Err() != nil:
		return uc.classifier.AbortedVerdict(name, ctx.Err())
	case err != nil:
		log.Debug().Err(err).Msg("WHOIS lookup failed")
		return uc.classifier.RegistrationUnknownVerdict(name, err)
	case !reg.Registered:
		return uc.classifier.RegistrationUnknownVerdict(name, &entity.RegistrationUnknown{Domain: query.Registrable})
	}
	log.Debug().Str("registrar", reg.Registrar).Msg("Registration confirmed")
	return nil
}

func dnsOutcome(err error) string {
	var failure *entity.DNSFailure
	switch {
	case err == nil:
		return "resolved"
	case errors.Is(err, entity.ErrNXDomain):
		return "nxdomain"
	case errors.Is(err, entity.ErrNoAddress):
		return "no_address"
	case errors.As(err, &failure):
		return "failure"
	default:
		return "error"
	}
}
