// Package classifier turns the observed state of a domain's homepage into a
// verdict. Classification is a pure function of the fetch result.
package classifier

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/WangYihang/domain-triage/pkg/config"
	"github.com/WangYihang/domain-triage/pkg/domain"
	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

// Rule names reported on verdicts
const (
	RuleDNS          = "dns"
	RuleWhois        = "whois"
	RuleInvalidInput = "input"
	RuleFetchError   = "fetch_error"
	RuleAborted      = "aborted"
	RuleSale         = "sale"
	RuleLive         = "live"
	RuleTaken        = "taken"
	RuleFallback     = "fallback"
)

// Classifier applies the rule cascade of one profile
type Classifier struct {
	profile config.Profile
}

// New creates a classifier for profile. The profile is copied, so later
// changes by the caller do not leak into classification.
func New(profile config.Profile) *Classifier {
	return &Classifier{profile: profile.Normalized()}
}

// Profile returns the profile in use
func (c *Classifier) Profile() config.Profile {
	return c.profile.Clone()
}

// match is the outcome of a single rule
type match struct {
	ok     bool
	detail string
}

type field struct {
	name string
	text string
}

type rule struct {
	name       string
	status     entity.Status
	summary    string
	confidence func(config.Confidence) int
	caveat     func(config.Caveats) string
	eval       func(c *Classifier, r *entity.FetchResult) match
}

// cascade is evaluated top to bottom and stops at the first match. Sale
// signals must precede liveness: landers carry links and navigation too.
var cascade = []rule{
	{
		name:       RuleSale,
		status:     entity.StatusForSale,
		summary:    "Sale-related keywords or marketplace URL found",
		confidence: func(c config.Confidence) int { return c.ForSale },
		caveat:     func(c config.Caveats) string { return c.ForSale },
		eval:       (*Classifier).saleSignal,
	},
	{
		name:       RuleLive,
		status:     entity.StatusLive,
		summary:    "Site has navigation, links, or product/blog content",
		confidence: func(c config.Confidence) int { return c.Live },
		caveat:     func(c config.Caveats) string { return c.Live },
		eval:       (*Classifier).liveSignal,
	},
	{
		name:       RuleTaken,
		status:     entity.StatusTakenNoSite,
		summary:    "Domain is registered but site shows no real content",
		confidence: func(c config.Confidence) int { return c.TakenNoSite },
		caveat:     func(c config.Caveats) string { return c.TakenNoSite },
		eval:       (*Classifier).emptySignal,
	},
}

// Classify runs the cascade over a fetch result
func (c *Classifier) Classify(r *entity.FetchResult) *entity.Verdict {
	v := entity.NewVerdict(r.Domain, c.profile.Scored)

	redirected := c.noteRedirect(v, r)

	for _, rl := range cascade {
		m := rl.eval(c, r)
		if !m.ok {
			continue
		}
		v.Reason(rl.summary)
		if m.detail != "" {
			v.Reason(m.detail)
		}
		v.Caveat(rl.caveat(c.profile.Caveats))
		v.Settle(rl.status, rl.name, c.penalize(rl.confidence(c.profile.Confidence), redirected))
		return v
	}

	v.Reason("No clear indicators found in title/body")
	v.Caveat(c.profile.Caveats.Inconclusive)
	v.Settle(entity.StatusInconclusive, RuleFallback, c.penalize(c.profile.Confidence.Inconclusive, redirected))
	return v
}

// noteRedirect records 301/302 hops. It never decides the status.
func (c *Classifier) noteRedirect(v *entity.Verdict, r *entity.FetchResult) bool {
	hopped := slices.ContainsFunc(r.RedirectChain, func(code int) bool {
		return slices.Contains(c.profile.RedirectCodes, code)
	})
	if !hopped {
		return false
	}
	v.Reason(fmt.Sprintf("Redirected (%d) to %s", r.RedirectChain[len(r.RedirectChain)-1], r.FinalURL))
	v.Caveat(c.profile.Caveats.Redirect)
	return true
}

func (c *Classifier) penalize(confidence int, redirected bool) int {
	if redirected {
		confidence -= c.profile.RedirectPenalty
	}
	return max(confidence, 0)
}

func (c *Classifier) saleSignal(r *entity.FetchResult) match {
	fields := []field{{"title", r.Title}, {"body", r.BodyText}}
	if c.profile.MatchRawHTML {
		fields = append(fields, field{"markup", r.RawHTML})
	}

	for _, f := range fields {
		if kw, ok := containsAny(f.text, c.profile.SaleKeywords); ok {
			return match{ok: true, detail: fmt.Sprintf("Matched sale keyword %q in %s", kw, f.name)}
		}
	}

	host := domain.HostOf(r.FinalURL)
	for _, saleHost := range c.profile.SaleHosts {
		if domain.HostMatches(host, saleHost) {
			return match{ok: true, detail: fmt.Sprintf("Landed on marketplace host %s", host)}
		}
	}
	return match{}
}

func (c *Classifier) liveSignal(r *entity.FetchResult) match {
	for _, tag := range c.profile.LiveTags {
		if r.Count(tag) > 0 {
			return match{ok: true, detail: fmt.Sprintf("Found <%s> element", tag)}
		}
	}
	if links := r.Count("a"); links > c.profile.LinkThreshold {
		return match{ok: true, detail: fmt.Sprintf("Found %d links (threshold %d)", links, c.profile.LinkThreshold)}
	}
	if kw, ok := containsAny(r.BodyText, c.profile.LiveKeywords); ok {
		return match{ok: true, detail: fmt.Sprintf("Matched content keyword %q", kw)}
	}
	return match{}
}

func (c *Classifier) emptySignal(r *entity.FetchResult) match {
	if !slices.Contains(c.profile.TakenStatuses, r.StatusCode) {
		return match{}
	}
	n := utf8.RuneCountInString(strings.TrimSpace(r.BodyText))
	if n >= c.profile.EmptyTextThreshold {
		return match{}
	}
	return match{ok: true, detail: fmt.Sprintf("HTTP %d with only %d characters of text", r.StatusCode, n)}
}

func containsAny(text string, keywords []string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}
