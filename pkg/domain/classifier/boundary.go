package classifier

import (
	"errors"
	"fmt"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

// InvalidInputVerdict is returned for input that is not a hostname at all
func (c *Classifier) InvalidInputVerdict(raw string) *entity.Verdict {
	v := entity.NewVerdict(raw, c.profile.Scored)
	v.Reason("Invalid domain name")
	v.Settle(entity.StatusUnregistered, RuleInvalidInput, c.profile.Confidence.Unregistered)
	return v
}

// DNSFailureVerdict is returned when the domain does not resolve. DNS is
// authoritative: nothing is fetched after it fails.
func (c *Classifier) DNSFailureVerdict(domain string, err error) *entity.Verdict {
	v := entity.NewVerdict(domain, c.profile.Scored)
	v.Reason("Domain did not resolve (DNS failure)")
	if errors.Is(err, entity.ErrNoAddress) {
		v.Reason("Name exists but has no A/AAAA records")
	}
	v.Settle(entity.StatusUnregistered, RuleDNS, c.profile.Confidence.Unregistered)
	return v
}

// RegistrationUnknownVerdict is returned when the WHOIS pre-check finds no
// record or cannot complete
func (c *Classifier) RegistrationUnknownVerdict(domain string, err error) *entity.Verdict {
	v := entity.NewVerdict(domain, c.profile.Scored)

	var unknown *entity.RegistrationUnknown
	if errors.As(err, &unknown) && unknown.Err != nil {
		v.Reason(fmt.Sprintf("WHOIS lookup failed: %v", unknown.Err))
	} else {
		v.Reason("No WHOIS registration record found")
	}
	v.Caveat(c.profile.Caveats.RegistrationUnknown)
	v.Settle(entity.StatusRegistrationUnknown, RuleWhois, c.profile.Confidence.RegistrationUnknown)
	return v
}

// FetchFailureVerdict degrades a failed homepage request to an inconclusive
// verdict carrying the error text
func (c *Classifier) FetchFailureVerdict(domain string, err error) *entity.Verdict {
	v := entity.NewVerdict(domain, c.profile.Scored)

	cause := err
	var failure *entity.FetchFailure
	if errors.As(err, &failure) && failure.Err != nil {
		cause = failure.Err
	}
	v.Reason(fmt.Sprintf("Error fetching domain: %v", cause))
	v.Settle(entity.StatusInconclusive, RuleFetchError, c.profile.Confidence.Inconclusive)
	return v
}

// AbortedVerdict is returned when the caller gave up before a stage could
// answer. It says nothing about the domain itself.
func (c *Classifier) AbortedVerdict(domain string, err error) *entity.Verdict {
	v := entity.NewVerdict(domain, c.profile.Scored)
	v.Reason(fmt.Sprintf("Classification aborted: %v", err))
	v.Settle(entity.StatusInconclusive, RuleAborted, 0)
	return v
}
