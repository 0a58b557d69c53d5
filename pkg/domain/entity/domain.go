package entity

import (
	"encoding/json"
	"time"
)

// Status is the terminal category of a classification
type Status string

const (
	StatusUnregistered        Status = "unregistered"
	StatusRegistrationUnknown Status = "registration_unknown"
	StatusForSale             Status = "for_sale"
	StatusLive                Status = "live"
	StatusTakenNoSite         Status = "taken_no_site"
	StatusInconclusive        Status = "inconclusive"
)

// Statuses lists every status in cascade order
var Statuses = []Status{
	StatusUnregistered,
	StatusRegistrationUnknown,
	StatusForSale,
	StatusLive,
	StatusTakenNoSite,
	StatusInconclusive,
}

// Label returns the human readable label shown to operators
func (s Status) Label() string {
	switch s {
	case StatusUnregistered:
		return "❌ Unregistered or Invalid"
	case StatusRegistrationUnknown:
		return "❔ Registration Unknown"
	case StatusForSale:
		return "🔴 For Sale (Lander)"
	case StatusLive:
		return "🟢 Live Website"
	case StatusTakenNoSite:
		return "🔒 Taken (No Site)"
	default:
		return "🟠 Unknown"
	}
}

// Domain is a normalized domain query
type Domain struct {
	Name        string
	Registrable string
}

// Verdict is the outcome of classifying one domain
type Verdict struct {
	Domain      string    `json:"domain"`
	Registrable string    `json:"registrable,omitempty"`
	Status      Status    `json:"status"`
	Label       string    `json:"label"`
	Confidence  int       `json:"confidence"`
	Scored      bool      `json:"scored"`
	Rule        string    `json:"rule"`
	Reasoning   []string  `json:"reasoning"`
	WhyNotFull  []string  `json:"why_not_full,omitempty"`
	CheckedAt   time.Time `json:"checked_at,omitempty"`
}

// MarshalJSON writes confidence for every scored verdict, zero included,
// and leaves it out of unscored ones.
func (v Verdict) MarshalJSON() ([]byte, error) {
	type plain Verdict
	out := struct {
		plain
		Confidence *int `json:"confidence,omitempty"`
	}{plain: plain(v)}
	if v.Scored {
		out.Confidence = &v.Confidence
	}
	return json.Marshal(out)
}

// NewVerdict creates an inconclusive verdict for domain
func NewVerdict(domain string, scored bool) *Verdict {
	return &Verdict{
		Domain:     domain,
		Status:     StatusInconclusive,
		Label:      StatusInconclusive.Label(),
		Scored:     scored,
		Reasoning:  make([]string, 0),
		WhyNotFull: make([]string, 0),
	}
}

// Reason appends a justification line
func (v *Verdict) Reason(line string) {
	v.Reasoning = append(v.Reasoning, line)
}

// Caveat appends a line explaining the confidence shortfall. Caveats are
// only kept for scored verdicts.
func (v *Verdict) Caveat(line string) {
	if !v.Scored || line == "" {
		return
	}
	v.WhyNotFull = append(v.WhyNotFull, line)
}

// Settle sets the terminal status of the verdict
func (v *Verdict) Settle(status Status, rule string, confidence int) {
	v.Status = status
	v.Label = status.Label()
	v.Rule = rule
	if v.Scored {
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}
		v.Confidence = confidence
	} else {
		v.Confidence = 0
	}
}
