package config

// ScoredProfile returns the default rule table: scored verdicts with
// caveats and a link threshold of 5
func ScoredProfile() Profile {
	return Profile{
		Name:   ProfileScored,
		Scored: true,
		SaleKeywords: []string{
			"buy this domain",
			"domain for sale",
			"this domain is for sale",
			"available at auction",
			"expired domain",
			"make an offer",
			"register or transfer",
			"build your website",
			"dynadot",
			"sedo",
			"dan.com",
			"afternic",
		},
		SaleHosts: []string{
			"sedo.com",
			"dan.com",
			"dynadot.com",
			"afternic.com",
		},
		LiveTags:           []string{"nav"},
		LinkThreshold:      5,
		LiveKeywords:       []string{"blog", "product"},
		TakenStatuses:      []int{200, 403, 404},
		EmptyTextThreshold: 100,
		RedirectCodes:      []int{301, 302},
		RedirectPenalty:    0,
		Confidence: Confidence{
			Unregistered:        100,
			RegistrationUnknown: 60,
			ForSale:             96,
			Live:                91,
			TakenNoSite:         90,
			Inconclusive:        50,
		},
		Caveats: Caveats{
			Redirect:            "Redirect may mask original content",
			RegistrationUnknown: "WHOIS privacy or rate limiting can hide a registration",
			ForSale:             "Minimal page structure (no nav/content)",
			Live:                "Some auto-generated content detected",
			TakenNoSite:         "Could be misconfigured or intentionally blank",
			Inconclusive:        "Lacks nav or sale/brand keywords",
		},
	}
}

// ClassicProfile returns the broader, unscored rule table
func ClassicProfile() Profile {
	return Profile{
		Name:          ProfileClassic,
		Scored:        false,
		WhoisPrecheck: true,
		SaleKeywords: []string{
			"buy this domain",
			"domain for sale",
			"this domain is for sale",
			"this domain may be for sale",
			"available at auction",
			"expired domain",
			"make an offer",
			"parked",
			"parking",
			"coming soon",
			"register or transfer",
			"domain is available",
			"inquire about this domain",
		},
		SaleHosts: []string{
			"sedo.com",
			"dan.com",
			"dynadot.com",
			"afternic.com",
			"godaddy.com",
			"porkbun.com",
			"namecheap.com",
			"bodis.com",
			"parkingcrew.net",
			"hugedomains.com",
		},
		MatchRawHTML:       true,
		LiveTags:           []string{"nav", "header", "footer"},
		LinkThreshold:      10,
		LiveKeywords:       []string{"blog", "product", "login", "signup", "sign up", "contact", "about us"},
		TakenStatuses:      []int{200},
		EmptyTextThreshold: 100,
		RedirectCodes:      []int{301, 302},
	}
}
