package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// ProfileScored attaches confidence scores and caveats to verdicts
	ProfileScored = "scored"
	// ProfileClassic is unscored, checks WHOIS first and matches broader
	// keyword tables
	ProfileClassic = "classic"

	DefaultHTTPTimeout     = 8 * time.Second
	DefaultDNSTimeout      = 5 * time.Second
	DefaultMaxResponseSize = 10 * 1024 * 1024
	DefaultUserAgent       = "Mozilla/5.0 (compatible; domain-triage/1.0)"
)

// Config holds all configuration
type Config struct {
	HTTP    HTTPConfig
	DNS     DNSConfig
	Whois   WhoisConfig
	Profile Profile
}

type HTTPConfig struct {
	Timeout         time.Duration `validate:"min=1s,max=60s"`
	MaxResponseSize int64         `validate:"gt=0"`
	UserAgent       string
}

type DNSConfig struct {
	Servers []string      `validate:"dive,hostname_port|udp_addr"`
	Timeout time.Duration `validate:"min=100ms,max=30s"`
}

type WhoisConfig struct {
	Timeout time.Duration `validate:"min=1s,max=60s"`
}

// Profile is the rule table driving the classification cascade
type Profile struct {
	Name string `yaml:"name" validate:"required"`

	// Scored enables confidence scores and caveats on verdicts
	Scored bool `yaml:"scored"`
	// WhoisPrecheck consults WHOIS before touching DNS or HTTP
	WhoisPrecheck bool `yaml:"whois_precheck"`

	SaleKeywords []string `yaml:"sale_keywords" validate:"required,min=1,dive,required"`
	SaleHosts    []string `yaml:"sale_hosts" validate:"dive,required"`
	// MatchRawHTML extends sale keyword search to the raw markup
	MatchRawHTML bool `yaml:"match_raw_html"`

	LiveTags      []string `yaml:"live_tags" validate:"dive,required,alphanum"`
	LinkThreshold int      `yaml:"link_threshold" validate:"gte=0"`
	LiveKeywords  []string `yaml:"live_keywords" validate:"dive,required"`

	TakenStatuses      []int `yaml:"taken_statuses" validate:"dive,gte=100,lte=599"`
	EmptyTextThreshold int   `yaml:"empty_text_threshold" validate:"gte=0"`

	RedirectCodes   []int `yaml:"redirect_codes" validate:"dive,gte=300,lte=399"`
	RedirectPenalty int   `yaml:"redirect_penalty" validate:"gte=0,lte=100"`

	Confidence Confidence `yaml:"confidence"`
	Caveats    Caveats    `yaml:"caveats"`
}

// Confidence holds the score attached to each terminal status
type Confidence struct {
	Unregistered        int `yaml:"unregistered" validate:"gte=0,lte=100"`
	RegistrationUnknown int `yaml:"registration_unknown" validate:"gte=0,lte=100"`
	ForSale             int `yaml:"for_sale" validate:"gte=0,lte=100"`
	Live                int `yaml:"live" validate:"gte=0,lte=100"`
	TakenNoSite         int `yaml:"taken_no_site" validate:"gte=0,lte=100"`
	Inconclusive        int `yaml:"inconclusive" validate:"gte=0,lte=100"`
}

// Caveats holds the shortfall explanation attached by each rule
type Caveats struct {
	Redirect            string `yaml:"redirect"`
	RegistrationUnknown string `yaml:"registration_unknown"`
	ForSale             string `yaml:"for_sale"`
	Live                string `yaml:"live"`
	TakenNoSite         string `yaml:"taken_no_site"`
	Inconclusive        string `yaml:"inconclusive"`
}

// New creates config with defaults for the named profile
func New(profile string) (*Config, error) {
	p, err := LookupProfile(profile)
	if err != nil {
		return nil, err
	}
	return &Config{
		HTTP: HTTPConfig{
			Timeout:         DefaultHTTPTimeout,
			MaxResponseSize: DefaultMaxResponseSize,
			UserAgent:       DefaultUserAgent,
		},
		DNS:     DNSConfig{Timeout: DefaultDNSTimeout},
		Whois:   WhoisConfig{Timeout: DefaultHTTPTimeout},
		Profile: p,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LookupProfile returns a copy of a built-in profile
func LookupProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileScored:
		return ScoredProfile(), nil
	case ProfileClassic:
		return ClassicProfile(), nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q (want %s or %s)", name, ProfileScored, ProfileClassic)
	}
}

// LoadRules overlays the YAML rules file at path onto base. Fields absent
// from the file keep the value from base.
func LoadRules(path string, base Profile) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()
	return DecodeRules(f, base)
}

// DecodeRules is LoadRules for an arbitrary reader
func DecodeRules(r io.Reader, base Profile) (Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Profile{}, fmt.Errorf("read rules: %w", err)
	}

	profile := base.Clone()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("decode rules: %w", err)
	}
	profile = profile.Normalized()

	if err := validator.New().Struct(profile); err != nil {
		return Profile{}, fmt.Errorf("invalid rules: %w", err)
	}
	return profile, nil
}

// Clone returns a deep copy so callers can tweak tables safely
func (p Profile) Clone() Profile {
	c := p
	c.SaleKeywords = append([]string(nil), p.SaleKeywords...)
	c.SaleHosts = append([]string(nil), p.SaleHosts...)
	c.LiveTags = append([]string(nil), p.LiveTags...)
	c.LiveKeywords = append([]string(nil), p.LiveKeywords...)
	c.TakenStatuses = append([]int(nil), p.TakenStatuses...)
	c.RedirectCodes = append([]int(nil), p.RedirectCodes...)
	return c
}

// Normalized returns a copy with every keyword, host and tag lowercased, the
// form the classifier matches against.
func (p Profile) Normalized() Profile {
	c := p.Clone()
	for _, list := range [][]string{c.SaleKeywords, c.SaleHosts, c.LiveTags, c.LiveKeywords} {
		for i := range list {
			list[i] = strings.ToLower(strings.TrimSpace(list[i]))
		}
	}
	return c
}
