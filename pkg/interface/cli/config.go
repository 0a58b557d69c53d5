package cli

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/WangYihang/domain-triage/pkg/config"
	"github.com/WangYihang/domain-triage/pkg/logger"
)

// Command names
const (
	CommandClassify = "classify"
	CommandServe    = "serve"
)

// Config holds all application configuration
type Config struct {
	// Rules
	Profile   string `long:"profile" description:"Rule profile" choice:"scored" choice:"classic" default:"scored"`
	RulesFile string `long:"rules" description:"YAML file overriding fields of the selected profile"`
	Whois     bool   `long:"whois" description:"Consult WHOIS before DNS (always on for the classic profile)"`

	// HTTP
	HTTPTimeout     int    `long:"http-timeout" description:"HTTP request timeout in seconds" default:"8"`
	MaxResponseSize int64  `long:"max-response-size" description:"Maximum HTTP response size in bytes" default:"10485760"`
	UserAgent       string `long:"user-agent" description:"HTTP User-Agent header"`

	// DNS
	DNSTimeout int      `long:"dns-timeout" description:"DNS query timeout in seconds" default:"5"`
	DNSServers []string `long:"dns-server" description:"DNS server as host:port, repeatable (default: resolv.conf, then public resolvers)"`

	// WHOIS
	WhoisTimeout int `long:"whois-timeout" description:"WHOIS query timeout in seconds" default:"10"`

	// Logging
	LogLevel  string `long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"warn"`
	LogFile   string `long:"log-file" description:"Also write logs to this file, rotated by size"`
	LogFormat string `long:"log-format" description:"Log format" choice:"console" choice:"json" default:"console"`

	Version bool `long:"version" description:"Print version information and exit"`

	Classify ClassifyCommand `command:"classify" description:"Classify a single domain"`
	Serve    ServeCommand    `command:"serve" description:"Serve the web form and JSON API"`

	// Command is the name of the subcommand that was invoked
	Command string
}

// ClassifyCommand holds the options of the classify subcommand
type ClassifyCommand struct {
	JSON bool `long:"json" description:"Print the verdict as JSON"`
	Args struct {
		Domain string `positional-arg-name:"domain" required:"yes"`
	} `positional-args:"yes"`
}

// ServeCommand holds the options of the serve subcommand
type ServeCommand struct {
	Listen        string `long:"listen" description:"Address of the web server" default:":5000"`
	MetricsListen string `long:"metrics-listen" description:"Address of the Prometheus endpoint, empty to disable" default:":2112"`
}

// ParseFlags parses command line flags
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS] <classify | serve>"
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	if parser.Active != nil {
		cfg.Command = parser.Active.Name
	}
	if cfg.Version {
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Command == "" {
		return fmt.Errorf("a command is required: %s or %s", CommandClassify, CommandServe)
	}

	if c.HTTPTimeout < 1 || c.HTTPTimeout > 60 {
		return fmt.Errorf("HTTP timeout must be between 1 and 60 seconds, got %d", c.HTTPTimeout)
	}

	if c.DNSTimeout <= 0 {
		return fmt.Errorf("DNS timeout must be > 0, got %d", c.DNSTimeout)
	}

	if c.WhoisTimeout <= 0 {
		return fmt.Errorf("WHOIS timeout must be > 0, got %d", c.WhoisTimeout)
	}

	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("max response size must be > 0, got %d", c.MaxResponseSize)
	}

	if c.Command == CommandServe && c.Serve.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}

	return nil
}

// RuntimeConfig resolves the profile, applies the rules file and the flag
// overrides, and validates the result
func (c *Config) RuntimeConfig() (*config.Config, error) {
	cfg, err := config.New(c.Profile)
	if err != nil {
		return nil, err
	}

	if c.RulesFile != "" {
		profile, err := config.LoadRules(c.RulesFile, cfg.Profile)
		if err != nil {
			return nil, err
		}
		cfg.Profile = profile
	}
	if c.Whois {
		cfg.Profile.WhoisPrecheck = true
	}

	cfg.HTTP.Timeout = time.Duration(c.HTTPTimeout) * time.Second
	cfg.HTTP.MaxResponseSize = c.MaxResponseSize
	if c.UserAgent != "" {
		cfg.HTTP.UserAgent = c.UserAgent
	}
	cfg.DNS.Timeout = time.Duration(c.DNSTimeout) * time.Second
	cfg.DNS.Servers = c.DNSServers
	cfg.Whois.Timeout = time.Duration(c.WhoisTimeout) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoggerConfig returns the logger settings
func (c *Config) LoggerConfig() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.File = c.LogFile
	return lc
}
