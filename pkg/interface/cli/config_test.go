package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WangYihang/domain-triage/pkg/config"
)

func TestParseFlags_Classify(t *testing.T) {
	cfg, err := ParseFlags([]string{"classify", "--json", "example.com"})
	require.NoError(t, err)

	assert.Equal(t, CommandClassify, cfg.Command)
	assert.Equal(t, "example.com", cfg.Classify.Args.Domain)
	assert.True(t, cfg.Classify.JSON)
	assert.Equal(t, config.ProfileScored, cfg.Profile)
	assert.Equal(t, 8, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.DNSTimeout)
	assert.Equal(t, int64(10485760), cfg.MaxResponseSize)
}

func TestParseFlags_Serve(t *testing.T) {
	cfg, err := ParseFlags([]string{"--profile", "classic", "--dns-server", "192.0.2.53:53", "--dns-server", "192.0.2.54:53", "serve", "--listen", ":8080", "--metrics-listen="})
	require.NoError(t, err)

	assert.Equal(t, CommandServe, cfg.Command)
	assert.Equal(t, ":8080", cfg.Serve.Listen)
	assert.Empty(t, cfg.Serve.MetricsListen)
	assert.Equal(t, []string{"192.0.2.53:53", "192.0.2.54:53"}, cfg.DNSServers)
	assert.Equal(t, config.ProfileClassic, cfg.Profile)
}

func TestParseFlags_Version(t *testing.T) {
	cfg, err := ParseFlags([]string{"--version"})
	require.NoError(t, err)
	assert.True(t, cfg.Version)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{}},
		{"missing domain", []string{"classify"}},
		{"unknown profile", []string{"--profile", "strict", "classify", "example.com"}},
		{"timeout too long", []string{"--http-timeout", "120", "classify", "example.com"}},
		{"zero dns timeout", []string{"--dns-timeout", "0", "classify", "example.com"}},
		{"zero body size", []string{"--max-response-size", "0", "classify", "example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestRuntimeConfig(t *testing.T) {
	cfg, err := ParseFlags([]string{"--http-timeout", "3", "--user-agent", "probe/1", "--whois", "classify", "example.com"})
	require.NoError(t, err)

	rc, err := cfg.RuntimeConfig()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, rc.HTTP.Timeout)
	assert.Equal(t, "probe/1", rc.HTTP.UserAgent)
	assert.Equal(t, 5*time.Second, rc.DNS.Timeout)
	assert.True(t, rc.Profile.WhoisPrecheck)
	assert.True(t, rc.Profile.Scored)
}

func TestRuntimeConfig_DefaultUserAgent(t *testing.T) {
	cfg, err := ParseFlags([]string{"classify", "example.com"})
	require.NoError(t, err)

	rc, err := cfg.RuntimeConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultUserAgent, rc.HTTP.UserAgent)
	assert.False(t, rc.Profile.WhoisPrecheck)
}

func TestRuntimeConfig_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("link_threshold: 20\nredirect_penalty: 5\n"), 0o644))

	cfg, err := ParseFlags([]string{"--rules", path, "classify", "example.com"})
	require.NoError(t, err)

	rc, err := cfg.RuntimeConfig()
	require.NoError(t, err)
	assert.Equal(t, 20, rc.Profile.LinkThreshold)
	assert.Equal(t, 5, rc.Profile.RedirectPenalty)
	assert.Equal(t, config.ScoredProfile().SaleKeywords, rc.Profile.SaleKeywords)
}

func TestRuntimeConfig_MissingRulesFile(t *testing.T) {
	cfg, err := ParseFlags([]string{"--rules", filepath.Join(t.TempDir(), "absent.yaml"), "classify", "example.com"})
	require.NoError(t, err)

	_, err = cfg.RuntimeConfig()
	assert.Error(t, err)
}

func TestLoggerConfig(t *testing.T) {
	cfg, err := ParseFlags([]string{"--log-level", "debug", "--log-format", "json", "classify", "example.com"})
	require.NoError(t, err)

	lc := cfg.LoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
}

func TestAssembler(t *testing.T) {
	rc, err := config.New(config.ProfileClassic)
	require.NoError(t, err)
	rc.DNS.Servers = []string{"192.0.2.53:53"}

	uc, err := NewAssembler(rc, zerolog.Nop(), prometheus.NewRegistry()).AssembleUseCase()
	require.NoError(t, err)
	assert.NotNil(t, uc)

	rc.HTTP.Timeout = 0
	_, err = NewAssembler(rc, zerolog.Nop(), nil).AssembleUseCase()
	assert.Error(t, err)
}
