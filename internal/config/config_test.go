package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 8, cfg.Crawler.Concurrency)
	require.Equal(t, "site-relations-crawler/1.0", cfg.Crawler.UserAgent)
	require.Equal(t, 30*time.Second, cfg.FetchTimeout())
	require.Zero(t, cfg.ScanTimeout())
	require.Equal(t, 10*1024*1024, cfg.HTTP.MaxBodyBytes)
	require.False(t, cfg.Origin.StrictSubdomains)
	require.False(t, cfg.Auth.Enabled)
	require.True(t, cfg.Logging.Development)
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
auth:
  enabled: true
  api_key: secret
crawler:
  concurrency: 6
  user_agent: real-agent
  scan_timeout_seconds: 120
http:
  timeout_seconds: 45
  max_body_bytes: 2048
origin:
  strict_subdomains: true
pubsub:
  project_id: demo
  topic_name: scans
logging:
  development: false
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "secret", cfg.Auth.APIKey)
	require.Equal(t, 6, cfg.Crawler.Concurrency)
	require.Equal(t, "real-agent", cfg.Crawler.UserAgent)
	require.Equal(t, 2*time.Minute, cfg.ScanTimeout())
	require.Equal(t, 45*time.Second, cfg.FetchTimeout())
	require.Equal(t, 2048, cfg.HTTP.MaxBodyBytes)
	require.True(t, cfg.Origin.StrictSubdomains)
	require.Equal(t, PubSubConfig{ProjectID: "demo", TopicName: "scans"}, cfg.PubSub)
	require.False(t, cfg.Logging.Development)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CRAWLER_CRAWLER_CONCURRENCY", "3")
	t.Setenv("CRAWLER_ORIGIN_STRICT_SUBDOMAINS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Crawler.Concurrency)
	require.True(t, cfg.Origin.StrictSubdomains)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawler:\n  concurrency: 0\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "crawler.concurrency")
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server:  ServerConfig{Port: 8080},
		Crawler: CrawlerConfig{Concurrency: 1},
		HTTP:    HTTPConfig{TimeoutSeconds: 10},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"invalid concurrency", func(c *Config) { c.Crawler.Concurrency = 0 }, "crawler.concurrency"},
		{"negative scan timeout", func(c *Config) { c.Crawler.ScanTimeoutSeconds = -1 }, "crawler.scan_timeout_seconds"},
		{"invalid timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, "http.timeout_seconds"},
		{"negative body limit", func(c *Config) { c.HTTP.MaxBodyBytes = -1 }, "http.max_body_bytes"},
		{"auth missing api key", func(c *Config) { c.Auth.Enabled = true }, "auth.api_key"},
		{"topic without project", func(c *Config) { c.PubSub.TopicName = "scans" }, "pubsub.project_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
