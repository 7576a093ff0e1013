package testsupport

import (
	"path/filepath"
	"testing"

	"storylink/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Auto-login is disabled so tests never depend on the environment.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Service.APIKey = "test-key"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Page.Listen = "127.0.0.1:0"
	cfgVal.Session.AutoLogin = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the service section at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Service.BaseURL = url
	}
}

// WithAutoLogin toggles silent sign-in at startup.
func WithAutoLogin(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.AutoLogin = enabled
	}
}

// WithHistoryLimit overrides how many loads the workspace keeps.
func WithHistoryLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Page.HistoryLimit = limit
	}
}

// BaseDir returns the temp directory backing the config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// MustEnsureDirectories creates the config's directories or fails the test.
func MustEnsureDirectories(t testing.TB, cfg *config.Config) {
	t.Helper()
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
}
