package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"storylink/internal/services"
)

// Validate ensures the configuration is usable. Failures match
// services.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{c.validateService, c.validatePage, c.validateLogging} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validateService() error {
	parsed, err := url.Parse(c.Service.BaseURL)
	if err != nil {
		return fmt.Errorf("service.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("service.base_url must be an http(s) URL, got %q", c.Service.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("service.base_url must include a host, got %q", c.Service.BaseURL)
	}
	if c.Service.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/storylink/config.toml"
		}
		return fmt.Errorf("service.api_key is required. Set STORYLINK_API_KEY env var or edit %s (create with 'storylink config init')", defaultPath)
	}
	if c.Service.RequestTimeout <= 0 {
		return errors.New("service.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePage() error {
	if !strings.Contains(c.Page.Listen, ":") {
		return fmt.Errorf("page.listen must be host:port, got %q", c.Page.Listen)
	}
	if c.Page.HistoryLimit < 0 {
		return errors.New("page.history_limit must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
