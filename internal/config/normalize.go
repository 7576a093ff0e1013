package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeService()
	c.normalizePage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeService() {
	if value, ok := os.LookupEnv("STORYLINK_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.Service.APIKey = strings.TrimSpace(value)
	}
	c.Service.APIKey = strings.TrimSpace(c.Service.APIKey)
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultBaseURL
	}
	c.Service.Origin = strings.TrimRight(strings.TrimSpace(c.Service.Origin), "/")
	if c.Service.RequestTimeout == 0 {
		c.Service.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizePage() {
	c.Page.Listen = strings.TrimSpace(c.Page.Listen)
	if c.Page.Listen == "" {
		c.Page.Listen = defaultListen
	}
	c.Page.Title = strings.TrimSpace(c.Page.Title)
	if c.Page.Title == "" {
		c.Page.Title = defaultPageTitle
	}
	if c.Page.HistoryLimit == 0 {
		c.Page.HistoryLimit = defaultHistoryLimit
	}
	if c.Service.Origin == "" {
		c.Service.Origin = "http://" + c.Page.Listen
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
