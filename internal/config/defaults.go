package config

const (
	defaultBaseURL        = "https://node.theirstory.io"
	defaultAPIKey         = "fossda-web-editor"
	defaultOrigin         = "http://localhost:7490"
	defaultRequestTimeout = 30
	defaultStateDir       = "~/.local/share/storylink"
	defaultLogDir         = "~/.local/share/storylink/logs"
	defaultListen         = "127.0.0.1:7490"
	defaultPageTitle      = "storylink"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultHistoryLimit   = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultBaseURL,
			APIKey:         defaultAPIKey,
			Origin:         defaultOrigin,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Page: Page{
			Listen:       defaultListen,
			Title:        defaultPageTitle,
			HistoryLimit: defaultHistoryLimit,
		},
		Session: Session{
			AutoLogin: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
