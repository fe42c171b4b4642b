package config

// Config is the top-level configuration structure for rl.
type Config struct {
	// APIKey authenticates against the platform API. The RUNLOOP_API_KEY
	// environment variable takes precedence over any file value.
	APIKey string `yaml:"apiKey,omitempty"`

	// Env selects the API environment ("prod" or "dev"). RUNLOOP_ENV
	// takes precedence.
	Env string `yaml:"env,omitempty"`

	// DashboardURL is the web console resources are opened in ('o' in the
	// browser, `--open` on get commands).
	DashboardURL string `yaml:"dashboardUrl,omitempty"`

	Browse BrowseSettings `yaml:"browse"`
	SSH    SSHSettings    `yaml:"ssh"`
}

// BrowseSettings tune the interactive browser.
type BrowseSettings struct {
	// PageSize is how many rows each list page requests.
	PageSize int `yaml:"pageSize,omitempty"`
	// RefreshSeconds is how often the visible page is re-fetched.
	RefreshSeconds int `yaml:"refreshSeconds,omitempty"`
}

// SSHSettings tune devbox ssh behavior.
type SSHSettings struct {
	// KeyDir is where minted private keys are written.
	KeyDir string `yaml:"keyDir,omitempty"`
	// WaitTimeoutSeconds bounds the readiness poll before connecting.
	WaitTimeoutSeconds int `yaml:"waitTimeoutSeconds,omitempty"`
	// PollIntervalSeconds is the readiness poll cadence.
	PollIntervalSeconds int `yaml:"pollIntervalSeconds,omitempty"`
}
