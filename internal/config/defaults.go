package config

// DefaultConfig returns the built-in configuration. File layers and
// environment variables are applied on top of this.
func DefaultConfig() Config {
	return Config{
		Env:          "prod",
		DashboardURL: "https://platform.runloop.ai",
		Browse: BrowseSettings{
			PageSize:       20,
			RefreshSeconds: 5,
		},
		SSH: SSHSettings{
			KeyDir:              "~/.runloop/ssh_keys",
			WaitTimeoutSeconds:  180,
			PollIntervalSeconds: 3,
		},
	}
}
