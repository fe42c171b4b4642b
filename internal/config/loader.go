package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd
var osGetenv = os.Getenv

const (
	userConfigDir    = ".config/rl"
	projectConfigDir = ".rl"
	configFileName   = "config.yaml"
)

// Load layers the rl configuration: defaults, then the user file under
// ~/.config/rl, then the project file under ./.rl, then environment
// variables. Later layers win.
func Load() (Config, error) {
	config := DefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and keep going.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	applyEnvOverrides(&config)

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.APIKey != "" {
		merged.APIKey = overlay.APIKey
	}
	if overlay.Env != "" {
		merged.Env = overlay.Env
	}
	if overlay.DashboardURL != "" {
		merged.DashboardURL = overlay.DashboardURL
	}
	if overlay.Browse.PageSize != 0 {
		merged.Browse.PageSize = overlay.Browse.PageSize
	}
	if overlay.Browse.RefreshSeconds != 0 {
		merged.Browse.RefreshSeconds = overlay.Browse.RefreshSeconds
	}
	if overlay.SSH.KeyDir != "" {
		merged.SSH.KeyDir = overlay.SSH.KeyDir
	}
	if overlay.SSH.WaitTimeoutSeconds != 0 {
		merged.SSH.WaitTimeoutSeconds = overlay.SSH.WaitTimeoutSeconds
	}
	if overlay.SSH.PollIntervalSeconds != 0 {
		merged.SSH.PollIntervalSeconds = overlay.SSH.PollIntervalSeconds
	}

	return merged
}

// applyEnvOverrides applies RUNLOOP_* environment variables, which beat
// every file layer.
func applyEnvOverrides(config *Config) {
	if key := osGetenv("RUNLOOP_API_KEY"); key != "" {
		config.APIKey = key
	}
	if env := osGetenv("RUNLOOP_ENV"); env != "" {
		config.Env = env
	}
}
