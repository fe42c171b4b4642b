package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, filename string, content Config) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, filename)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

func mockConfigPaths(t *testing.T, userPath, projectPath string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	originalOsGetenv := osGetenv
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
		osGetenv = originalOsGetenv
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
	osGetenv = func(string) string { return "" }
}

func TestLoad_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t,
		filepath.Join(tempDir, "non-existent-user-config.yaml"),
		filepath.Join(tempDir, "non-existent-project-config.yaml"))

	loaded, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestLoad_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	userConfDir := filepath.Join(tempDir, userConfigDir)
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))

	mockConfigPaths(t,
		filepath.Join(userConfDir, configFileName),
		filepath.Join(tempDir, "no-project-config.yaml"))

	createTempConfigFile(t, userConfDir, configFileName, Config{
		APIKey: "ak_user",
		Env:    "dev",
		Browse: BrowseSettings{PageSize: 50},
	})

	loaded, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "ak_user", loaded.APIKey)
	assert.Equal(t, "dev", loaded.Env)
	assert.Equal(t, 50, loaded.Browse.PageSize)
	// Fields the user file does not set keep their defaults.
	assert.Equal(t, DefaultConfig().Browse.RefreshSeconds, loaded.Browse.RefreshSeconds)
	assert.Equal(t, DefaultConfig().SSH.KeyDir, loaded.SSH.KeyDir)
}

func TestLoad_ProjectBeatsUser(t *testing.T) {
	tempDir := t.TempDir()
	userConfDir := filepath.Join(tempDir, userConfigDir)
	projectConfDir := filepath.Join(tempDir, projectConfigDir)
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))
	assert.NoError(t, os.MkdirAll(projectConfDir, 0755))

	mockConfigPaths(t,
		filepath.Join(userConfDir, configFileName),
		filepath.Join(projectConfDir, configFileName))

	createTempConfigFile(t, userConfDir, configFileName, Config{APIKey: "ak_user", Env: "prod"})
	createTempConfigFile(t, projectConfDir, configFileName, Config{APIKey: "ak_project"})

	loaded, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "ak_project", loaded.APIKey)
	assert.Equal(t, "prod", loaded.Env)
}

func TestLoad_EnvBeatsFiles(t *testing.T) {
	tempDir := t.TempDir()
	userConfDir := filepath.Join(tempDir, userConfigDir)
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))

	mockConfigPaths(t,
		filepath.Join(userConfDir, configFileName),
		filepath.Join(tempDir, "no-project-config.yaml"))
	osGetenv = func(key string) string {
		switch key {
		case "RUNLOOP_API_KEY":
			return "ak_env"
		case "RUNLOOP_ENV":
			return "dev"
		}
		return ""
	}

	createTempConfigFile(t, userConfDir, configFileName, Config{APIKey: "ak_user", Env: "prod"})

	loaded, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "ak_env", loaded.APIKey)
	assert.Equal(t, "dev", loaded.Env)
}

func TestLoad_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	userConfDir := filepath.Join(tempDir, userConfigDir)
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))

	mockConfigPaths(t,
		filepath.Join(userConfDir, configFileName),
		filepath.Join(tempDir, "no-project-config.yaml"))

	badPath := filepath.Join(userConfDir, configFileName)
	assert.NoError(t, os.WriteFile(badPath, []byte("apiKey: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}
