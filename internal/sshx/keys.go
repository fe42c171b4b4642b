package sshx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

// ExpandKeyDir resolves a leading ~/ in the configured key directory.
func ExpandKeyDir(dir string) (string, error) {
	if dir == "" {
		dir = "~/.runloop/ssh_keys"
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := osUserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(dir, "~"), "/")), nil
	}
	return dir, nil
}

// KeyPath returns the on-disk location of a devbox private key.
func KeyPath(keyDir, devboxID string) (string, error) {
	dir, err := ExpandKeyDir(keyDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, devboxID+".pem"), nil
}

// WriteKey persists a freshly minted private key. The key file must be
// 0600 or ssh refuses to use it.
func WriteKey(keyDir, devboxID, privateKey string) (string, error) {
	path, err := KeyPath(keyDir, devboxID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(privateKey), 0600); err != nil {
		return "", fmt.Errorf("writing key file: %w", err)
	}
	return path, nil
}

// RemoveKey deletes a devbox private key if present.
func RemoveKey(keyDir, devboxID string) error {
	path, err := KeyPath(keyDir, devboxID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
