package manager

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigDirName = "sshman"
	defaultStoreFilename = "connections.json"
	defaultSettingsFile  = "settings.yaml"
)

// DefaultConfigDir resolves the sshman config directory:
// $XDG_CONFIG_HOME/sshman when XDG_CONFIG_HOME is set, otherwise
// ~/.config/sshman.
func DefaultConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, defaultConfigDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", defaultConfigDirName), nil
}

// DefaultStorePath is the default location of the connection document.
func DefaultStorePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultStoreFilename), nil
}

// DefaultSettingsPath is the default location of settings.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultSettingsFile), nil
}

// DefaultSSHConfigPath is the OpenSSH client config for the current user.
func DefaultSSHConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// expandPath expands environment variables and a leading "~" in p.
func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = os.ExpandEnv(p)
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
