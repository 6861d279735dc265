package manager

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML configuration for sshman.
//
// Example YAML:
//
//	theme: dark
//	ssh_config: ~/.ssh/config
//	confirm_delete: true
type Settings struct {
	// Theme selects the TUI palette: "dark" (default), "light" or "none".
	Theme string `yaml:"theme,omitempty"`

	// SSHConfig overrides the OpenSSH client config path used for import.
	// Defaults to ~/.ssh/config.
	SSHConfig string `yaml:"ssh_config,omitempty"`

	// ConfirmDelete controls whether deleting a profile asks for
	// confirmation first. Nil means true.
	ConfirmDelete *bool `yaml:"confirm_delete,omitempty"`
}

// ErrSettingsNotFound is returned when no settings file can be located.
var ErrSettingsNotFound = errors.New("settings not found")

// DefaultSettings returns the built-in defaults used when no settings
// file exists.
func DefaultSettings() Settings {
	return Settings{Theme: "dark"}
}

// LoadSettings discovers and loads settings.yaml.
// An explicit path is authoritative: it is the only candidate, and its
// errors surface directly. With an empty path the search order is:
//  1. $SSHMAN_SETTINGS
//  2. $XDG_CONFIG_HOME/sshman/settings.yaml
//  3. ~/.config/sshman/settings.yaml
//
// A missing file is not an error to callers that want defaults; they
// should fall back to DefaultSettings on ErrSettingsNotFound (or a
// not-exist error from an explicit path).
func LoadSettings(explicitPath string) (Settings, string, error) {
	var candidates []string
	if strings.TrimSpace(explicitPath) != "" {
		return loadSettingsFile(expandPath(explicitPath))
	}
	if env := strings.TrimSpace(os.Getenv("SSHMAN_SETTINGS")); env != "" {
		candidates = append(candidates, env)
	}
	if p, err := DefaultSettingsPath(); err == nil {
		candidates = append(candidates, p)
	}

	for _, p := range candidates {
		p = expandPath(p)
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return loadSettingsFile(p)
	}
	return Settings{}, "", ErrSettingsNotFound
}

func loadSettingsFile(path string) (Settings, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, "", err
	}
	var st Settings
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Settings{}, path, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	if err := st.Validate(); err != nil {
		return Settings{}, path, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return st, path, nil
}

// Validate performs basic sanity checks on the settings.
func (s *Settings) Validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Theme)) {
	case "", "dark", "light", "none":
	default:
		return fmt.Errorf("invalid theme %q (expected: dark|light|none)", s.Theme)
	}
	return nil
}

// ThemeName returns the effective theme name, defaulting to "dark".
func (s Settings) ThemeName() string {
	name := strings.ToLower(strings.TrimSpace(s.Theme))
	if name == "" {
		return "dark"
	}
	return name
}

// ShouldConfirmDelete reports whether the TUI asks before deleting.
func (s Settings) ShouldConfirmDelete() bool {
	if s.ConfirmDelete == nil {
		return true
	}
	return *s.ConfirmDelete
}

// SSHConfigPath resolves the ssh config path to import from: the settings
// override if set, else ~/.ssh/config.
func (s Settings) SSHConfigPath() string {
	if p := strings.TrimSpace(s.SSHConfig); p != "" {
		return expandPath(p)
	}
	p, err := DefaultSSHConfigPath()
	if err != nil {
		return ""
	}
	return p
}
