package manager

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	yaml := "theme: light\nssh_config: /etc/ssh/ssh_config\nconfirm_delete: false\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	st, loadedFrom, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loadedFrom != path {
		t.Fatalf("loadedFrom = %q", loadedFrom)
	}
	if st.ThemeName() != "light" {
		t.Fatalf("theme = %q", st.ThemeName())
	}
	if st.SSHConfigPath() != "/etc/ssh/ssh_config" {
		t.Fatalf("ssh config = %q", st.SSHConfigPath())
	}
	if st.ShouldConfirmDelete() {
		t.Fatalf("confirm_delete: false should disable confirmation")
	}
}

func TestLoadSettingsMissingExplicitPath(t *testing.T) {
	_, _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected an error for a missing explicit path")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadSettingsEnvDiscovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("theme: none\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SSHMAN_SETTINGS", path)

	st, loadedFrom, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loadedFrom != path {
		t.Fatalf("loadedFrom = %q", loadedFrom)
	}
	if st.ThemeName() != "none" {
		t.Fatalf("theme = %q", st.ThemeName())
	}
}

func TestLoadSettingsInvalidTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("theme: neon\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := LoadSettings(path); err == nil {
		t.Fatalf("expected validation error for unknown theme")
	}
}

func TestSettingsDefaults(t *testing.T) {
	st := DefaultSettings()
	if st.ThemeName() != "dark" {
		t.Fatalf("theme = %q", st.ThemeName())
	}
	if !st.ShouldConfirmDelete() {
		t.Fatalf("confirmation should default to on")
	}
}
