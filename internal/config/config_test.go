package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
accounts:
  - panelUrl: https://panel12.serv00.com/
    username: alice
    password: secret
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := cfg.Settings.Timeout(); got != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", got)
	}
	if got := cfg.Settings.Retries(); got != 3 {
		t.Fatalf("retries = %d, want 3", got)
	}
	if cfg.Settings.LogFile != "serv00.log" {
		t.Fatalf("logFile = %q, want serv00.log", cfg.Settings.LogFile)
	}
	if cfg.Settings.Limits.MaxConcurrent != 1 {
		t.Fatalf("maxConcurrent = %d, want 1", cfg.Settings.Limits.MaxConcurrent)
	}
	// URL 末尾的斜杠要被吃掉，后面统一拼 /login/
	if cfg.Accounts[0].PanelURL != "https://panel12.serv00.com" {
		t.Fatalf("panelUrl = %q", cfg.Accounts[0].PanelURL)
	}
}

func TestLoadExplicitSettings(t *testing.T) {
	path := writeConfig(t, `
accounts:
  - panelUrl: https://panel3.serv00.com
    username: bob
    password: pw
    onBanned: "echo banned"
settings:
  timeoutSeconds: 10
  retryCount: 5
  limits:
    maxConcurrent: 4
    globalQPS: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Settings.Timeout(); got != 10*time.Second {
		t.Fatalf("timeout = %v", got)
	}
	if got := cfg.Settings.Retries(); got != 5 {
		t.Fatalf("retries = %d", got)
	}
	if cfg.Settings.Limits.MaxConcurrent != 4 {
		t.Fatalf("maxConcurrent = %d", cfg.Settings.Limits.MaxConcurrent)
	}
	if cfg.Accounts[0].OnBanned != "echo banned" {
		t.Fatalf("onBanned = %q", cfg.Accounts[0].OnBanned)
	}
}

func TestLoadRejectsEmptyAccounts(t *testing.T) {
	path := writeConfig(t, `
settings:
  timeoutSeconds: 10
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for config without accounts")
	}
}

func TestLoadRejectsIncompleteAccount(t *testing.T) {
	path := writeConfig(t, `
accounts:
  - panelUrl: https://panel3.serv00.com
    username: bob
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for account without password")
	}
}

func TestLoadRejectsEmailWithoutHost(t *testing.T) {
	path := writeConfig(t, `
accounts:
  - panelUrl: https://panel3.serv00.com
    username: bob
    password: pw
notify:
  email:
    enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for enabled email without smtpHost")
	}
}
