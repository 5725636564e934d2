package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test from an empty directory so stray config.* or .env
// files are not picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" || cfg.HTTPPort != 8080 || cfg.SiteTitle != "My Portfolio" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.VisitorRetention != 8760*time.Hour {
		t.Errorf("VisitorRetention = %v", cfg.VisitorRetention)
	}
	if cfg.ResetOnAccept {
		t.Error("ResetOnAccept should default to false")
	}
	if cfg.MailEnabled() || cfg.AdminEnabled() {
		t.Error("mail and admin should be off by default")
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("http_port: 9000\nsite_title: From File\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_SITE_TITLE", "From Env")

	cfg, err := Load(nil, []string{"--reset_on_accept"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 9000 {
		t.Errorf("HTTPPort = %d, want 9000 from file", cfg.HTTPPort)
	}
	if cfg.SiteTitle != "From Env" {
		t.Errorf("SiteTitle = %q, want env to beat file", cfg.SiteTitle)
	}
	if !cfg.ResetOnAccept {
		t.Error("flag not applied")
	}

	cfg, err = Load(nil, []string{"--site_title", "From Flag"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SiteTitle != "From Flag" {
		t.Errorf("SiteTitle = %q, want flag to beat env", cfg.SiteTitle)
	}
}

func TestLoad_LegacyEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "3000")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("TO_EMAIL", "inbox@example.com")

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 3000 {
		t.Errorf("HTTPPort = %d, want 3000", cfg.HTTPPort)
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled = false")
	}
	if cfg.SMTP.From != "me@example.com" {
		t.Errorf("From = %q, want smtp_user fallback", cfg.SMTP.From)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"env", []string{"--env", "staging"}, "env must be"},
		{"log level", []string{"--log_level", "loud"}, "log_level"},
		{"port", []string{"--http_port", "70000"}, "http_port"},
		{"retention", []string{"--visitor_retention", "0s"}, "visitor_retention"},
		{"mail from", []string{"--smtp_host", "smtp.example.com", "--contact_to", "x@example.com"}, "contact_from"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(nil, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestDump_RedactsSecrets(t *testing.T) {
	cfg := Config{AdminPassword: "hunter2", SMTP: SMTPConfig{Pass: "s3cret"}}
	out := cfg.Dump()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "s3cret") {
		t.Errorf("Dump leaked secrets: %s", out)
	}
}
