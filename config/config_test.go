package config

import (
	"strings"
	"testing"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadFromEnv(envFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost/intramural?sslmode=disable",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.ReminderCron != "* * * * *" {
		t.Fatalf("unexpected reminder cron %q", cfg.ReminderCron)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SMTP.Enabled() || cfg.S3.Enabled() {
		t.Fatal("SMTP and S3 should be disabled by default")
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("expected default SMTP port 587, got %d", cfg.SMTP.Port)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := loadFromEnv(envFrom(map[string]string{}))
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	cases := map[string]string{
		"not a number": "eighty",
		"out of range": "70000",
		"zero":         "0",
	}
	for name, port := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadFromEnv(envFrom(map[string]string{
				"DATABASE_URL": "postgres://x",
				"SERVER_PORT":  port,
			}))
			if err == nil {
				t.Fatalf("expected error for SERVER_PORT=%q", port)
			}
		})
	}
}

func TestLoadParsesListsAndServices(t *testing.T) {
	cfg, err := loadFromEnv(envFrom(map[string]string{
		"DATABASE_URL":         "postgres://x",
		"APP_ENV":              "Development",
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test ,",
		"SMTP_HOST":            "smtp.test",
		"SMTP_FROM":            "league@test",
		"S3_BUCKET":            "logos",
		"S3_PUBLIC_BASE_URL":   "https://cdn.test/",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development env")
	}
	if got := strings.Join(cfg.CORSAllowedOrigins, "|"); got != "http://a.test|http://b.test" {
		t.Fatalf("unexpected origins %q", got)
	}
	if !cfg.SMTP.Enabled() || !cfg.S3.Enabled() {
		t.Fatal("expected SMTP and S3 to be enabled")
	}
}

func TestLoadRequiresPublicURLForBucket(t *testing.T) {
	_, err := loadFromEnv(envFrom(map[string]string{
		"DATABASE_URL": "postgres://x",
		"S3_BUCKET":    "logos",
	}))
	if err == nil {
		t.Fatal("expected error when S3_PUBLIC_BASE_URL is missing")
	}
}
