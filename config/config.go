package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultServerPort   = 8080
	defaultReminderCron = "* * * * *"
	defaultSMTPPort     = 587
)

type Config struct {
	DatabaseURL        string
	ServerPort         int
	AppEnv             string
	CORSAllowedOrigins []string
	ReminderCron       string

	SMTP SMTPConfig
	S3   S3Config
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Enabled reports whether reminders can go out by e-mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// S3Config points at any S3-compatible bucket. Endpoint is empty for AWS
// itself and set for MinIO, R2 and similar.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from the environment, seeded from a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return loadFromEnv(os.Getenv)
}

func loadFromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intFromEnv(getenv, "SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		AppEnv:             strings.ToLower(strings.TrimSpace(getenv("APP_ENV"))),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS")),
		ReminderCron:       strings.TrimSpace(getenv("REMINDER_CRON")),
	}
	if cfg.ReminderCron == "" {
		cfg.ReminderCron = defaultReminderCron
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	smtpPort, err := intFromEnv(getenv, "SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return nil, err
	}
	cfg.SMTP = SMTPConfig{
		Host: getenv("SMTP_HOST"),
		Port: smtpPort,
		User: getenv("SMTP_USER"),
		Pass: getenv("SMTP_PASS"),
		From: getenv("SMTP_FROM"),
	}

	cfg.S3 = S3Config{
		Endpoint:        getenv("S3_ENDPOINT"),
		Region:          getenv("S3_REGION"),
		AccessKeyID:     getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: getenv("S3_SECRET_ACCESS_KEY"),
		Bucket:          getenv("S3_BUCKET"),
		PublicBaseURL:   getenv("S3_PUBLIC_BASE_URL"),
	}
	if cfg.S3.Enabled() && cfg.S3.PublicBaseURL == "" {
		return nil, fmt.Errorf("S3_PUBLIC_BASE_URL is required when S3_BUCKET is set")
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
