package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail providers accepted in MAIL_PROVIDER.
const (
	MailProviderSMTP   = "smtp"
	MailProviderResend = "resend"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	LarkAppID     string
	LarkAppSecret string
	LarkBaseURL   string
	LarkAppToken  string
	LarkTableID   string
	LarkViewID    string
	LarkCacheTTL  time.Duration

	DatabaseURL string
	SendLogFile string
	Timezone    string

	MailProvider  string
	SMTPServer    string
	SMTPPort      int
	EmailUsername string
	EmailPassword string
	SenderEmail   string
	ResendAPIKey  string
	ProbationForm string
	RenewalForm   string
	ExtraCC       string
	RoutingFile   string

	HTTPAddr           string
	CORSAllowedOrigins []string
	CronSpecReminders  string // Empty disables the scheduled reminder cycle
	CronSpecPurge      string

	RedisURL            string
	TelegramToken       string
	TelegramAdminChatID int64

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	for name, dst := range map[string]*string{
		"LARK_APP_ID":     &cfg.LarkAppID,
		"LARK_APP_SECRET": &cfg.LarkAppSecret,
		"LARK_APP_TOKEN":  &cfg.LarkAppToken,
		"LARK_TABLE_ID":   &cfg.LarkTableID,
	} {
		*dst = os.Getenv(name)
		if *dst == "" {
			return nil, fmt.Errorf("%s is not set", name)
		}
	}
	cfg.LarkBaseURL = strings.TrimRight(getEnv("LARK_BASE_URL", "https://open.feishu.cn"), "/")
	cfg.LarkViewID = os.Getenv("LARK_VIEW_ID")
	cfg.LarkCacheTTL, err = time.ParseDuration(getEnv("LARK_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LARK_CACHE_TTL: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SendLogFile = getEnv("SEND_LOG_FILE", "sent_emails.json")
	cfg.Timezone = getEnv("TIMEZONE", "Asia/Shanghai")
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.MailProvider = strings.ToLower(getEnv("MAIL_PROVIDER", MailProviderSMTP))
	cfg.SMTPServer = os.Getenv("SMTP_SERVER")
	cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "465"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.EmailUsername = os.Getenv("EMAIL_USERNAME")
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")
	cfg.SenderEmail = getEnv("SENDER_EMAIL", cfg.EmailUsername)
	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")

	switch cfg.MailProvider {
	case MailProviderSMTP:
		if cfg.SMTPServer == "" || cfg.EmailUsername == "" {
			return nil, fmt.Errorf("SMTP_SERVER and EMAIL_USERNAME must be set for the smtp mail provider")
		}
	case MailProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is not set")
		}
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SENDER_EMAIL is not set")
	}

	cfg.ProbationForm = os.Getenv("PROBATION_FORM_URL")
	cfg.RenewalForm = os.Getenv("CONTRACT_RENEWAL_FORM_URL")
	cfg.ExtraCC = os.Getenv("EXTRA_CC")
	cfg.RoutingFile = os.Getenv("ROUTING_FILE")

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":5001")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.CronSpecReminders = os.Getenv("CRON_SPEC_REMINDERS")
	cfg.CronSpecPurge = getEnv("CRON_SPEC_PURGE", "0 3 * * *") // Default: 3 AM daily

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatID := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); chatID != "" {
		cfg.TelegramAdminChatID, err = strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	return cfg, nil
}

// Location returns the configured calendar timezone. Load has already validated it.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TelegramEnabled reports whether cycle summaries should be posted to an admin chat.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramAdminChatID != 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
