// Package config provides configuration management for the agenda watcher.
//
// Settings come from three layers: built-in defaults, an optional YAML file,
// and environment variables. Command-line flags applied by the CLI sit on
// top. Secrets (SMTP password, bot token) are only read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "data/events.json"
	defaultSMTPServer = "smtp.gmail.com"
	defaultSMTPPort   = 587
	defaultMaxPages   = 5
)

// Environment variable names.
const (
	scraperURLEnv      = "SCRAPER_URL"
	searchTermsEnv     = "SEARCH_TERMS"
	primaryTermEnv     = "PRIMARY_TERM"
	primaryVariantsEnv = "PRIMARY_TERM_VARIANTS"
	termVariantsEnv    = "TERM_VARIANTS"
	variantsFileEnv    = "VARIANTS_FILE"
	maxPagesEnv        = "MAX_PAGES"
	dataFileEnv        = "DATA_FILE"
	senderEmailEnv     = "SENDER_EMAIL"
	receiverEmailEnv   = "RECEIVER_EMAIL"
	cityEmailEnv       = "CITY_EMAIL"
	nameEnv            = "NAME"
	phoneEnv           = "PHONE"
	smtpServerEnv      = "SMTP_SERVER"
	smtpPortEnv        = "SMTP_PORT"
	emailPasswordEnv   = "EMAIL_PASSWORD"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	webhookURLEnv      = "WEBHOOK_URL"
)

// Configuration validation errors.
var (
	ErrMissingURL        = errors.New("scraper.url is required")
	ErrNoSearchTerms     = errors.New("at least one search term, a primary term, or a variants file is required")
	ErrInvalidMaxPages   = errors.New("scraper.max_pages must be at least 1")
	ErrMissingSender     = errors.New("email.sender is required for email notifications")
	ErrMissingReceiver   = errors.New("email.receiver is required for email notifications")
	ErrMissingBotToken   = errors.New("telegram bot token is required for telegram notifications")
	ErrMissingChatID     = errors.New("telegram chat ID is required for telegram notifications")
	ErrMissingWebhookURL = errors.New("webhook.url is required for webhook notifications")
	ErrUnknownChannel    = errors.New("unknown notification channel")
)

// Config represents the complete watcher configuration.
type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Store    StoreConfig    `yaml:"store"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

// ScraperConfig contains the scrape target and term settings.
type ScraperConfig struct {
	URL         string   `yaml:"url"`
	SearchTerms []string `yaml:"search_terms"`
	PrimaryTerm string   `yaml:"primary_term"`
	// PrimaryVariants is a comma-separated variant list for the primary term.
	PrimaryVariants string `yaml:"primary_variants"`
	VariantsFile    string `yaml:"variants_file"`
	// TermVariants is an inline JSON variant map, environment only.
	TermVariants string `yaml:"-"`
	MaxPages     int    `yaml:"max_pages"`
	ExactMatch   bool   `yaml:"exact_match"`
}

// Terms returns the configured search terms, falling back to the primary term.
func (s ScraperConfig) Terms() []string {
	if len(s.SearchTerms) > 0 {
		return s.SearchTerms
	}
	if s.PrimaryTerm != "" {
		return []string{s.PrimaryTerm}
	}
	return nil
}

// StoreConfig locates the processed-events file.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// EmailConfig wires the SMTP notifier and the registration links.
type EmailConfig struct {
	Sender     string `yaml:"sender"`
	Receiver   string `yaml:"receiver"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	// Password comes from EMAIL_PASSWORD, never from a config file.
	Password  string `yaml:"-"`
	CityEmail string `yaml:"city_email"`
	Name      string `yaml:"name"`
	Phone     string `yaml:"phone"`
}

// TelegramConfig wires the Telegram notifier.
type TelegramConfig struct {
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"chat_id"`
}

// WebhookConfig wires the webhook notifier.
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scraper: ScraperConfig{MaxPages: defaultMaxPages},
		Store:   StoreConfig{Path: defaultDataFile},
		Email: EmailConfig{
			SMTPServer: defaultSMTPServer,
			SMTPPort:   defaultSMTPPort,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(scraperURLEnv); v != "" {
		c.Scraper.URL = v
	}
	if v := os.Getenv(searchTermsEnv); v != "" {
		c.Scraper.SearchTerms = ParseTerms(v)
	}
	if v := os.Getenv(primaryTermEnv); v != "" {
		c.Scraper.PrimaryTerm = v
	}
	if v := os.Getenv(primaryVariantsEnv); v != "" {
		c.Scraper.PrimaryVariants = v
	}
	if v := os.Getenv(termVariantsEnv); v != "" {
		c.Scraper.TermVariants = v
	}
	if v := os.Getenv(variantsFileEnv); v != "" {
		c.Scraper.VariantsFile = v
	}
	if v := os.Getenv(maxPagesEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", maxPagesEnv, v, err)
		}
		c.Scraper.MaxPages = n
	}
	if v := os.Getenv(dataFileEnv); v != "" {
		c.Store.Path = v
	}

	if v := os.Getenv(senderEmailEnv); v != "" {
		c.Email.Sender = v
	}
	if v := os.Getenv(receiverEmailEnv); v != "" {
		c.Email.Receiver = v
	}
	if v := os.Getenv(cityEmailEnv); v != "" {
		c.Email.CityEmail = v
	}
	if v := os.Getenv(nameEnv); v != "" {
		c.Email.Name = v
	}
	if v := os.Getenv(phoneEnv); v != "" {
		c.Email.Phone = v
	}
	if v := os.Getenv(smtpServerEnv); v != "" {
		c.Email.SMTPServer = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", smtpPortEnv, v, err)
		}
		c.Email.SMTPPort = n
	}
	c.Email.Password = os.Getenv(emailPasswordEnv)

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Webhook.URL = v
	}
	return nil
}

// Validate checks the configuration for a run notifying through channel
// ("email", "telegram", "webhook" or "none").
func (c *Config) Validate(channel string) error {
	if c.Scraper.URL == "" {
		return ErrMissingURL
	}
	if c.Scraper.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if len(c.Scraper.Terms()) == 0 && c.Scraper.VariantsFile == "" && c.Scraper.TermVariants == "" {
		return ErrNoSearchTerms
	}

	switch channel {
	case "", "none":
	case "email":
		if c.Email.Sender == "" {
			return ErrMissingSender
		}
		if c.Email.Receiver == "" {
			return ErrMissingReceiver
		}
	case "telegram":
		if c.Telegram.BotToken == "" {
			return ErrMissingBotToken
		}
		if c.Telegram.ChatID == "" {
			return ErrMissingChatID
		}
	case "webhook":
		if c.Webhook.URL == "" {
			return ErrMissingWebhookURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	return nil
}

// ParseTerms splits a comma-separated term list, trimming whitespace and
// dropping empty entries.
func ParseTerms(raw string) []string {
	raw = strings.TrimRight(raw, ",")
	if raw == "" {
		return nil
	}

	var terms []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
