package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Scraper.MaxPages != 5 {
		t.Errorf("default max pages = %d, want 5", cfg.Scraper.MaxPages)
	}
	if cfg.Store.Path != "data/events.json" {
		t.Errorf("default store path = %q", cfg.Store.Path)
	}
	if cfg.Email.SMTPServer != "smtp.gmail.com" || cfg.Email.SMTPPort != 587 {
		t.Errorf("default SMTP = %s:%d", cfg.Email.SMTPServer, cfg.Email.SMTPPort)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
scraper:
  url: https://city.example/agenda
  search_terms: [concert, brocante]
  max_pages: 3
store:
  path: /tmp/events.json
email:
  sender: me@example.com
  receiver: you@example.com
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scraper.URL != "https://city.example/agenda" {
		t.Errorf("url = %q", cfg.Scraper.URL)
	}
	if !reflect.DeepEqual(cfg.Scraper.SearchTerms, []string{"concert", "brocante"}) {
		t.Errorf("search terms = %v", cfg.Scraper.SearchTerms)
	}
	if cfg.Scraper.MaxPages != 3 {
		t.Errorf("max pages = %d", cfg.Scraper.MaxPages)
	}
	// Absent keys keep their defaults.
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("SMTP port = %d, want default 587", cfg.Email.SMTPPort)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_URL", "https://env.example/agenda")
	t.Setenv("SEARCH_TERMS", "marché, vide-grenier,")
	t.Setenv("MAX_PAGES", "7")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scraper.URL != "https://env.example/agenda" {
		t.Errorf("url = %q", cfg.Scraper.URL)
	}
	if !reflect.DeepEqual(cfg.Scraper.SearchTerms, []string{"marché", "vide-grenier"}) {
		t.Errorf("search terms = %v", cfg.Scraper.SearchTerms)
	}
	if cfg.Scraper.MaxPages != 7 {
		t.Errorf("max pages = %d", cfg.Scraper.MaxPages)
	}
	if cfg.Email.Password != "app-password" {
		t.Error("password should come from the environment")
	}
	if cfg.Telegram.BotToken != "token" {
		t.Error("bot token should come from the environment")
	}
}

func TestEnvOverrideBadInt(t *testing.T) {
	t.Setenv("MAX_PAGES", "many")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for a non-numeric MAX_PAGES")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg := Default()
		cfg.Scraper.URL = "https://city.example/agenda"
		cfg.Scraper.SearchTerms = []string{"concert"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		channel string
		wantErr error
	}{
		{"valid without notifications", func(c *Config) {}, "none", nil},
		{"missing url", func(c *Config) { c.Scraper.URL = "" }, "none", ErrMissingURL},
		{"zero max pages", func(c *Config) { c.Scraper.MaxPages = 0 }, "none", ErrInvalidMaxPages},
		{"no terms at all", func(c *Config) { c.Scraper.SearchTerms = nil }, "none", ErrNoSearchTerms},
		{"variants file stands in for terms", func(c *Config) {
			c.Scraper.SearchTerms = nil
			c.Scraper.VariantsFile = "variants.json"
		}, "none", nil},
		{"primary term stands in for terms", func(c *Config) {
			c.Scraper.SearchTerms = nil
			c.Scraper.PrimaryTerm = "brocante"
		}, "none", nil},
		{"email needs sender", func(c *Config) { c.Email.Receiver = "you@example.com" }, "email", ErrMissingSender},
		{"email complete", func(c *Config) {
			c.Email.Sender = "me@example.com"
			c.Email.Receiver = "you@example.com"
		}, "email", nil},
		{"telegram needs token", func(c *Config) { c.Telegram.ChatID = "42" }, "telegram", ErrMissingBotToken},
		{"webhook needs url", func(c *Config) {}, "webhook", ErrMissingWebhookURL},
		{"unknown channel", func(c *Config) {}, "pigeon", ErrUnknownChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate(tt.channel)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "concert,brocante", []string{"concert", "brocante"}},
		{"whitespace and trailing comma", " concert , brocante ,", []string{"concert", "brocante"}},
		{"empty entries dropped", "concert,,brocante", []string{"concert", "brocante"}},
		{"empty input", "", nil},
		{"only commas", ",,,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTerms(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTerms(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
