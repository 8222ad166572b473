package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tlaurent/agendawatch/internal/calendar"
	"github.com/tlaurent/agendawatch/internal/config"
	"github.com/tlaurent/agendawatch/internal/event"
	"github.com/tlaurent/agendawatch/internal/filter"
	"github.com/tlaurent/agendawatch/internal/logger"
	"github.com/tlaurent/agendawatch/internal/notifier"
	"github.com/tlaurent/agendawatch/internal/scraper"
	"github.com/tlaurent/agendawatch/internal/storage"
	"github.com/tlaurent/agendawatch/internal/terms"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagURL          string
	flagConfig       string
	flagMaxPages     int
	flagSearchTerms  string
	flagPrimaryTerm  string
	flagVariantsFile string
	flagExact        bool
	flagReset        bool
	flagDataFile     string
	flagWithinDays   int
	flagUpcoming     bool
	flagWeekendsOnly bool
	flagNotify       string
	flagDryRun       bool
	flagFormat       string
	flagSort         string
	flagICSDir       string
	flagVerbose      bool
	flagDebug        bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agendawatch",
		Short: "Watch a city agenda page for events matching search terms",
		Long: `A CLI tool that walks a paginated city agenda webpage, extracts events
from loosely structured HTML, matches them against accent-insensitive search
terms, and notifies about events not seen in previous runs.`,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&flagURL, "url", "", "URL of the agenda page to scrape")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 5, "Maximum number of pages to scrape")
	cmd.Flags().StringVar(&flagSearchTerms, "search-terms", "", "Comma-separated list of terms to search for")
	cmd.Flags().StringVar(&flagPrimaryTerm, "primary-term", "", "Primary term to use if no search terms provided")
	cmd.Flags().StringVar(&flagVariantsFile, "variants-file", "", "Path to a JSON file containing term variants")
	cmd.Flags().BoolVar(&flagExact, "exact", false, "Match terms on word boundaries instead of substrings")
	cmd.Flags().BoolVar(&flagReset, "reset", false, "Reset the database of processed events before the walk")
	cmd.Flags().StringVar(&flagDataFile, "data-file", "", "Path to the processed-events file")
	cmd.Flags().IntVar(&flagWithinDays, "within-days", 0, "Only keep events dated within N days from today")
	cmd.Flags().BoolVar(&flagUpcoming, "upcoming", false, "Only keep events dated today or later")
	cmd.Flags().BoolVar(&flagWeekendsOnly, "weekends-only", false, "Only keep Saturday and Sunday events")
	cmd.Flags().StringVar(&flagNotify, "notify", "none", "Notification channel: email, telegram, webhook or none")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print alerts without delivering them")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "date", "Sort order: date or title")
	cmd.Flags().StringVar(&flagICSDir, "ics-dir", "", "Write an .ics calendar file per new event into this directory")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Include event details in text output")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	return cmd
}

// runWatch is the main command logic
func runWatch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	sortOrder := SortOrder(strings.ToLower(flagSort))
	if sortOrder != SortByDate && sortOrder != SortByTitle {
		return fmt.Errorf("invalid sort order: %s (must be 'date' or 'title')", flagSort)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)

	channel := strings.ToLower(flagNotify)
	validateChannel := channel
	if flagDryRun {
		// Dry runs never touch a delivery channel.
		validateChannel = "none"
	}
	if err := cfg.Validate(validateChannel); err != nil {
		return err
	}

	log := logger.New(flagDebug)
	defer func() { _ = log.Sync() }()

	store, err := storage.New(cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	if flagReset {
		log.Info("resetting event store", zap.String("path", cfg.Store.Path))
		if err := store.Reset(); err != nil {
			return err
		}
	}

	variants := terms.LoadVariants(cfg.Scraper.VariantsFile, log)
	variants.MergeEnv(cfg.Scraper.TermVariants, cfg.Scraper.PrimaryTerm, cfg.Scraper.PrimaryVariants, log)
	searchTerms := terms.Expand(cfg.Scraper.Terms(), variants)
	if len(searchTerms) == 0 {
		return fmt.Errorf("no usable search terms after variant expansion")
	}

	mode := scraper.ModeContains
	if cfg.Scraper.ExactMatch {
		mode = scraper.ModeExact
	}

	walker := scraper.NewWalker(
		scraper.NewHTTPFetcher(scraper.DefaultTimeout),
		scraper.NewExtractor(cfg.Scraper.URL, log),
		scraper.NewMatcher(searchTerms, mode),
		store,
		cfg.Scraper.MaxPages,
		log,
	)

	log.Info("checking for events",
		zap.String("url", cfg.Scraper.URL),
		zap.Strings("terms", searchTerms),
		zap.Int("max_pages", cfg.Scraper.MaxPages))

	newEvents, err := walker.Run(cmd.Context(), cfg.Scraper.URL)
	if err != nil {
		return fmt.Errorf("walking agenda: %w", err)
	}
	log.Info("walk finished", zap.Int("new_events", len(newEvents)))

	f := filter.New()
	f.UpcomingOnly = flagUpcoming
	f.WithinDays = flagWithinDays
	f.WeekendsOnly = flagWeekendsOnly
	if !f.IsEmpty() {
		log.Info("filtering events", zap.String("criteria", f.String()))
		newEvents = f.Apply(newEvents)
	}

	sortEvents(newEvents, sortOrder)

	if flagICSDir != "" {
		if err := exportICS(flagICSDir, newEvents, log); err != nil {
			return err
		}
	}

	notified := notify(cmd.Context(), channel, &cfg, store, newEvents, log)

	result := &OutputResult{
		CheckedAt:     time.Now().UTC(),
		SourceURL:     cfg.Scraper.URL,
		NewEvents:     newEvents,
		EventCount:    len(newEvents),
		NotifiedCount: notified,
	}
	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(newEvents) > 0 {
		os.Exit(ExitNewEvents)
	}
	os.Exit(ExitSuccess)
	return nil
}

// applyFlagOverrides lays explicitly set flags over the loaded configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Scraper.URL = flagURL
	}
	if flags.Changed("search-terms") {
		cfg.Scraper.SearchTerms = config.ParseTerms(flagSearchTerms)
	}
	if flags.Changed("primary-term") {
		cfg.Scraper.PrimaryTerm = flagPrimaryTerm
	}
	if flags.Changed("variants-file") {
		cfg.Scraper.VariantsFile = flagVariantsFile
	}
	if flags.Changed("max-pages") {
		cfg.Scraper.MaxPages = flagMaxPages
	}
	if flags.Changed("exact") {
		cfg.Scraper.ExactMatch = flagExact
	}
	if flags.Changed("data-file") {
		cfg.Store.Path = flagDataFile
	}
}

// buildNotifier selects the delivery channel. A nil notifier means
// notifications are disabled.
func buildNotifier(channel string, cfg *config.Config, log *zap.Logger) (notifier.Notifier, error) {
	if flagDryRun {
		return notifier.NewDryRunNotifier(), nil
	}
	switch channel {
	case "", "none":
		return nil, nil
	case "email":
		return notifier.NewEmailNotifier(notifier.EmailSettings{
			Sender:    cfg.Email.Sender,
			Receiver:  cfg.Email.Receiver,
			Host:      cfg.Email.SMTPServer,
			Port:      cfg.Email.SMTPPort,
			Password:  cfg.Email.Password,
			Organizer: cfg.Email.CityEmail,
			Contact:   notifier.Contact{Name: cfg.Email.Name, Phone: cfg.Email.Phone},
		}, log)
	case "telegram":
		return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
	case "webhook":
		return notifier.NewWebhookNotifier(cfg.Webhook.URL, log)
	}
	return nil, fmt.Errorf("unknown notification channel: %q", channel)
}

// notify fans the new events out to the configured channel, skipping events
// already notified in a previous run. Each confirmed delivery is marked and
// persisted immediately, so a crash mid-loop never repeats an alert.
func notify(ctx context.Context, channel string, cfg *config.Config, store *storage.Store, events []*event.Matched, log *zap.Logger) int {
	n, err := buildNotifier(channel, cfg, log)
	if err != nil {
		log.Error("building notifier", zap.Error(err))
		return 0
	}
	if n == nil || len(events) == 0 {
		return 0
	}

	count := 0
	for _, ev := range events {
		if store.Notified(ev.ID) {
			log.Info("event already notified, skipping", zap.String("event_id", ev.ID))
			continue
		}

		if err := n.Notify(ctx, ev); err != nil {
			log.Error("notification failed",
				zap.String("event_id", ev.ID),
				zap.String("title", ev.Title),
				zap.Error(err))
			continue
		}
		count++

		if flagDryRun {
			continue
		}
		store.MarkNotified(ev.ID, time.Now())
		if err := store.Save(); err != nil {
			log.Warn("persisting notified flag failed", zap.Error(err))
		}
	}

	log.Info("notifications done", zap.Int("sent", count), zap.Int("new_events", len(events)))
	return count
}

// exportICS writes one .ics file per event into dir.
func exportICS(dir string, events []*event.Matched, log *zap.Logger) error {
	if len(events) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating calendar directory: %w", err)
	}
	for _, ev := range events {
		path := filepath.Join(dir, ev.ID+".ics")
		if err := os.WriteFile(path, []byte(calendar.GenerateICS(ev)), 0o644); err != nil {
			return fmt.Errorf("writing calendar file %s: %w", path, err)
		}
		log.Info("wrote calendar file", zap.String("path", path))
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
