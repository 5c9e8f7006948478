package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newsflash/internal/config"
	"github.com/ppiankov/newsflash/internal/content"
	"github.com/ppiankov/newsflash/internal/digest"
	"github.com/ppiankov/newsflash/internal/notify"
	"github.com/ppiankov/newsflash/internal/privacy"
	"github.com/ppiankov/newsflash/internal/source"
	"github.com/ppiankov/newsflash/internal/store"
)

var (
	notifySince   string
	notifyFormat  string
	notifyWorkers int
	notifyNoSave  bool
	noColor       bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Fetch all sources and print breaking-news notifications",
	RunE:  notifyAction,
}

func init() {
	notifyCmd.Flags().StringVar(&notifySince, "since", "", "time window (e.g. 48h)")
	notifyCmd.Flags().StringVar(&notifyFormat, "format", "", "output format: terminal, json, markdown")
	notifyCmd.Flags().IntVar(&notifyWorkers, "workers", -1, "summarize on this many goroutines (default from config)")
	notifyCmd.Flags().BoolVar(&notifyNoSave, "no-save", false, "do not record the batch in history")
	notifyCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
}

func notifyAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	sinceDur := cfg.Notify.Since.Duration
	if notifySince != "" {
		sinceDur, err = time.ParseDuration(notifySince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
	}

	workers := cfg.Notify.Workers
	if notifyWorkers >= 0 {
		workers = notifyWorkers
	}

	format := cfg.Output.Format
	if notifyFormat != "" {
		format = notifyFormat
	}
	formatter, err := digest.New(format, useColor(cfg, cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	var redactor *privacy.Redactor
	if cfg.Privacy.Redact.Enabled {
		redactor, err = privacy.New(cfg.Privacy.Redact.Patterns, cfg.Privacy.Redact.Links)
		if err != nil {
			return fmt.Errorf("compile redact patterns: %w", err)
		}
	}

	sources, err := buildSources(cfg, log)
	if err != nil {
		return err
	}

	items := fetchAll(cmd, sources, time.Now().Add(-sinceDur), log)

	messages, err := notify.ProcessParallel(ctx, source.Batch(items), workers)
	if err != nil {
		return fmt.Errorf("process batch: %w", err)
	}
	messages = redactor.ApplyAll(messages)

	entries := make([]digest.Entry, len(items))
	for i, it := range items {
		entries[i] = digest.Entry{
			Source:   it.Source,
			Kind:     content.Kind(it.Content),
			Message:  messages[i],
			URL:      it.URL,
			PostedAt: it.PostedAt,
		}
	}

	if !notifyNoSave {
		if err := saveBatch(cmd, cfg, entries, log); err != nil {
			return err
		}
	}

	return formatter.Format(cmd.OutOrStdout(), digest.Input{
		Entries: entries,
		Sources: len(sources),
		Since:   sinceDur,
	})
}

// buildSources returns the configured sources in a fixed order: rss, reddit,
// hn, posts. The batch keeps that order.
func buildSources(cfg *config.Config, log *slog.Logger) ([]source.Source, error) {
	var sources []source.Source

	if len(cfg.Sources.RSS.Feeds) > 0 {
		rs, err := source.NewRSS(cfg.Sources.RSS.Feeds, log)
		if err != nil {
			return nil, fmt.Errorf("create rss source: %w", err)
		}
		sources = append(sources, rs)
	}

	if len(cfg.Sources.Reddit.Subreddits) > 0 {
		rd, err := source.NewReddit(cfg.Sources.Reddit.Subreddits, log)
		if err != nil {
			return nil, fmt.Errorf("create reddit source: %w", err)
		}
		sources = append(sources, rd)
	}

	if cfg.Sources.HN.MinPoints > 0 {
		hn, err := source.NewHN(cfg.Sources.HN.MinPoints, log)
		if err != nil {
			return nil, fmt.Errorf("create hn source: %w", err)
		}
		sources = append(sources, hn)
	}

	if cfg.Sources.Posts.File != "" {
		ps, err := source.NewPostsFile(cfg.Sources.Posts.File)
		if err != nil {
			return nil, fmt.Errorf("create posts source: %w", err)
		}
		sources = append(sources, ps)
	}

	return sources, nil
}

// fetchAll concatenates every source's items. A failing source is logged
// and skipped.
func fetchAll(cmd *cobra.Command, sources []source.Source, since time.Time, log *slog.Logger) []source.Item {
	ctx := cmd.Context()

	var items []source.Item
	for _, src := range sources {
		start := time.Now()
		got, err := src.Fetch(ctx, since)
		if err != nil {
			log.WarnContext(ctx, "source failed", "source", src.Name(), "error", err)
			continue
		}
		log.DebugContext(ctx, "source fetched", "source", src.Name(), "items", len(got), "took", time.Since(start))
		items = append(items, got...)
	}
	return items
}

func saveBatch(cmd *cobra.Command, cfg *config.Config, entries []digest.Entry, log *slog.Logger) error {
	ctx := cmd.Context()

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	in := make([]store.NotificationInput, 0, len(entries))
	for _, e := range entries {
		in = append(in, store.NotificationInput{
			Source:  e.Source,
			Kind:    e.Kind,
			Message: e.Message,
			URL:     e.URL,
		})
	}

	id, err := db.SaveBatch(ctx, in)
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	log.InfoContext(ctx, "batch saved", "batch", id, "notifications", len(in))
	return nil
}

func useColor(cfg *config.Config, w io.Writer) bool {
	if noColor {
		return false
	}
	if cfg.Output.Color != nil {
		return *cfg.Output.Color
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return digest.ColorEnabled(f)
}
