package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ppiankov/newsflash/internal/config"
	"github.com/ppiankov/newsflash/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently emitted notification batches",
	RunE:  historyAction,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 3, "number of batches to show")
}

func historyAction(cmd *cobra.Command, _ []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	notes, err := db.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, "No batches recorded.")
		return nil
	}

	current := ""
	for _, n := range notes {
		if n.BatchID != current {
			if current != "" {
				fmt.Fprintln(out)
			}
			current = n.BatchID
			fmt.Fprintf(out, "batch %s (%s)\n", n.BatchID, humanize.Time(n.CreatedAt))
		}
		fmt.Fprintf(out, "  %d. [%s] %s\n", n.Position+1, n.Kind, n.Message)
	}
	return nil
}
