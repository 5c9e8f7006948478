package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newsflash/internal/config"
	"github.com/ppiankov/newsflash/internal/store"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete batches older than storage.retain_days",
	RunE:  pruneAction,
}

func pruneAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	n, err := db.PruneOld(cmd.Context(), cfg.Storage.RetainDays)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d batches older than %d days.\n", n, cfg.Storage.RetainDays)
	return nil
}
