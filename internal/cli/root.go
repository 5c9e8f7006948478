// Package cli provides the command-line interface for newsflash.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

const defaultConfigDir = ".newsflash"

var configDir string

var rootCmd = &cobra.Command{
	Use:           "newsflash",
	Short:         "Turn feeds into breaking-news notifications",
	Long:          "newsflash reads RSS feeds, subreddits, Hacker News, and local post files, summarizes every item in one line, and prints the batch as breaking-news notifications.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsflash %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", defaultConfigDir, "config directory")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
