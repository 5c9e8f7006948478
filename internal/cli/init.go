package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newsflash/internal/config"
)

const examplePostsFile = "posts.yaml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config directory with example files",
	RunE:  initAction,
}

func initAction(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	created := 0
	files := []struct {
		name string
		body string
	}{
		{config.DefaultConfigFile, exampleConfig},
		{examplePostsFile, examplePosts},
	}
	for _, f := range files {
		wrote, err := writeIfNotExists(out, filepath.Join(configDir, f.name), []byte(f.body))
		if err != nil {
			return err
		}
		if wrote {
			created++
		}
	}

	if created == 0 {
		fmt.Fprintf(out, "Config directory %s already initialized.\n", configDir)
	} else {
		fmt.Fprintf(out, "Initialized %s with %d files.\n", configDir, created)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(out io.Writer, path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# newsflash configuration

sources:
  rss:
    feeds: []
    # - "https://example.com/feed.xml"
  reddit:
    subreddits: []
    # - "golang"
  hn:
    min_points: 0   # set to e.g. 200 to include top Hacker News stories
  posts:
    file: posts.yaml

storage:
  path: .newsflash/newsflash.db
  retain_days: 30

notify:
  workers: 0      # >1 summarizes the batch on that many goroutines
  since: 24h

output:
  format: terminal  # terminal, json, markdown
  # color: false

privacy:
  redact:
    enabled: false
    links: false
    patterns: []

log:
  level: info
`

const examplePosts = `# short posts, rendered as "<username>: <text>"

posts:
  - username: horse_ebooks
    text: of course, as you probably already know, people
    reply: false
    retweet: false
`
