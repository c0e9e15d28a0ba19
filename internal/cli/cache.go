package cli

import (
	"fmt"

	"github.com/ppiankov/billhist/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the fetched-page cache",
	Long: `Manage the cache of fetched history pages under cache.dir.

Use 'billhist scrape --no-cache' to bypass the cache for a single run.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [url...]",
	Short: "Remove cached pages",
	Long: `Remove the cached copies of the given page URLs, or every cached page
when no URL is given.

Example:
  billhist cache clear
  billhist cache clear http://www.legis.state.wi.us/2009/data/AB1hst.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pages, err := cache.Open(cfg.Cache)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			if err := pages.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(out, "✓ Cleared page cache\n")
			return nil
		}

		for _, pageURL := range args {
			if err := pages.Delete(cache.Key(pageURL)); err != nil {
				return fmt.Errorf("remove %s: %w", pageURL, err)
			}
			fmt.Fprintf(out, "✓ Removed %s\n", pageURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
