package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ppiankov/billhist/internal/logging"
	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/pipeline"
	"github.com/ppiankov/billhist/internal/store"
	"github.com/spf13/cobra"
)

var (
	scrapeChamber string
	scrapeYear    int
	scrapeTimeout time.Duration
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every bill of a session into the store",
	Long: `Scrape discovers the legislature's sessions, then probes bill numbers
1, 2, 3, ... of each sub-session of the session covering --year until a
number has no history page. Every parsed bill is written to the store as
soon as it is read.

Example:
  billhist scrape --year 2009
  billhist scrape --year 2010 --chamber upper --store-driver json --store-path ./bills`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeChamber, "chamber", "both", "chamber to scrape (upper, lower, both)")
	scrapeCmd.Flags().IntVar(&scrapeYear, "year", 0, "any year of the session to scrape")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 0, "overall scrape timeout (0 for none)")
	scrapeCmd.Flags().Bool("no-cache", false, "disable the page cache (force fresh fetch)")
	_ = scrapeCmd.MarkFlagRequired("year")
}

func chambersFor(flag string) ([]model.Chamber, error) {
	switch flag {
	case "both", "":
		return []model.Chamber{model.ChamberLower, model.ChamberUpper}, nil
	case "upper", "senate":
		return []model.Chamber{model.ChamberUpper}, nil
	case "lower", "assembly":
		return []model.Chamber{model.ChamberLower}, nil
	default:
		return nil, fmt.Errorf("unknown chamber %q (want upper, lower or both)", flag)
	}
}

func runScrape(cmd *cobra.Command, args []string) (err error) {
	chambers, err := chambersFor(scrapeChamber)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if scrapeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scrapeTimeout)
		defer cancel()
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	p, err := pipeline.NewPipeline(cfg, st, logger)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Discovering sessions...\n")
	}
	reg, err := p.DiscoverSessions(ctx)
	if err != nil {
		return fmt.Errorf("discover sessions: %w", err)
	}
	if _, ok := reg.Lookup(scrapeYear); !ok {
		return fmt.Errorf("no session covers %d (known: %v)", scrapeYear, reg.Years())
	}

	var errs []error
	for _, chamber := range chambers {
		summaries, scrapeErr := p.ScrapeBills(ctx, reg, chamber, scrapeYear)
		for _, s := range summaries {
			fmt.Fprintf(os.Stderr, "✓ %s %s: %d bills stored, %d skipped, stopped at %d\n",
				s.Target.Session, chamber, s.Stored, s.Skipped, s.StoppedAt)
		}
		if scrapeErr != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", chamber, scrapeErr)
			errs = append(errs, scrapeErr)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("scrape incomplete: %w", err)
	}
	return nil
}
