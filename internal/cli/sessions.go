package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/pipeline"
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the sessions and sub-sessions published by the legislature",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		p, err := pipeline.NewPipeline(cfg, nil, logger)
		if err != nil {
			return err
		}
		reg, err := p.DiscoverSessions(context.Background())
		if err != nil {
			return fmt.Errorf("discover sessions: %w", err)
		}

		printSessions(cmd, reg)
		return nil
	},
}

func printSessions(cmd *cobra.Command, reg *model.SessionRegistry) {
	out := cmd.OutOrStdout()
	for _, y := range reg.Years() {
		year, _ := strconv.Atoi(y)
		s, _ := reg.Lookup(year)
		fmt.Fprintf(out, "%d-%d\n", s.Years[0], s.Years[1])
		for _, sub := range s.SubSessions {
			fmt.Fprintf(out, "  %-40s %s\n", sub.Name, sub.Value)
		}
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
