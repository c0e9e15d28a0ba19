package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/billhist/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	parseSession string
	parseURL     string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file.html>",
	Short: "Parse a saved bill history page and print it as JSON",
	Long: `Parse reads a bill history page saved to disk and prints the bill it
describes as JSON. Nothing is fetched or stored.

Example:
  billhist parse AB1hst.html --session 2009
  billhist parse SB12hst.html --url http://www.legis.state.wi.us/2009/data/SB12hst.html`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseSession, "session", "", "session name recorded on the bill")
	parseCmd.Flags().StringVar(&parseURL, "url", "", "page URL, used to resolve document links")
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}

	bill, err := pipeline.ParseBillPage(data, parseURL, parseSession)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(bill)
}
