package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/store"
	"github.com/spf13/cobra"
)

var (
	billsSession string
	billsChamber string
)

// billsCmd represents the bills command
var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Print stored bills of a session as JSON",
	Long: `Bills reads back the bills a previous scrape stored for a session and
prints them as a JSON array, ordered by bill number.

Example:
  billhist bills --session 2009
  billhist bills --session "December 2009 Special Session" --chamber upper`,
	Args: cobra.NoArgs,
	RunE: runBills,
}

func init() {
	rootCmd.AddCommand(billsCmd)

	billsCmd.Flags().StringVar(&billsSession, "session", "", "session name recorded on the bills")
	billsCmd.Flags().StringVar(&billsChamber, "chamber", "both", "chamber to print (upper, lower, both)")
	_ = billsCmd.MarkFlagRequired("session")
}

func runBills(cmd *cobra.Command, args []string) (err error) {
	var chamber model.Chamber
	if billsChamber != "both" && billsChamber != "" {
		chambers, err := chambersFor(billsChamber)
		if err != nil {
			return err
		}
		chamber = chambers[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
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

	bills, err := st.LoadBills(context.Background(), billsSession, chamber)
	if err != nil {
		return err
	}
	if bills == nil {
		bills = make([]*model.Bill, 0)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(bills)
}
