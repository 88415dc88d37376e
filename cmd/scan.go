package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/site-relations-crawler/internal/crawler"
)

// newScanCmd creates the 'scan' subcommand, a one-shot crawl printing the
// page records as JSON.
func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <url>",
		Short: "Crawls one site and prints its page records",
		Args:  cobra.ExactArgs(1),
		RunE:  runScanCommand,
	}
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	records, err := appInstance.Scanner().Scan(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("scan %s: %w", args[0], err)
	}
	if records == nil {
		records = []crawler.PageRecord{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}
