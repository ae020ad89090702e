package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfscan/invoice-extract-service/internal/analytics"
)

var insightsCmd = &cobra.Command{
	Use:   "insights <records.json>",
	Short: "Run the insight engine over a JSON array of invoice records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var records []analytics.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parsing records: %w", err)
		}

		monthly := analytics.BuildMonthlySeries(records)
		out := map[string]interface{}{
			"insights": analytics.Run(records, monthly),
			"monthly":  monthly,
			"clients":  analytics.BuildClientSeries(records),
			"summary":  analytics.BuildSummary(records),
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}
