package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfscan/invoice-extract-service/internal/extractor"
	"github.com/nfscan/invoice-extract-service/internal/models"
)

var (
	extractWebhook string
	extractAI      bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract invoice fields from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		svc := extractor.NewService(nil)
		result := svc.Extract(cmd.Context(), string(data), models.ExtractOptions{
			EnableAI:     extractAI || extractWebhook != "",
			AIWebhookURL: extractWebhook,
		})

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractWebhook, "ai-webhook", "", "AI webhook URL for enrichment")
	extractCmd.Flags().BoolVar(&extractAI, "ai", false, "enable AI enrichment")
	rootCmd.AddCommand(extractCmd)
}
