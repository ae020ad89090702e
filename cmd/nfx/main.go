// nfx is a command line companion for the invoice extract service:
// it runs the extraction pipeline and the insight engine over local
// files without a running server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nfx",
	Short: "Extract structured data from Brazilian invoice text",
	Long: `nfx runs the NF-e/NFS-e heuristic extraction pipeline and the
insight engine from the command line. Input is plain text as produced
by OCR or PDF text extraction.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
