// batch-extract runs the extraction pipeline over every case document in storage.
//
// Usage:
//
//	batch-extract [--limit=N] [--concurrency=N]
//	batch-extract status
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootFlags struct {
	limit       int
	concurrency int
}

var rootCmd = &cobra.Command{
	Use:           "batch-extract",
	Short:         "Extract and classify case documents in bulk",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBatch,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many case documents have been analyzed",
	RunE:  runStatus,
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&rootFlags.limit, "limit", 0, "Process only the first N case documents (0 = all)")
	f.IntVar(&rootFlags.concurrency, "concurrency", 0, "Cases processed at once (0 = BATCH_CONCURRENCY)")

	rootCmd.AddCommand(statusCmd)
}
