// atlas groups classified case records along a chain of fields from the command line.
//
// Usage:
//
//	atlas fields
//	atlas available --axis=<field> [--position=N]
//	atlas group --axis=<field> [--axis=<field> ...] [--records=<file.json>] [--json]
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

var rootCmd = &cobra.Command{
	Use:           "atlas",
	Short:         "Browse classified cases grouped by their attributes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(fieldsCmd, availableCmd, groupCmd)
}
