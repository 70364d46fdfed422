// Command actionsctl is the operator tool for the network actions API: it signs
// development tokens, checks reference catalogs and renders report exports
// offline from YAML seed data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "actionsctl",
		Short:         "Operator tooling for the network actions API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	root.AddCommand(newTokenCmd(), newExportCmd(), newReferenceCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
