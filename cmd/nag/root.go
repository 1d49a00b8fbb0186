package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nag",
		Short:         "nag runs go vet with custom checks from your own linter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newVetCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
