package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authcore",
		Short: "Identity, session and calendar delegation service",
		Long: `authcore serves registration, login and session verification for patients
and clinicians, and holds the delegated Google Calendar credential used to
schedule consultations.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newHashPasswordCmd())
	return root
}
