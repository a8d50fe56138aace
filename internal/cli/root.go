// Package cli implements the screenctl operator commands.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root screenctl command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenctl",
		Short: "Operator tools for the perinatal mental-health screening service",
		Long: `screenctl inspects the questionnaire, classifies answer files offline,
looks up care routing and prints population analytics from a configured store.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewQuestionsCommand())
	cmd.AddCommand(NewClassifyCommand())
	cmd.AddCommand(NewRouteCommand())
	cmd.AddCommand(NewBaselineCommand())
	cmd.AddCommand(NewAnalyticsCommand())

	return cmd
}
