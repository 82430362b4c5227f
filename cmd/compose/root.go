// Package compose is the command-line surface of the composition engine:
// registry validation and the offline planning helpers (flash-loan sizing and
// limit-price encoding) used when preparing a submission by hand.
package compose

import (
	"github.com/spf13/cobra"
)

func BuildComposeCmd() *cobra.Command {
	var configPath string

	cmd := cobra.Command{
		Use:   "compose",
		Short: "Inspect and plan lending-position sequences",
		Long:  ``,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "registry.yaml", "Path to the deployment registry file")

	cmd.AddCommand(buildValidateCmd(&configPath))
	cmd.AddCommand(buildPlanCmd())
	cmd.AddCommand(buildPriceCmd())

	return &cmd
}
