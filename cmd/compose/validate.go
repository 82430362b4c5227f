package compose

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/defolio/compose/config"
)

func buildValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validates the deployment registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(*configPath)
			if err != nil {
				return err
			}

			fmt.Printf("registry ok: router %s\n", cfg.Router)
			fmt.Printf("  protocols: %d\n", len(cfg.Protocols))
			fmt.Printf("  exchanges: %d\n", len(cfg.Exchanges))
			fmt.Printf("  flash providers: %d\n", len(cfg.FlashProviders))

			return nil
		},
	}
}
