package compose

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/defolio/compose"
	"github.com/defolio/compose/types"
)

func buildPlanCmd() *cobra.Command {
	var (
		provider string
		token    string
		symbol   string
		decimals uint8
		amount   string
	)

	cmd := cobra.Command{
		Use:   "plan",
		Short: "Computes the flash-loan plan for a borrow amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok := new(big.Int).SetString(amount, 10)
			if !ok {
				return fmt.Errorf("invalid amount %q", amount)
			}

			p, ok := types.StringToFlashLoanProvider[provider]
			if !ok {
				return fmt.Errorf("unknown flash loan provider %q", provider)
			}

			plan, err := compose.NewFlashLoanPlan(p, types.Token{Address: token, Symbol: symbol, Decimals: decimals}, value)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "Balancer", "Flash loan provider name")
	cmd.Flags().StringVar(&token, "token", "", "Borrowed token address")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Borrowed token symbol")
	cmd.Flags().Uint8Var(&decimals, "decimals", 18, "Borrowed token decimals")
	cmd.Flags().StringVar(&amount, "amount", "", "Borrow amount in base units")

	return &cmd
}
