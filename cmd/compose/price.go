package compose

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/defolio/compose"
)

func buildPriceCmd() *cobra.Command {
	var (
		sellAmount   string
		sellDecimals uint8
		buyAmount    string
		buyDecimals  uint8
	)

	cmd := cobra.Command{
		Use:   "price",
		Short: "Encodes a sell/buy amount pair as a fixed-point limit price",
		RunE: func(cmd *cobra.Command, args []string) error {
			sell, ok := new(big.Int).SetString(sellAmount, 10)
			if !ok {
				return fmt.Errorf("invalid sell amount %q", sellAmount)
			}
			buy, ok := new(big.Int).SetString(buyAmount, 10)
			if !ok {
				return fmt.Errorf("invalid buy amount %q", buyAmount)
			}

			price, err := compose.EncodeLimitPrice(sell, sellDecimals, buy, buyDecimals)
			if err != nil {
				return err
			}

			fmt.Printf("encoded: %s\n", price)
			fmt.Printf("decimal: %s\n", compose.DecodeLimitPrice(price))

			return nil
		},
	}

	cmd.Flags().StringVar(&sellAmount, "sell-amount", "", "Sell amount in base units")
	cmd.Flags().Uint8Var(&sellDecimals, "sell-decimals", 18, "Sell token decimals")
	cmd.Flags().StringVar(&buyAmount, "buy-amount", "", "Buy amount in base units")
	cmd.Flags().Uint8Var(&buyDecimals, "buy-decimals", 18, "Buy token decimals")

	return &cmd
}
