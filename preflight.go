package compose

import (
	"context"
	"math/big"

	"github.com/defolio/compose/internal/utils/safecast"
	"github.com/defolio/compose/sdk"
	"github.com/defolio/compose/types"
)

// CheckQuote verifies that a quote's guaranteed output covers the required
// amount. On a shortfall it returns a QuoteShortfallError carrying the
// largest slippage tolerance under which the quote would still cover the
// requirement, so the UI can propose one specific remedy.
func CheckQuote(quote sdk.Quote, required *big.Int) error {
	if quote.MinAmountOut != nil && quote.MinAmountOut.Cmp(required) >= 0 {
		return nil
	}

	offered := quote.MinAmountOut
	if offered == nil {
		offered = big.NewInt(0)
	}

	var suggested uint16
	if quote.AmountOut != nil && quote.AmountOut.Cmp(required) >= 0 {
		// Largest s (bps) with amountOut * (10000 - s) / 10000 >= required
		headroom := new(big.Int).Sub(quote.AmountOut, required)
		headroom.Mul(headroom, big.NewInt(bpsDenominator))
		headroom.Quo(headroom, quote.AmountOut)

		if headroom.IsInt64() {
			if bps, err := safecast.IntToUint16(int(headroom.Int64())); err == nil {
				suggested = bps
			}
		}
	}

	return NewQuoteShortfallError(new(big.Int).Set(required), offered, suggested)
}

// CheckBalance verifies the user holds at least the required supply balance
// on the protocol. The read goes through the external balance source; exact
// execution-time figures are read on-chain by the sequence itself.
func CheckBalance(
	ctx context.Context,
	source sdk.BalanceSource,
	protocol types.Protocol,
	token types.Token,
	pctx types.ProtocolContext,
	account string,
	required *big.Int,
) error {
	available, err := source.SupplyBalance(ctx, protocol, token, pctx, account)
	if err != nil {
		return err
	}

	if available.Cmp(required) < 0 {
		return NewInsufficientBalanceError(token, new(big.Int).Set(required), available)
	}

	return nil
}
