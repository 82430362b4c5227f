package compose

import (
	"fmt"
	"math/big"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	abiutils "github.com/defolio/compose/internal/utils/abi"
	"github.com/defolio/compose/types"
)

// limitPriceDecimals is the fixed-point scale of encoded limit prices.
const limitPriceDecimals = 8

// TriggerDirection tells the external facility on which side of the limit
// price a fill becomes valid.
type TriggerDirection string

const (
	// DirectionAbove fills when the market price reaches or exceeds the limit.
	DirectionAbove TriggerDirection = "Above"
	// DirectionBelow fills when the market price reaches or falls below the limit.
	DirectionBelow TriggerDirection = "Below"
)

// OrderOrientation tells the facility which side of the order is fixed. The
// orientation must match the flow builder's slot semantics exactly, or the
// facility sizes its fill against the wrong side.
type OrderOrientation string

const (
	// OrientationBuyFixed buys a fixed amount, selling up to a maximum.
	// Close-position orders buy a fixed amount of debt token.
	OrientationBuyFixed OrderOrientation = "BuyFixed"
	// OrientationSellFixed sells a fixed amount, buying at least a minimum.
	// Collateral-swap orders sell a fixed amount of old collateral.
	OrientationSellFixed OrderOrientation = "SellFixed"
)

// TriggerParams are the encoded conditions an external conditional-execution
// facility uses to decide when and how to fill a deferred order. Derived
// from the sequence's flash-loan amount and the user's chosen limit price;
// immutable once an order is created.
type TriggerParams struct {
	Protocol       types.Protocol        `json:"protocol" validate:"required"`
	Context        types.ProtocolContext `json:"context"`
	SellToken      types.Token           `json:"sellToken" validate:"required"`
	BuyToken       types.Token           `json:"buyToken" validate:"required"`
	LimitPrice     *big.Int              `json:"limitPrice" validate:"required"`
	Direction      TriggerDirection      `json:"direction" validate:"required"`
	SellAmount     *big.Int              `json:"sellAmount" validate:"required"`
	BuyAmount      *big.Int              `json:"buyAmount" validate:"required"`
	ChunkCount     uint8                 `json:"chunkCount" validate:"required"`
	MaxSlippageBps uint16                `json:"maxSlippageBps"`
	Orientation    OrderOrientation      `json:"orientation" validate:"required"`
}

// EncodeLimitPrice converts a (sellAmount, buyAmount) pair into the
// fixed-point limit price buy/sell scaled to 8 decimals. The two tokens'
// decimal bases are applied separately; sell and buy decimals are routinely
// different.
func EncodeLimitPrice(sellAmount *big.Int, sellDecimals uint8, buyAmount *big.Int, buyDecimals uint8) (*big.Int, error) {
	if sellAmount == nil || sellAmount.Sign() <= 0 {
		return nil, fmt.Errorf("sell amount must be positive, got %s", sellAmount)
	}
	if buyAmount == nil || buyAmount.Sign() < 0 {
		return nil, fmt.Errorf("buy amount must not be negative, got %s", buyAmount)
	}

	sell := decimal.NewFromBigInt(sellAmount, -int32(sellDecimals))
	buy := decimal.NewFromBigInt(buyAmount, -int32(buyDecimals))

	price := buy.DivRound(sell, limitPriceDecimals+8).Shift(limitPriceDecimals).Floor()

	return price.BigInt(), nil
}

// DecodeLimitPrice converts a fixed-point limit price back to its decimal
// value.
func DecodeLimitPrice(price *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(price, -limitPriceDecimals)
}

const triggerABI = `[
	{"name":"protocol","type":"string"},
	{"name":"market","type":"address"},
	{"name":"vault","type":"address"},
	{"name":"subAccount","type":"uint8"},
	{"name":"sellToken","type":"address"},
	{"name":"sellDecimals","type":"uint8"},
	{"name":"buyToken","type":"address"},
	{"name":"buyDecimals","type":"uint8"},
	{"name":"limitPrice","type":"uint256"},
	{"name":"directionAbove","type":"bool"},
	{"name":"sellAmount","type":"uint256"},
	{"name":"buyAmount","type":"uint256"},
	{"name":"chunkCount","type":"uint8"},
	{"name":"maxSlippageBps","type":"uint16"},
	{"name":"buyFixed","type":"bool"}
]`

// Encode packs the trigger params into the opaque bytes consumed by the
// conditional-execution facility.
func (p TriggerParams) Encode() ([]byte, error) {
	if p.LimitPrice == nil || p.LimitPrice.Sign() <= 0 {
		return nil, fmt.Errorf("limit price must be positive, got %s", p.LimitPrice)
	}
	if p.ChunkCount == 0 {
		return nil, fmt.Errorf("chunk count must be positive")
	}

	return abiutils.Encode(
		triggerABI,
		p.Protocol.Name,
		common.HexToAddress(p.Context.Market),
		common.HexToAddress(p.Context.Vault),
		p.Context.SubAccount,
		common.HexToAddress(p.SellToken.Address),
		p.SellToken.Decimals,
		common.HexToAddress(p.BuyToken.Address),
		p.BuyToken.Decimals,
		p.LimitPrice,
		p.Direction == DirectionAbove,
		p.SellAmount,
		p.BuyAmount,
		p.ChunkCount,
		p.MaxSlippageBps,
		p.Orientation == OrientationBuyFixed,
	)
}

var (
	erc20ABI    = `[{"name":"approve","type":"function","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}]}]`
	facilityABI = `[{"name":"registerOrder","type":"function","inputs":[{"name":"trigger","type":"bytes"}]}]`
)

// SetupCalls returns the ordered calls that register the deferred order: an
// approval granting the facility the sell amount, then the order
// registration carrying the trigger bytes. The calls are handed to the
// sequential execution driver.
func (p TriggerParams) SetupCalls(facility string) ([]types.Call, error) {
	trigger, err := p.Encode()
	if err != nil {
		return nil, err
	}

	erc20, err := gethabi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	approveData, err := erc20.Pack("approve", common.HexToAddress(facility), p.SellAmount)
	if err != nil {
		return nil, err
	}

	fac, err := gethabi.JSON(strings.NewReader(facilityABI))
	if err != nil {
		return nil, err
	}
	registerData, err := fac.Pack("registerOrder", trigger)
	if err != nil {
		return nil, err
	}

	return []types.Call{
		{To: p.SellToken.Address, Data: approveData},
		{To: facility, Data: registerData},
	}, nil
}

// NewCloseTriggerParams derives the trigger params for a deferred close:
// the user buys a fixed amount of debt token, selling up to a maximum of
// collateral, filled once the price reaches the limit.
func NewCloseTriggerParams(
	protocol types.Protocol,
	pctx types.ProtocolContext,
	collateral, debt types.Token,
	seq Sequence,
	plan FlashLoanPlan,
	buyAmount *big.Int,
	limitPrice *big.Int,
	chunkCount uint8,
	maxSlippageBps uint16,
) (TriggerParams, error) {
	if seq.Empty() || !seq.Deferred() {
		return TriggerParams{}, ErrSequenceNotReady
	}

	return TriggerParams{
		Protocol:       protocol,
		Context:        pctx,
		SellToken:      collateral,
		BuyToken:       debt,
		LimitPrice:     limitPrice,
		Direction:      DirectionAbove,
		SellAmount:     plan.RepaymentAmount,
		BuyAmount:      buyAmount,
		ChunkCount:     chunkCount,
		MaxSlippageBps: maxSlippageBps,
		Orientation:    OrientationBuyFixed,
	}, nil
}

// NewCollateralSwapTriggerParams derives the trigger params for a deferred
// collateral swap: the user sells a fixed amount of old collateral, buying
// at least a minimum of new collateral.
func NewCollateralSwapTriggerParams(
	protocol types.Protocol,
	pctx types.ProtocolContext,
	oldCollateral, newCollateral types.Token,
	seq Sequence,
	plan FlashLoanPlan,
	sellAmount *big.Int,
	limitPrice *big.Int,
	chunkCount uint8,
	maxSlippageBps uint16,
) (TriggerParams, error) {
	if seq.Empty() || !seq.Deferred() {
		return TriggerParams{}, ErrSequenceNotReady
	}

	return TriggerParams{
		Protocol:       protocol,
		Context:        pctx,
		SellToken:      oldCollateral,
		BuyToken:       newCollateral,
		LimitPrice:     limitPrice,
		Direction:      DirectionAbove,
		SellAmount:     sellAmount,
		BuyAmount:      plan.RepaymentAmount,
		ChunkCount:     chunkCount,
		MaxSlippageBps: maxSlippageBps,
		Orientation:    OrientationSellFixed,
	}, nil
}
