package compose

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/defolio/compose/config"
	"github.com/defolio/compose/types"
)

var (
	addrRouter     = "0x1111111111111111111111111111111111111111"
	addrFacility   = "0x2222222222222222222222222222222222222222"
	addrPooled     = "0x3333333333333333333333333333333333333333"
	addrIsolated   = "0x4444444444444444444444444444444444444444"
	addrVaultProto = "0x5555555555555555555555555555555555555555"
	addrExchange   = "0x6666666666666666666666666666666666666666"
	addrSettlement = "0x7777777777777777777777777777777777777777"
	addrUser       = "0x8888888888888888888888888888888888888888"

	addrMarketWstethUsdc = "0x9999999999999999999999999999999999999999"
	addrMarketWethUsdc   = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrVaultWstethUsdc  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	addrVaultWethUsdc    = "0xcccccccccccccccccccccccccccccccccccccccc"

	tokenWSTETH = types.Token{
		Address:  "0x7f39C581F595B53c5cb19bD0b3f8dA6c935E2Ca0",
		Symbol:   "wstETH",
		Decimals: 18,
	}
	tokenWETH = types.Token{
		Address:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		Symbol:   "WETH",
		Decimals: 18,
	}
	tokenUSDC = types.Token{
		Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		Symbol:   "USDC",
		Decimals: 6,
	}

	protoPooled   = types.Protocol{Name: "poollend", Family: types.FamilyPooled}
	protoIsolated = types.Protocol{Name: "pairlend", Family: types.FamilyIsolated}
	protoVault    = types.Protocol{Name: "vaultlend", Family: types.FamilyVault}
)

func testConfig() *config.Config {
	return &config.Config{
		Router:        addrRouter,
		OrderFacility: addrFacility,
		Protocols: []config.ProtocolConfig{
			{Name: "poollend", Family: "Pooled", Adapter: addrPooled},
			{
				Name: "pairlend", Family: "Isolated", Adapter: addrIsolated,
				Markets: []config.MarketConfig{
					{Address: addrMarketWstethUsdc, CollateralToken: tokenWSTETH.Address, DebtToken: tokenUSDC.Address},
					{Address: addrMarketWethUsdc, CollateralToken: tokenWETH.Address, DebtToken: tokenUSDC.Address},
				},
			},
			{
				Name: "vaultlend", Family: "Vault", Adapter: addrVaultProto,
				Vaults: []config.VaultConfig{
					{Address: addrVaultWstethUsdc, CollateralToken: tokenWSTETH.Address, DebtToken: tokenUSDC.Address},
					{Address: addrVaultWethUsdc, CollateralToken: tokenWETH.Address, DebtToken: tokenUSDC.Address},
				},
			},
		},
		Exchanges: []config.ExchangeConfig{
			{Name: "dexagg", Adapter: addrExchange},
		},
		FlashProviders: []config.ProviderConfig{
			{Name: "Balancer", Settlement: addrSettlement},
			{Name: "Aave", Settlement: addrSettlement},
		},
	}
}

func testRegistry(t *testing.T) *config.Registry {
	t.Helper()

	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	return config.NewRegistry(cfg)
}

func testPlan(t *testing.T, provider types.FlashLoanProvider, token types.Token, amount int64) FlashLoanPlan {
	t.Helper()

	plan, err := NewFlashLoanPlan(provider, token, big.NewInt(amount))
	require.NoError(t, err)

	return plan
}

func opcodes(seq Sequence) []types.Opcode {
	ops := make([]types.Opcode, 0, len(seq.Operations))
	for _, op := range seq.Operations {
		ops = append(ops, op.Opcode)
	}

	return ops
}
