// Package config holds the deployment registry consumed by the flow
// builders: the position router, protocol adapters with their markets and
// vaults, exchange adapters and flash-loan providers. The registry is loaded
// once from YAML and read-only afterwards.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/defolio/compose/types"
)

// MarketConfig describes one pair-isolated market of a protocol.
type MarketConfig struct {
	Address         string `yaml:"address" validate:"required"`
	CollateralToken string `yaml:"collateralToken" validate:"required"`
	DebtToken       string `yaml:"debtToken" validate:"required"`
}

// VaultConfig describes one collateral/debt vault pair of a vault protocol.
type VaultConfig struct {
	Address         string `yaml:"address" validate:"required"`
	CollateralToken string `yaml:"collateralToken" validate:"required"`
	DebtToken       string `yaml:"debtToken" validate:"required"`
}

// ProtocolConfig describes one supported lending protocol.
type ProtocolConfig struct {
	Name    string         `yaml:"name" validate:"required"`
	Family  string         `yaml:"family" validate:"required"`
	Adapter string         `yaml:"adapter" validate:"required"`
	Markets []MarketConfig `yaml:"markets,omitempty" validate:"omitempty,dive"`
	Vaults  []VaultConfig  `yaml:"vaults,omitempty" validate:"omitempty,dive"`
}

// ExchangeConfig describes one external exchange adapter.
type ExchangeConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Adapter string `yaml:"adapter" validate:"required"`
}

// ProviderConfig describes one flash-loan provider deployment. Fee rates are
// not configurable; they live with types.FlashLoanProvider so they cannot
// drift from the on-chain values.
type ProviderConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Settlement string `yaml:"settlement" validate:"required"`
}

// Config is the root of the registry file.
type Config struct {
	Router         string           `yaml:"router" validate:"required"`
	OrderFacility  string           `yaml:"orderFacility"`
	Protocols      []ProtocolConfig `yaml:"protocols" validate:"required,min=1,dive"`
	Exchanges      []ExchangeConfig `yaml:"exchanges,omitempty" validate:"omitempty,dive"`
	FlashProviders []ProviderConfig `yaml:"flashProviders" validate:"required,min=1,dive"`
}

// Load reads and validates a Config from the reader.
func Load(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile reads and validates a Config from a YAML file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

// Validate runs tag-based validation and the cross-field checks the tags
// cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	for _, p := range c.Protocols {
		family, ok := types.StringToProtocolFamily[p.Family]
		if !ok {
			return fmt.Errorf("protocol %q: unknown family %q", p.Name, p.Family)
		}
		if family == types.FamilyIsolated && len(p.Markets) == 0 {
			return fmt.Errorf("protocol %q: isolated protocols require at least one market", p.Name)
		}
		if family != types.FamilyIsolated && len(p.Markets) > 0 {
			return fmt.Errorf("protocol %q: markets are only valid for isolated protocols", p.Name)
		}
		if family != types.FamilyVault && len(p.Vaults) > 0 {
			return fmt.Errorf("protocol %q: vaults are only valid for vault protocols", p.Name)
		}
	}

	for _, fp := range c.FlashProviders {
		if _, ok := types.StringToFlashLoanProvider[fp.Name]; !ok {
			return fmt.Errorf("unknown flash loan provider %q", fp.Name)
		}
	}

	return nil
}
