package config

import (
	"strings"

	"github.com/defolio/compose/types"
)

// Registry resolves adapters, markets, vaults and settlement addresses for
// the flow builders. A failed lookup is the "unresolvable context" case: the
// builder returns an empty sequence and the caller must block submission.
type Registry struct {
	router        string
	orderFacility string
	protocols     map[string]ProtocolConfig
	exchanges     map[string]string
	settlements   map[types.FlashLoanProvider]string
}

// NewRegistry builds a Registry from a validated Config.
func NewRegistry(cfg *Config) *Registry {
	r := &Registry{
		router:        cfg.Router,
		orderFacility: cfg.OrderFacility,
		protocols:     make(map[string]ProtocolConfig, len(cfg.Protocols)),
		exchanges:     make(map[string]string, len(cfg.Exchanges)),
		settlements:   make(map[types.FlashLoanProvider]string, len(cfg.FlashProviders)),
	}

	for _, p := range cfg.Protocols {
		r.protocols[p.Name] = p
	}
	for _, e := range cfg.Exchanges {
		r.exchanges[e.Name] = e.Adapter
	}
	for _, fp := range cfg.FlashProviders {
		r.settlements[types.FlashLoanProvider(fp.Name)] = fp.Settlement
	}

	return r
}

// Router returns the position router address.
func (r *Registry) Router() string {
	return r.router
}

// OrderFacility returns the conditional-execution facility address used for
// deferred orders.
func (r *Registry) OrderFacility() string {
	return r.orderFacility
}

// AdapterFor returns the adapter address for a protocol.
func (r *Registry) AdapterFor(p types.Protocol) (string, bool) {
	cfg, ok := r.protocols[p.Name]
	if !ok {
		return "", false
	}

	return cfg.Adapter, true
}

// ExchangeFor returns the adapter address for a named exchange.
func (r *Registry) ExchangeFor(name string) (string, bool) {
	adapter, ok := r.exchanges[name]
	return adapter, ok
}

// SettlementFor returns the settlement module address for a flash-loan
// provider.
func (r *Registry) SettlementFor(p types.FlashLoanProvider) (string, bool) {
	addr, ok := r.settlements[p]
	return addr, ok
}

// MarketFor resolves the pair-isolated market for a collateral/debt pair.
func (r *Registry) MarketFor(p types.Protocol, collateral, debt types.Token) (types.ProtocolContext, bool) {
	cfg, ok := r.protocols[p.Name]
	if !ok {
		return types.ProtocolContext{}, false
	}

	for _, m := range cfg.Markets {
		if equalAddress(m.CollateralToken, collateral.Address) && equalAddress(m.DebtToken, debt.Address) {
			return types.ProtocolContext{Market: m.Address}, true
		}
	}

	return types.ProtocolContext{}, false
}

// VaultFor resolves the vault pair for a collateral/debt pair. The returned
// context carries sub-account 0; callers targeting an existing position
// supply their own context instead.
func (r *Registry) VaultFor(p types.Protocol, collateral, debt types.Token) (types.ProtocolContext, bool) {
	cfg, ok := r.protocols[p.Name]
	if !ok {
		return types.ProtocolContext{}, false
	}

	for _, v := range cfg.Vaults {
		if equalAddress(v.CollateralToken, collateral.Address) && equalAddress(v.DebtToken, debt.Address) {
			return types.ProtocolContext{Vault: v.Address}, true
		}
	}

	return types.ProtocolContext{}, false
}

func equalAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
