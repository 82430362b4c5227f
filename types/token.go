package types

// Token identifies an ERC-20 asset along with the decimal base used for all
// amount math involving it.
type Token struct {
	Address  string `json:"address" validate:"required"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Equal reports whether two tokens refer to the same asset. Comparison is by
// address only; symbol and decimals are display metadata.
func (t Token) Equal(other Token) bool {
	return t.Address == other.Address
}
