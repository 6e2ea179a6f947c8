package models

import "github.com/ibct-dev/project-getbit-contract/internal/asset"

// Stat is the per-symbol issuance record. One row exists per registered
// symbol; supply only ever grows and never exceeds MaxSupply.
type Stat struct {
	SymbolCode string `gorm:"primaryKey"`
	Precision  uint8  `gorm:"not null"`
	Issuer     string `gorm:"index;not null"`
	Supply     int64  `gorm:"not null"`
	MaxSupply  int64  `gorm:"not null"`
}

// Symbol reconstructs the registered symbol.
func (s *Stat) Symbol() asset.Symbol {
	return asset.NewSymbol(s.SymbolCode, s.Precision)
}

// SupplyQuantity returns the circulating supply as a Quantity.
func (s *Stat) SupplyQuantity() asset.Quantity {
	return asset.NewQuantity(s.Supply, s.Symbol())
}

// MaxSupplyQuantity returns the supply cap as a Quantity.
func (s *Stat) MaxSupplyQuantity() asset.Quantity {
	return asset.NewQuantity(s.MaxSupply, s.Symbol())
}

// Headroom is the amount still issuable before hitting the cap.
func (s *Stat) Headroom() int64 {
	return s.MaxSupply - s.Supply
}
