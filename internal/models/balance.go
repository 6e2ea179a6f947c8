package models

import "github.com/ibct-dev/project-getbit-contract/internal/asset"

// Balance is the holding record for one (account, symbol) pair. A committed
// balance is never negative. Rows are created lazily, either by an explicit
// open or by the first credit, and are never deleted.
type Balance struct {
	Owner      string `gorm:"primaryKey"`
	SymbolCode string `gorm:"primaryKey"`
	Precision  uint8  `gorm:"not null"`
	Amount     int64  `gorm:"not null"`
}

// Quantity returns the held amount as a Quantity.
func (b *Balance) Quantity() asset.Quantity {
	return asset.NewQuantity(b.Amount, asset.NewSymbol(b.SymbolCode, b.Precision))
}
