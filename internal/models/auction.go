package models

import "github.com/ibct-dev/project-getbit-contract/internal/asset"

// AuctionKind selects the lot model of an auction.
type AuctionKind int

const (
	// FixedLot caps the total escrowed biddings at BiddingsLimit.
	FixedLot AuctionKind = iota
	// UnlimitedLot accepts biddings without a cap.
	UnlimitedLot
)

// KnownKind reports whether k is one of the defined auction kinds.
func KnownKind(k AuctionKind) bool {
	return k == FixedLot || k == UnlimitedLot
}

func (k AuctionKind) String() string {
	switch k {
	case FixedLot:
		return "FIXED_LOT"
	case UnlimitedLot:
		return "UNLIMITED_LOT"
	}
	return "UNKNOWN"
}

// AuctionStatus is the lifecycle phase of an auction. Transitions walk
// strictly forward: Bidding -> WinnerCalculation -> WinnerSelected.
type AuctionStatus int

const (
	Bidding AuctionStatus = iota
	WinnerCalculation
	WinnerSelected
)

func (s AuctionStatus) String() string {
	switch s {
	case Bidding:
		return "BIDDING"
	case WinnerCalculation:
		return "WINNER_CALCULATION"
	case WinnerSelected:
		return "WINNER_SELECTED"
	}
	return "UNKNOWN"
}

// Auction is one sealed-bid auction round. Biddings accumulates the
// escrowed bid quantities; when BiddingsLimit is positive it bounds
// Biddings. Winner fields stay at their start values until SelectWinner.
type Auction struct {
	ID            uint64        `gorm:"primaryKey;autoIncrement:false"`
	SymbolCode    string        `gorm:"not null"`
	Precision     uint8         `gorm:"not null"`
	Kind          AuctionKind   `gorm:"not null"`
	Status        AuctionStatus `gorm:"index;not null"`
	Biddings      int64         `gorm:"not null"`
	BiddingsLimit int64         `gorm:"not null"`
	Prize         string
	PublicKey     string
	PrivateKey    string
	Winner        string
	WinnerNumber  string
	WinnerTxHash  string
}

// Symbol reconstructs the auction's bidding symbol.
func (a *Auction) Symbol() asset.Symbol {
	return asset.NewSymbol(a.SymbolCode, a.Precision)
}

// BiddingsQuantity returns the escrowed total as a Quantity.
func (a *Auction) BiddingsQuantity() asset.Quantity {
	return asset.NewQuantity(a.Biddings, a.Symbol())
}

// BiddingsLimitQuantity returns the bidding cap as a Quantity.
func (a *Auction) BiddingsLimitQuantity() asset.Quantity {
	return asset.NewQuantity(a.BiddingsLimit, a.Symbol())
}
