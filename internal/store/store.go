package store

import (
	"errors"

	"github.com/ibct-dev/project-getbit-contract/internal/models"
)

// ErrNotFound is returned by table lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// Store is the keyed, scoped table abstraction the host supplies. Every
// engine operation runs inside exactly one Atomic unit: either all of its
// writes commit or none do. Execution is transactionally serialized by the
// host, so implementations only need enough locking to be safe against a
// misbehaving embedder, not to order concurrent operations.
type Store interface {
	// Atomic runs fn against a writable transaction. If fn returns an
	// error, every write made through the transaction is discarded and
	// the error is returned unchanged.
	Atomic(fn func(Tx) error) error

	// View runs fn against a read-only snapshot.
	View(fn func(Tx) error) error
}

// Tx exposes the three tables of the contract scope.
type Tx interface {
	Stats() StatTable
	Balances() BalanceTable
	Auctions() AuctionTable
}

// StatTable is keyed by symbol code, with a secondary lookup by issuer.
type StatTable interface {
	Get(symbolCode string) (*models.Stat, error)
	Put(s *models.Stat) error
	ByIssuer(issuer string) ([]models.Stat, error)
}

// BalanceTable is keyed by (owner, symbol code), with a secondary lookup
// by owner.
type BalanceTable interface {
	Get(owner, symbolCode string) (*models.Balance, error)
	Put(b *models.Balance) error
	ByOwner(owner string) ([]models.Balance, error)

	// Sum totals all balances held in the given symbol. With the supply
	// invariant intact this equals the symbol's circulating supply.
	Sum(symbolCode string) (int64, error)
}

// AuctionTable is keyed by auction id, with a secondary lookup by status.
type AuctionTable interface {
	Get(id uint64) (*models.Auction, error)
	Put(a *models.Auction) error
	ByStatus(status models.AuctionStatus) ([]models.Auction, error)

	// DeleteAll empties the table. Backing for the administrative purge.
	DeleteAll() error
}
