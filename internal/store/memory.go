package store

import (
	"sort"
	"sync"

	"github.com/ibct-dev/project-getbit-contract/internal/models"
)

// Memory is an in-process Store. Atomic stages every write on a copy of
// the tables and swaps the copy in only when fn succeeds, so a failed call
// leaves the committed state untouched.
type Memory struct {
	mu       sync.Mutex
	stats    map[string]models.Stat
	balances map[balanceKey]models.Balance
	auctions map[uint64]models.Auction
}

type balanceKey struct {
	owner      string
	symbolCode string
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		stats:    make(map[string]models.Stat),
		balances: make(map[balanceKey]models.Balance),
		auctions: make(map[uint64]models.Auction),
	}
}

func (m *Memory) Atomic(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		stats:    cloneMap(m.stats),
		balances: cloneMap(m.balances),
		auctions: cloneMap(m.auctions),
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.stats = tx.stats
	m.balances = tx.balances
	m.auctions = tx.auctions
	return nil
}

func (m *Memory) View(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		stats:    cloneMap(m.stats),
		balances: cloneMap(m.balances),
		auctions: cloneMap(m.auctions),
	}
	return fn(tx)
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memTx struct {
	stats    map[string]models.Stat
	balances map[balanceKey]models.Balance
	auctions map[uint64]models.Auction
}

func (t *memTx) Stats() StatTable       { return (*memStats)(t) }
func (t *memTx) Balances() BalanceTable { return (*memBalances)(t) }
func (t *memTx) Auctions() AuctionTable { return (*memAuctions)(t) }

type memStats memTx

func (t *memStats) Get(symbolCode string) (*models.Stat, error) {
	s, ok := t.stats[symbolCode]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (t *memStats) Put(s *models.Stat) error {
	t.stats[s.SymbolCode] = *s
	return nil
}

func (t *memStats) ByIssuer(issuer string) ([]models.Stat, error) {
	var out []models.Stat
	for _, s := range t.stats {
		if s.Issuer == issuer {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SymbolCode < out[j].SymbolCode })
	return out, nil
}

type memBalances memTx

func (t *memBalances) Get(owner, symbolCode string) (*models.Balance, error) {
	b, ok := t.balances[balanceKey{owner, symbolCode}]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (t *memBalances) Put(b *models.Balance) error {
	t.balances[balanceKey{b.Owner, b.SymbolCode}] = *b
	return nil
}

func (t *memBalances) ByOwner(owner string) ([]models.Balance, error) {
	var out []models.Balance
	for _, b := range t.balances {
		if b.Owner == owner {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SymbolCode < out[j].SymbolCode })
	return out, nil
}

func (t *memBalances) Sum(symbolCode string) (int64, error) {
	var total int64
	for _, b := range t.balances {
		if b.SymbolCode == symbolCode {
			total += b.Amount
		}
	}
	return total, nil
}

type memAuctions memTx

func (t *memAuctions) Get(id uint64) (*models.Auction, error) {
	a, ok := t.auctions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (t *memAuctions) Put(a *models.Auction) error {
	t.auctions[a.ID] = *a
	return nil
}

func (t *memAuctions) ByStatus(status models.AuctionStatus) ([]models.Auction, error) {
	var out []models.Auction
	for _, a := range t.auctions {
		if a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memAuctions) DeleteAll() error {
	t.auctions = make(map[uint64]models.Auction)
	return nil
}
