package ledger

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibct-dev/project-getbit-contract/internal/apperr"
	"github.com/ibct-dev/project-getbit-contract/internal/asset"
	"github.com/ibct-dev/project-getbit-contract/internal/auth"
	"github.com/ibct-dev/project-getbit-contract/internal/event"
	"github.com/ibct-dev/project-getbit-contract/internal/models"
	"github.com/ibct-dev/project-getbit-contract/internal/store"
)

// maxMemoLen bounds transfer and issue memos.
const maxMemoLen = 256

// Ledger owns the Stat and Balance tables. Each exported method is one
// atomic operation: it either fully applies or leaves the store untouched.
type Ledger struct {
	log      *zap.Logger
	store    store.Store
	accounts *auth.Registry
	emitter  event.Emitter
	owner    string
}

// New creates a Ledger. owner is the principal allowed to register symbols,
// open accounts, and move funds under the custodial transfer policy.
func New(log *zap.Logger, st store.Store, accounts *auth.Registry, emitter event.Emitter, owner string) *Ledger {
	return &Ledger{
		log:      log,
		store:    st,
		accounts: accounts,
		emitter:  emitter,
		owner:    owner,
	}
}

// Owner returns the ledger owner principal.
func (l *Ledger) Owner() string { return l.owner }

// RegisterSymbol creates the Stat record for a new symbol. A zero max
// supply means unlimited and is substituted with the maximum representable
// amount.
func (l *Ledger) RegisterSymbol(caller auth.Caller, issuer string, maxSupply asset.Quantity) error {
	if err := auth.RequireAuth(caller, l.owner); err != nil {
		return err
	}
	if !l.accounts.IsAccount(issuer) {
		return apperr.Newf(apperr.Validation, "issuer account %q does not exist", issuer)
	}
	if !maxSupply.Symbol.Valid() {
		return apperr.New(apperr.Validation, "invalid symbol")
	}
	if maxSupply.Symbol.Precision != 0 {
		return apperr.New(apperr.Validation, "precision must be zero")
	}
	if !maxSupply.Valid() {
		return apperr.New(apperr.Validation, "invalid supply")
	}
	if maxSupply.Amount == 0 {
		maxSupply.Amount = asset.MaxAmount
	}
	if maxSupply.Amount < 0 {
		return apperr.New(apperr.Validation, "maximum supply must be positive")
	}

	err := l.store.Atomic(func(tx store.Tx) error {
		if _, err := tx.Stats().Get(maxSupply.Symbol.Code); err == nil {
			return apperr.Newf(apperr.Conflict, "symbol %s already exists", maxSupply.Symbol)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Stats().Put(&models.Stat{
			SymbolCode: maxSupply.Symbol.Code,
			Precision:  maxSupply.Symbol.Precision,
			Issuer:     issuer,
			Supply:     0,
			MaxSupply:  maxSupply.Amount,
		})
	})
	if err != nil {
		return err
	}

	l.log.Info("symbol registered",
		zap.String("symbol", maxSupply.Symbol.Code),
		zap.String("issuer", issuer),
		zap.Int64("max_supply", maxSupply.Amount))
	return nil
}

// Issue mints quantity into circulation and credits it to the recipient.
// Only the symbol's issuer may issue, and never past the supply cap.
func (l *Ledger) Issue(caller auth.Caller, to string, quantity asset.Quantity, memo string) error {
	if !l.accounts.IsAccount(to) {
		return apperr.Newf(apperr.Validation, "to account %q does not exist", to)
	}
	if err := validateMemo(memo); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	err := l.store.Atomic(func(tx store.Tx) error {
		stat, err := tx.Stats().Get(quantity.Symbol.Code)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "symbol %s does not exist, register before", quantity.Symbol)
		} else if err != nil {
			return err
		}
		if err := auth.RequireAuth(caller, stat.Issuer); err != nil {
			return err
		}
		if quantity.Symbol != stat.Symbol() {
			return apperr.New(apperr.Validation, "symbol mismatch")
		}
		if quantity.Amount > stat.Headroom() {
			return apperr.Newf(apperr.LimitExceeded, "quantity %s exceeds available supply", quantity)
		}

		stat.Supply += quantity.Amount
		if err := tx.Stats().Put(stat); err != nil {
			return err
		}
		return l.addBalance(tx, to, quantity)
	})
	if err != nil {
		return err
	}

	l.log.Info("issued",
		zap.String("to", to),
		zap.String("quantity", quantity.String()),
		zap.String("memo", memo))
	return nil
}

// Transfer moves quantity between two accounts. Under the custodial policy
// in force, only the ledger owner may move funds. The debit and credit
// apply as one unit; a failed debit leaves the recipient untouched. On
// commit a notice is delivered to both parties.
func (l *Ledger) Transfer(caller auth.Caller, from, to string, quantity asset.Quantity, memo string) error {
	if err := auth.RequireAuth(caller, l.owner); err != nil {
		return err
	}
	if from == to {
		return apperr.New(apperr.Validation, "cannot transfer to self")
	}
	if !l.accounts.IsAccount(to) {
		return apperr.Newf(apperr.Validation, "to account %q does not exist", to)
	}
	if err := validateMemo(memo); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	err := l.store.Atomic(func(tx store.Tx) error {
		stat, err := tx.Stats().Get(quantity.Symbol.Code)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "symbol %s does not exist, register before", quantity.Symbol)
		} else if err != nil {
			return err
		}
		if quantity.Symbol != stat.Symbol() {
			return apperr.New(apperr.Validation, "symbol mismatch")
		}
		if err := l.subBalance(tx, from, quantity); err != nil {
			return err
		}
		return l.addBalance(tx, to, quantity)
	})
	if err != nil {
		return err
	}

	l.emitter.Emit(event.Notice{
		ID:         uuid.New(),
		Kind:       event.KindTransfer,
		Recipients: []string{from, to},
		From:       from,
		To:         to,
		Quantity:   quantity,
		Memo:       memo,
	})
	l.log.Info("transferred",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("quantity", quantity.String()))
	return nil
}

// OpenAccount creates a zero balance for (owner, symbol) if none exists.
// Idempotent: opening an opened account is a no-op.
func (l *Ledger) OpenAccount(caller auth.Caller, owner string, symbol asset.Symbol) error {
	if err := auth.RequireAuth(caller, l.owner); err != nil {
		return err
	}

	return l.store.Atomic(func(tx store.Tx) error {
		if _, err := tx.Stats().Get(symbol.Code); errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "symbol %s does not exist, register before", symbol)
		} else if err != nil {
			return err
		}

		_, err := tx.Balances().Get(owner, symbol.Code)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Balances().Put(&models.Balance{
			Owner:      owner,
			SymbolCode: symbol.Code,
			Precision:  symbol.Precision,
			Amount:     0,
		})
	})
}

// GetBalance returns the holding of (owner, symbolCode). An account that
// was never opened or credited has no balance record.
func (l *Ledger) GetBalance(owner, symbolCode string) (asset.Quantity, error) {
	var q asset.Quantity
	err := l.store.View(func(tx store.Tx) error {
		b, err := tx.Balances().Get(owner, symbolCode)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "balance not opened: %s for %s", symbolCode, owner)
		} else if err != nil {
			return err
		}
		q = b.Quantity()
		return nil
	})
	return q, err
}

// GetStat returns the issuance record for symbolCode.
func (l *Ledger) GetStat(symbolCode string) (*models.Stat, error) {
	var stat *models.Stat
	err := l.store.View(func(tx store.Tx) error {
		s, err := tx.Stats().Get(symbolCode)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "symbol %s does not exist", symbolCode)
		} else if err != nil {
			return err
		}
		stat = s
		return nil
	})
	return stat, err
}

// Credit adds value to owner's balance inside a transaction driven by a
// collaborating engine. The balance is created at zero first if absent.
func (l *Ledger) Credit(tx store.Tx, owner string, value asset.Quantity) error {
	return l.addBalance(tx, owner, value)
}

// Debit subtracts value from owner's balance inside a transaction driven
// by a collaborating engine.
func (l *Ledger) Debit(tx store.Tx, owner string, value asset.Quantity) error {
	return l.subBalance(tx, owner, value)
}

func (l *Ledger) addBalance(tx store.Tx, owner string, value asset.Quantity) error {
	b, err := tx.Balances().Get(owner, value.Symbol.Code)
	if errors.Is(err, store.ErrNotFound) {
		return tx.Balances().Put(&models.Balance{
			Owner:      owner,
			SymbolCode: value.Symbol.Code,
			Precision:  value.Symbol.Precision,
			Amount:     value.Amount,
		})
	} else if err != nil {
		return err
	}

	sum, err := b.Quantity().Add(value)
	if err != nil {
		return apperr.Wrap(apperr.Validation, "add balance", err)
	}
	b.Amount = sum.Amount
	return tx.Balances().Put(b)
}

func (l *Ledger) subBalance(tx store.Tx, owner string, value asset.Quantity) error {
	b, err := tx.Balances().Get(owner, value.Symbol.Code)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Newf(apperr.NotFound, "balance not found: %s for %s", value.Symbol, owner)
	} else if err != nil {
		return err
	}
	if b.Amount < value.Amount {
		return apperr.Newf(apperr.LimitExceeded, "overdrawn balance: %s holds %d, needs %d",
			owner, b.Amount, value.Amount)
	}

	diff, err := b.Quantity().Sub(value)
	if err != nil {
		return apperr.Wrap(apperr.Validation, "sub balance", err)
	}
	b.Amount = diff.Amount
	return tx.Balances().Put(b)
}

func validateMemo(memo string) error {
	if len(memo) > maxMemoLen {
		return apperr.Newf(apperr.Validation, "memo must be within %d bytes", maxMemoLen)
	}
	return nil
}

func validateQuantity(q asset.Quantity) error {
	if !q.Symbol.Valid() {
		return apperr.New(apperr.Validation, "invalid symbol")
	}
	if q.Symbol.Precision != 0 {
		return apperr.New(apperr.Validation, "precision must be zero")
	}
	if !q.Valid() {
		return apperr.New(apperr.Validation, "invalid quantity")
	}
	if q.Amount <= 0 {
		return apperr.New(apperr.Validation, "quantity must be a positive integer")
	}
	return nil
}
