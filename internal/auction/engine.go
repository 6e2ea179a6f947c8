package auction

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibct-dev/project-getbit-contract/internal/apperr"
	"github.com/ibct-dev/project-getbit-contract/internal/asset"
	"github.com/ibct-dev/project-getbit-contract/internal/auth"
	"github.com/ibct-dev/project-getbit-contract/internal/event"
	"github.com/ibct-dev/project-getbit-contract/internal/ledger"
	"github.com/ibct-dev/project-getbit-contract/internal/models"
	"github.com/ibct-dev/project-getbit-contract/internal/store"
)

// Engine owns the Auction table and runs the sealed-bid lifecycle:
// Bidding -> WinnerCalculation -> WinnerSelected, strictly forward.
// Bid funds are escrowed through the Ledger; the engine never touches
// Balance records directly.
type Engine struct {
	log     *zap.Logger
	store   store.Store
	ledger  *ledger.Ledger
	emitter event.Emitter
	owner   string
}

// New creates an auction Engine. owner is the operator principal that
// starts, closes, and resolves auctions, and that custodially holds
// escrowed bids.
func New(log *zap.Logger, st store.Store, l *ledger.Ledger, emitter event.Emitter, owner string) *Engine {
	return &Engine{
		log:     log,
		store:   st,
		ledger:  l,
		emitter: emitter,
		owner:   owner,
	}
}

// Owner returns the engine owner principal.
func (e *Engine) Owner() string { return e.owner }

// StartAuction opens a new auction round in the Bidding state. The id is
// caller-supplied and must be unused. A zero biddingsLimit means the round
// accepts bids without a cap.
func (e *Engine) StartAuction(caller auth.Caller, id uint64, symbol asset.Symbol, kind models.AuctionKind,
	prize, publicKey string, biddingsLimit asset.Quantity) error {

	if err := auth.RequireAuth(caller, e.owner); err != nil {
		return err
	}
	if !models.KnownKind(kind) {
		return apperr.Newf(apperr.Validation, "unknown auction kind %d", kind)
	}
	if biddingsLimit.Symbol != symbol {
		return apperr.New(apperr.Validation, "biddings limit symbol mismatch")
	}
	if symbol.Precision != 0 {
		return apperr.New(apperr.Validation, "precision must be zero")
	}
	if !biddingsLimit.Valid() || biddingsLimit.Amount < 0 {
		return apperr.New(apperr.Validation, "invalid biddings limit")
	}

	err := e.store.Atomic(func(tx store.Tx) error {
		if _, err := tx.Stats().Get(symbol.Code); errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "symbol %s does not exist, register before", symbol)
		} else if err != nil {
			return err
		}

		if _, err := tx.Auctions().Get(id); err == nil {
			return apperr.Newf(apperr.Conflict, "auction %d already exists", id)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		return tx.Auctions().Put(&models.Auction{
			ID:            id,
			SymbolCode:    symbol.Code,
			Precision:     symbol.Precision,
			Kind:          kind,
			Status:        models.Bidding,
			Biddings:      0,
			BiddingsLimit: biddingsLimit.Amount,
			Prize:         prize,
			PublicKey:     publicKey,
			Winner:        e.owner,
		})
	})
	if err != nil {
		return err
	}

	e.log.Info("auction started",
		zap.Uint64("id", id),
		zap.String("symbol", symbol.Code),
		zap.String("kind", kind.String()),
		zap.Int64("biddings_limit", biddingsLimit.Amount))
	return nil
}

// PlaceBid escrows quantity from the bidder into the engine owner's
// custody and counts it toward the auction's biddings. The bidder is the
// caller; entries and hash are carried through to the emitted notice for
// external integrity verification and are not stored.
func (e *Engine) PlaceBid(caller auth.Caller, auctionID uint64, quantity asset.Quantity, entries, hash string) error {
	bidder := caller.String()
	if err := validateBidQuantity(quantity); err != nil {
		return err
	}

	err := e.store.Atomic(func(tx store.Tx) error {
		if _, err := tx.Stats().Get(quantity.Symbol.Code); errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "symbol %s does not exist, register before", quantity.Symbol)
		} else if err != nil {
			return err
		}

		b, err := tx.Balances().Get(bidder, quantity.Symbol.Code)
		if errors.Is(err, store.ErrNotFound) || (err == nil && b.Amount < quantity.Amount) {
			return apperr.Newf(apperr.LimitExceeded, "insufficient balance to bid %s", quantity)
		} else if err != nil {
			return err
		}

		a, err := tx.Auctions().Get(auctionID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "auction %d does not exist", auctionID)
		} else if err != nil {
			return err
		}
		if a.Symbol() != quantity.Symbol {
			return apperr.New(apperr.Validation, "symbol mismatch")
		}
		if a.Status != models.Bidding {
			return apperr.Newf(apperr.State, "auction %d closed", auctionID)
		}

		if a.BiddingsLimit > 0 {
			if a.Biddings+quantity.Amount > a.BiddingsLimit {
				return apperr.Newf(apperr.LimitExceeded, "bid %s exceeds biddings limit %d",
					quantity, a.BiddingsLimit)
			}
		}
		a.Biddings += quantity.Amount
		if err := tx.Auctions().Put(a); err != nil {
			return err
		}

		if err := e.ledger.Debit(tx, bidder, quantity); err != nil {
			return err
		}
		return e.ledger.Credit(tx, e.owner, quantity)
	})
	if err != nil {
		return err
	}

	e.emitter.Emit(event.Notice{
		ID:         uuid.New(),
		Kind:       event.KindBid,
		Recipients: []string{e.owner, bidder},
		From:       bidder,
		To:         e.owner,
		Quantity:   quantity,
		AuctionID:  auctionID,
		Entries:    entries,
		Hash:       hash,
	})
	e.log.Info("bid placed",
		zap.Uint64("auction_id", auctionID),
		zap.String("bidder", bidder),
		zap.String("quantity", quantity.String()))
	return nil
}

// CloseBidding ends the bidding phase, moving the auction to
// WinnerCalculation. Irreversible; there is no time-driven close.
func (e *Engine) CloseBidding(caller auth.Caller, id uint64) error {
	if err := auth.RequireAuth(caller, e.owner); err != nil {
		return err
	}

	err := e.store.Atomic(func(tx store.Tx) error {
		a, err := tx.Auctions().Get(id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "auction %d does not exist", id)
		} else if err != nil {
			return err
		}
		if a.Status != models.Bidding {
			return apperr.Newf(apperr.State, "auction %d was already ended", id)
		}
		a.Status = models.WinnerCalculation
		return tx.Auctions().Put(a)
	})
	if err != nil {
		return err
	}

	e.log.Info("bidding closed", zap.Uint64("id", id))
	return nil
}

// SelectWinner records the computed winner and the revealed private key,
// moving the auction to its terminal WinnerSelected state. The record is
// retained for audit; only Purge removes it.
func (e *Engine) SelectWinner(caller auth.Caller, id uint64, winner, winnerNumber, winnerTxHash, privateKey string) error {
	if err := auth.RequireAuth(caller, e.owner); err != nil {
		return err
	}

	err := e.store.Atomic(func(tx store.Tx) error {
		a, err := tx.Auctions().Get(id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "auction %d does not exist", id)
		} else if err != nil {
			return err
		}
		if a.Status != models.WinnerCalculation {
			return apperr.Newf(apperr.State, "auction %d is not yet ended", id)
		}
		a.Status = models.WinnerSelected
		a.Winner = winner
		a.WinnerNumber = winnerNumber
		a.WinnerTxHash = winnerTxHash
		a.PrivateKey = privateKey
		return tx.Auctions().Put(a)
	})
	if err != nil {
		return err
	}

	e.log.Info("winner selected",
		zap.Uint64("id", id),
		zap.String("winner", winner))
	return nil
}

// GetAuction returns the auction record for id.
func (e *Engine) GetAuction(id uint64) (*models.Auction, error) {
	var out *models.Auction
	err := e.store.View(func(tx store.Tx) error {
		a, err := tx.Auctions().Get(id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Newf(apperr.NotFound, "auction %d does not exist", id)
		} else if err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// ListByStatus returns all auctions currently in the given status.
func (e *Engine) ListByStatus(status models.AuctionStatus) ([]models.Auction, error) {
	var out []models.Auction
	err := e.store.View(func(tx store.Tx) error {
		var err error
		out, err = tx.Auctions().ByStatus(status)
		return err
	})
	return out, err
}

// Purge unconditionally empties the auction table. A blunt administrative
// maintenance step, not part of the normal lifecycle.
func (e *Engine) Purge(caller auth.Caller) error {
	if err := auth.RequireAuth(caller, e.owner); err != nil {
		return err
	}

	err := e.store.Atomic(func(tx store.Tx) error {
		return tx.Auctions().DeleteAll()
	})
	if err != nil {
		return err
	}

	e.log.Warn("auction table purged")
	return nil
}

func validateBidQuantity(q asset.Quantity) error {
	if !q.Symbol.Valid() {
		return apperr.New(apperr.Validation, "invalid symbol")
	}
	if q.Symbol.Precision != 0 {
		return apperr.New(apperr.Validation, "precision must be zero")
	}
	if !q.Valid() || q.Amount <= 0 {
		return apperr.New(apperr.Validation, "quantity must be a positive integer")
	}
	return nil
}
