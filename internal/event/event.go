package event

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibct-dev/project-getbit-contract/internal/asset"
)

// Kind names the operation a notice reports.
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindBid      Kind = "bid"
)

// Notice is a notification of committed fund movement, addressed to every
// affected principal. Off-chain consumers (wallets, explorers, auction
// dashboards) react to these; emitting one for each Transfer and PlaceBid
// is a contract obligation of the engines, not optional logging.
type Notice struct {
	ID         uuid.UUID
	Kind       Kind
	Recipients []string
	From       string
	To         string
	Quantity   asset.Quantity
	Memo       string

	// Bid audit fields. Entries and Hash are carried verbatim from the
	// call for external integrity verification; they are not ledger state.
	AuctionID uint64
	Entries   string
	Hash      string
}

// Emitter delivers notices. Implementations must not affect ledger
// invariants; engines emit only after a call has committed.
type Emitter interface {
	Emit(Notice)
}

// ZapEmitter writes each notice as one structured log entry, the feed
// off-chain consumers tail.
type ZapEmitter struct {
	log *zap.Logger
}

// NewZapEmitter builds an emitter over the given logger.
func NewZapEmitter(log *zap.Logger) *ZapEmitter {
	return &ZapEmitter{log: log}
}

func (e *ZapEmitter) Emit(n Notice) {
	fields := []zap.Field{
		zap.String("notice_id", n.ID.String()),
		zap.String("kind", string(n.Kind)),
		zap.Strings("recipients", n.Recipients),
		zap.String("from", n.From),
		zap.String("to", n.To),
		zap.String("quantity", n.Quantity.String()),
	}
	if n.Memo != "" {
		fields = append(fields, zap.String("memo", n.Memo))
	}
	if n.Kind == KindBid {
		fields = append(fields,
			zap.Uint64("auction_id", n.AuctionID),
			zap.String("entries", n.Entries),
			zap.String("hash", n.Hash),
		)
	}
	e.log.Info("notice", fields...)
}

// Recorder captures notices for inspection in tests.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Emit(n Notice) {
	r.Notices = append(r.Notices, n)
}

// Multi fans one notice out to several emitters in order.
type Multi []Emitter

func (m Multi) Emit(n Notice) {
	for _, e := range m {
		e.Emit(n)
	}
}
