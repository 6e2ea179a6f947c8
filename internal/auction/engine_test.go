package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibct-dev/project-getbit-contract/internal/apperr"
	"github.com/ibct-dev/project-getbit-contract/internal/asset"
	"github.com/ibct-dev/project-getbit-contract/internal/auth"
	"github.com/ibct-dev/project-getbit-contract/internal/event"
	"github.com/ibct-dev/project-getbit-contract/internal/ledger"
	"github.com/ibct-dev/project-getbit-contract/internal/models"
	"github.com/ibct-dev/project-getbit-contract/internal/store"
)

const owner = "getbit"

var (
	ownerCaller = auth.Caller(owner)
	foo         = asset.NewSymbol("FOO", 0)
)

func qty(amount int64) asset.Quantity {
	return asset.NewQuantity(amount, foo)
}

// setupTest wires a ledger and an auction engine over one in-memory store,
// registers FOO, and funds the given bidders.
func setupTest(t *testing.T, funding map[string]int64) (*Engine, *ledger.Ledger, *event.Recorder) {
	st := store.NewMemory()
	rec := &event.Recorder{}
	names := []string{owner, "alice", "bob", "carol"}
	accounts := auth.NewRegistry(names...)

	led := ledger.New(zap.NewNop(), st, accounts, rec, owner)
	eng := New(zap.NewNop(), st, led, rec, owner)

	require.NoError(t, led.RegisterSymbol(ownerCaller, owner, qty(0)))
	for name, amount := range funding {
		require.NoError(t, led.Issue(ownerCaller, name, qty(amount), "funding"))
	}
	return eng, led, rec
}

func TestStartAuction(t *testing.T) {
	eng, _, _ := setupTest(t, nil)

	err := eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "prize", "pubkey", qty(100))
	require.NoError(t, err)

	a, err := eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, models.Bidding, a.Status)
	assert.Equal(t, models.FixedLot, a.Kind)
	assert.Equal(t, int64(0), a.Biddings)
	assert.Equal(t, int64(100), a.BiddingsLimit)
	assert.Equal(t, "prize", a.Prize)
	assert.Equal(t, owner, a.Winner)
	assert.Empty(t, a.PrivateKey)
}

func TestStartAuctionRejections(t *testing.T) {
	eng, _, _ := setupTest(t, nil)
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "p", "k", qty(100)))

	bar := asset.NewSymbol("BAR", 0)

	testCases := []struct {
		name   string
		caller auth.Caller
		id     uint64
		symbol asset.Symbol
		kind   models.AuctionKind
		limit  asset.Quantity
		kindOf apperr.Kind
	}{
		{name: "Not the owner", caller: "alice", id: 2, symbol: foo, kind: models.FixedLot, limit: qty(1), kindOf: apperr.Authorization},
		{name: "Unknown kind", caller: ownerCaller, id: 2, symbol: foo, kind: models.AuctionKind(9), limit: qty(1), kindOf: apperr.Validation},
		{name: "Limit symbol mismatch", caller: ownerCaller, id: 2, symbol: foo, kind: models.FixedLot, limit: asset.NewQuantity(1, bar), kindOf: apperr.Validation},
		{name: "Unregistered symbol", caller: ownerCaller, id: 2, symbol: bar, kind: models.FixedLot, limit: asset.NewQuantity(1, bar), kindOf: apperr.NotFound},
		{name: "Duplicate id", caller: ownerCaller, id: 1, symbol: foo, kind: models.FixedLot, limit: qty(1), kindOf: apperr.Conflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := eng.StartAuction(tc.caller, tc.id, tc.symbol, tc.kind, "p", "k", tc.limit)
			assert.True(t, apperr.IsKind(err, tc.kindOf), "got %v", err)
		})
	}
}

func TestPlaceBidEscrow(t *testing.T) {
	eng, led, rec := setupTest(t, map[string]int64{"bob": 100})
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.UnlimitedLot, "p", "k", qty(0)))

	err := eng.PlaceBid(auth.Caller("bob"), 1, qty(60), "1,2,3", "abcd")
	require.NoError(t, err)

	// Escrow: the bid moved from the bidder to the engine owner's custody.
	bobBalance, err := led.GetBalance("bob", "FOO")
	require.NoError(t, err)
	assert.Equal(t, int64(40), bobBalance.Amount)

	ownerBalance, err := led.GetBalance(owner, "FOO")
	require.NoError(t, err)
	assert.Equal(t, int64(60), ownerBalance.Amount)

	a, err := eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), a.Biddings)

	// Both the engine owner and the bidder are notified; the notice
	// carries the audit fields verbatim.
	require.Len(t, rec.Notices, 1)
	notice := rec.Notices[0]
	assert.Equal(t, event.KindBid, notice.Kind)
	assert.ElementsMatch(t, []string{owner, "bob"}, notice.Recipients)
	assert.Equal(t, uint64(1), notice.AuctionID)
	assert.Equal(t, "1,2,3", notice.Entries)
	assert.Equal(t, "abcd", notice.Hash)
}

func TestPlaceBidLimit(t *testing.T) {
	eng, led, _ := setupTest(t, map[string]int64{"bob": 100, "carol": 100})
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "p", "k", qty(100)))

	require.NoError(t, eng.PlaceBid(auth.Caller("bob"), 1, qty(60), "", ""))

	// 60+50 would exceed the 100 limit; the whole bid is rejected and
	// carol's funds stay put.
	err := eng.PlaceBid(auth.Caller("carol"), 1, qty(50), "", "")
	assert.True(t, apperr.IsKind(err, apperr.LimitExceeded), "got %v", err)

	carolBalance, err := led.GetBalance("carol", "FOO")
	require.NoError(t, err)
	assert.Equal(t, int64(100), carolBalance.Amount)

	a, err := eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), a.Biddings)

	// Filling the limit exactly is allowed.
	require.NoError(t, eng.PlaceBid(auth.Caller("carol"), 1, qty(40), "", ""))

	a, err = eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), a.Biddings)

	// The limit is now met; one more unit fails.
	err = eng.PlaceBid(auth.Caller("bob"), 1, qty(1), "", "")
	assert.True(t, apperr.IsKind(err, apperr.LimitExceeded), "got %v", err)
}

func TestPlaceBidRejections(t *testing.T) {
	eng, _, rec := setupTest(t, map[string]int64{"bob": 10})
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.UnlimitedLot, "p", "k", qty(0)))

	bar := asset.NewSymbol("BAR", 0)

	testCases := []struct {
		name      string
		caller    auth.Caller
		auctionID uint64
		quantity  asset.Quantity
		kind      apperr.Kind
	}{
		{name: "Zero quantity", caller: "bob", auctionID: 1, quantity: qty(0), kind: apperr.Validation},
		{name: "Unregistered symbol", caller: "bob", auctionID: 1, quantity: asset.NewQuantity(1, bar), kind: apperr.NotFound},
		{name: "Insufficient balance", caller: "bob", auctionID: 1, quantity: qty(11), kind: apperr.LimitExceeded},
		{name: "Unfunded bidder", caller: "carol", auctionID: 1, quantity: qty(1), kind: apperr.LimitExceeded},
		{name: "Unknown auction", caller: "bob", auctionID: 9, quantity: qty(1), kind: apperr.NotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := eng.PlaceBid(tc.caller, tc.auctionID, tc.quantity, "", "")
			assert.True(t, apperr.IsKind(err, tc.kind), "got %v", err)
		})
	}

	// Rejected bids emit nothing.
	assert.Empty(t, rec.Notices)
}

func TestPlaceBidSymbolMismatch(t *testing.T) {
	eng, led, _ := setupTest(t, nil)
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.UnlimitedLot, "p", "k", qty(0)))

	// Fund bob in a second symbol so the bid reaches the auction check.
	bar := asset.NewSymbol("BAR", 0)
	require.NoError(t, led.RegisterSymbol(ownerCaller, owner, asset.NewQuantity(0, bar)))
	require.NoError(t, led.Issue(ownerCaller, "bob", asset.NewQuantity(10, bar), ""))

	err := eng.PlaceBid(auth.Caller("bob"), 1, asset.NewQuantity(5, bar), "", "")
	assert.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)
}

func TestAuctionLifecycle(t *testing.T) {
	eng, _, _ := setupTest(t, map[string]int64{"bob": 100})
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "p", "k", qty(100)))
	require.NoError(t, eng.PlaceBid(auth.Caller("bob"), 1, qty(60), "", ""))

	// Close is owner-gated and moves Bidding -> WinnerCalculation.
	err := eng.CloseBidding(auth.Caller("bob"), 1)
	assert.True(t, apperr.IsKind(err, apperr.Authorization), "got %v", err)

	require.NoError(t, eng.CloseBidding(ownerCaller, 1))

	a, err := eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, models.WinnerCalculation, a.Status)

	// Bidding after close is a state violation.
	err = eng.PlaceBid(auth.Caller("bob"), 1, qty(1), "", "")
	assert.True(t, apperr.IsKind(err, apperr.State), "got %v", err)

	// Closing twice is too.
	err = eng.CloseBidding(ownerCaller, 1)
	assert.True(t, apperr.IsKind(err, apperr.State), "got %v", err)

	// Winner selection is terminal and retains the record.
	require.NoError(t, eng.SelectWinner(ownerCaller, 1, "bob", "42", "txhash", "privkey"))

	a, err = eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, models.WinnerSelected, a.Status)
	assert.Equal(t, "bob", a.Winner)
	assert.Equal(t, "42", a.WinnerNumber)
	assert.Equal(t, "txhash", a.WinnerTxHash)
	assert.Equal(t, "privkey", a.PrivateKey)

	// Selecting again regresses nothing.
	err = eng.SelectWinner(ownerCaller, 1, "carol", "7", "other", "key")
	assert.True(t, apperr.IsKind(err, apperr.State), "got %v", err)

	a, err = eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, "bob", a.Winner)
}

func TestSelectWinnerRequiresClose(t *testing.T) {
	eng, _, _ := setupTest(t, nil)
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "p", "k", qty(100)))

	// The WinnerCalculation phase cannot be skipped.
	err := eng.SelectWinner(ownerCaller, 1, "bob", "42", "txhash", "privkey")
	assert.True(t, apperr.IsKind(err, apperr.State), "got %v", err)

	a, err := eng.GetAuction(1)
	require.NoError(t, err)
	assert.Equal(t, models.Bidding, a.Status)
}

func TestListByStatus(t *testing.T) {
	eng, _, _ := setupTest(t, nil)
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "p", "k", qty(100)))
	require.NoError(t, eng.StartAuction(ownerCaller, 2, foo, models.UnlimitedLot, "p", "k", qty(0)))
	require.NoError(t, eng.CloseBidding(ownerCaller, 1))

	open, err := eng.ListByStatus(models.Bidding)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, uint64(2), open[0].ID)

	closed, err := eng.ListByStatus(models.WinnerCalculation)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, uint64(1), closed[0].ID)
}

func TestPurge(t *testing.T) {
	eng, led, _ := setupTest(t, map[string]int64{"bob": 100})
	require.NoError(t, eng.StartAuction(ownerCaller, 1, foo, models.FixedLot, "p", "k", qty(100)))
	require.NoError(t, eng.PlaceBid(auth.Caller("bob"), 1, qty(60), "", ""))

	err := eng.Purge(auth.Caller("bob"))
	assert.True(t, apperr.IsKind(err, apperr.Authorization), "got %v", err)

	require.NoError(t, eng.Purge(ownerCaller))

	_, err = eng.GetAuction(1)
	assert.True(t, apperr.IsKind(err, apperr.NotFound), "got %v", err)

	// Purge drops auction records only; escrowed balances are untouched.
	ownerBalance, err := led.GetBalance(owner, "FOO")
	require.NoError(t, err)
	assert.Equal(t, int64(60), ownerBalance.Amount)
}
