package main

import (
	"fmt"
	"strconv"

	"github.com/ibct-dev/project-getbit-contract/internal/asset"
	"github.com/ibct-dev/project-getbit-contract/internal/auction"
	"github.com/ibct-dev/project-getbit-contract/internal/auth"
	"github.com/ibct-dev/project-getbit-contract/internal/ledger"
	"github.com/ibct-dev/project-getbit-contract/internal/models"
)

type app struct {
	ledger  *ledger.Ledger
	auction *auction.Engine
	caller  auth.Caller
}

// run dispatches one subcommand. Each invocation is a single atomic
// operation against the store.
func (a *app) run(command string, args []string) error {
	switch command {
	case "register-symbol":
		if len(args) != 2 {
			return fmt.Errorf("register-symbol wants <issuer> <maxSupply>")
		}
		maxSupply, err := asset.ParseQuantity(args[1])
		if err != nil {
			return err
		}
		return a.ledger.RegisterSymbol(a.caller, args[0], maxSupply)

	case "issue":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("issue wants <to> <quantity> [memo]")
		}
		quantity, err := asset.ParseQuantity(args[1])
		if err != nil {
			return err
		}
		return a.ledger.Issue(a.caller, args[0], quantity, optional(args, 2))

	case "transfer":
		if len(args) < 3 || len(args) > 4 {
			return fmt.Errorf("transfer wants <from> <to> <quantity> [memo]")
		}
		quantity, err := asset.ParseQuantity(args[2])
		if err != nil {
			return err
		}
		return a.ledger.Transfer(a.caller, args[0], args[1], quantity, optional(args, 3))

	case "open-account":
		if len(args) != 2 {
			return fmt.Errorf("open-account wants <owner> <symbolCode>")
		}
		return a.ledger.OpenAccount(a.caller, args[0], asset.NewSymbol(args[1], 0))

	case "balance":
		if len(args) != 2 {
			return fmt.Errorf("balance wants <owner> <symbolCode>")
		}
		q, err := a.ledger.GetBalance(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(q)
		return nil

	case "start-auction":
		if len(args) != 6 {
			return fmt.Errorf("start-auction wants <id> <symbolCode> <kind> <prize> <publicKey> <limit>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed auction id %q: %w", args[0], err)
		}
		kind, err := parseKind(args[2])
		if err != nil {
			return err
		}
		limit, err := asset.ParseQuantity(args[5])
		if err != nil {
			return err
		}
		return a.auction.StartAuction(a.caller, id, asset.NewSymbol(args[1], 0), kind, args[3], args[4], limit)

	case "bid":
		if len(args) != 4 {
			return fmt.Errorf("bid wants <auctionID> <quantity> <entries> <hash>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed auction id %q: %w", args[0], err)
		}
		quantity, err := asset.ParseQuantity(args[1])
		if err != nil {
			return err
		}
		return a.auction.PlaceBid(a.caller, id, quantity, args[2], args[3])

	case "close-bidding":
		if len(args) != 1 {
			return fmt.Errorf("close-bidding wants <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed auction id %q: %w", args[0], err)
		}
		return a.auction.CloseBidding(a.caller, id)

	case "select-winner":
		if len(args) != 5 {
			return fmt.Errorf("select-winner wants <id> <winner> <winnerNumber> <winnerTxHash> <privateKey>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed auction id %q: %w", args[0], err)
		}
		return a.auction.SelectWinner(a.caller, id, args[1], args[2], args[3], args[4])

	case "purge":
		return a.auction.Purge(a.caller)
	}

	return fmt.Errorf("unknown command %q", command)
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func parseKind(s string) (models.AuctionKind, error) {
	switch s {
	case "FIXED_LOT", "fixed-lot":
		return models.FixedLot, nil
	case "UNLIMITED_LOT", "unlimited-lot":
		return models.UnlimitedLot, nil
	}
	return 0, fmt.Errorf("unknown auction kind %q", s)
}
