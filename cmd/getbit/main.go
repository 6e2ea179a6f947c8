package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ibct-dev/project-getbit-contract/internal/auction"
	"github.com/ibct-dev/project-getbit-contract/internal/auth"
	"github.com/ibct-dev/project-getbit-contract/internal/config"
	"github.com/ibct-dev/project-getbit-contract/internal/event"
	"github.com/ibct-dev/project-getbit-contract/internal/ledger"
	"github.com/ibct-dev/project-getbit-contract/internal/logger"
	"github.com/ibct-dev/project-getbit-contract/internal/store"
)

const usage = `usage: getbit [-config dir] [-actor name] <command> [args...]

ledger commands:
  register-symbol <issuer> <maxSupply>                e.g. "1000 COU"; amount 0 means unlimited
  issue <to> <quantity> [memo]
  transfer <from> <to> <quantity> [memo]
  open-account <owner> <symbolCode>
  balance <owner> <symbolCode>

auction commands:
  start-auction <id> <symbolCode> <kind> <prize> <publicKey> <limit>
  bid <auctionID> <quantity> <entries> <hash>
  close-bidding <id>
  select-winner <id> <winner> <winnerNumber> <winnerTxHash> <privateKey>
  purge
`

func main() {
	configPath := flag.String("config", "./configs", "directory holding config.yml")
	actor := flag.String("actor", "", "verified caller principal (defaults to the ledger owner)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	// Load application configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Open the durable store and migrate the schema
	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}

	// Wire the engines. Owners are always resolvable accounts.
	accounts := auth.NewRegistry(cfg.Contract.Accounts...)
	accounts.Add(cfg.Contract.LedgerOwner)
	accounts.Add(cfg.Contract.AuctionOwner)

	emitter := event.NewZapEmitter(log)
	led := ledger.New(log, st, accounts, emitter, cfg.Contract.LedgerOwner)
	eng := auction.New(log, st, led, emitter, cfg.Contract.AuctionOwner)

	caller := auth.Caller(*actor)
	if caller == "" {
		caller = auth.Caller(cfg.Contract.LedgerOwner)
	}

	app := &app{ledger: led, auction: eng, caller: caller}
	if err := app.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Error("Command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}
